package model

// Review is a user's score and comment for an app.
//
// Timestamp is stamped by the server on every write, not taken from the
// client. The upsert key is UserName alone — writing a review for a second
// app replaces the first (see ReviewRepository.Upsert for the flag on this).
type Review struct {
	ID        string `json:"-"`
	UserName  string `json:"user_name"`
	AppID     string `json:"app_id"`
	Score     int    `json:"score"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
