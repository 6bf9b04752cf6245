package model

// App is a marketplace listing. This server only reads apps — publishing is
// a separate process that owns the collection.
//
// AppID is the unique business key (reverse-DNS style, e.g.
// "com.example.todo"). The internal storage ID is stripped from every
// response.
type App struct {
	ID          string   `json:"-"`
	AppID       string   `json:"app_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Platform    string   `json:"platform"`
	Tags        []string `json:"tags"`
}

// AppVersion is one append-only release of an app. Versions are served
// newest-first by Timestamp; the latest version is simply the head of that
// ordering.
type AppVersion struct {
	ID        string `json:"-"`
	AppID     string `json:"app_id"`
	Version   string `json:"version"`
	URL       string `json:"url"`   // download location for this release
	Notes     string `json:"notes"` // release notes, may be empty
	Timestamp int64  `json:"timestamp"`
}
