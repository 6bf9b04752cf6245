// Package model defines the records stored and served by the marketplace.
package model

// Role is the authorization level attached to a user account and carried in
// session tokens. Only two levels exist; everything a regular account can do,
// an admin can too.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles. Tokens are minted by
// this server so an unknown role means a foreign or tampered token.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered account.
//
// Name is the unique business key — logins, reviews and libraries all
// reference users by name, never by the internal storage ID. PasswordHash is
// the salted SHA3-256 digest from auth.Hasher; the plaintext never touches a
// record. Both the storage ID and the hash are excluded from JSON so no read
// surface can leak them.
type User struct {
	ID           string `json:"-"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	Img          string `json:"img"`  // avatar URL, may be empty
	Role         Role   `json:"role"` // "user" on signup; "admin" is assigned out of band
}
