package models

// Admin represents an admin account. Admins are provisioned out-of-band.
type Admin struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never expose
}
