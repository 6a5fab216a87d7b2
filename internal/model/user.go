package model

import "time"

// User is a broadcast recipient, keyed by (CountryCode, PhoneNumber).
type User struct {
	CountryCode string    `db:"country_code" json:"countryCode"` // "+48"
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"` // E.164
	Username    string    `db:"username"     json:"username"`
	CreatedAt   time.Time `db:"created_at"   json:"createdAt"`
}
