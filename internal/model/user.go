// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a registered user profile.
//
// The primary key is the identity provider's stable user id (uid) — we never
// generate our own user ids, because every bearer token already carries the
// provider's uid as its subject. Profiles are written once at registration
// and never updated or deleted by this system.
type User struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
