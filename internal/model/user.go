// Package model defines the data structures used throughout the application.
// Every entity here is owned by the hosted database backend — the structs
// are in-memory projections of backend pages, not rows we persist ourselves.
package model

import "time"

// User represents one workshop participant's progress record.
//
// PageID is the backend's native page identity (an opaque string) and is
// what update/append calls address. UserID is OUR identifier, assigned by
// the allocator and stored as a number property — it is what every HTTP
// route uses. The two must not be confused: relations between pages use
// PageID, clients only ever see UserID.
type User struct {
	PageID         string    `json:"-"`
	UserID         int       `json:"userId"`
	Name           string    `json:"name"`
	GithubUsername string    `json:"githubUsername,omitempty"`
	GithubSignup   bool      `json:"githubSignup"`
	NodeSetup      bool      `json:"nodeSetup"`
	WebhookSetup   bool      `json:"webhookSetup"`
	WebhookURL     string    `json:"webhookUrl,omitempty"`
	DemoAppSetup   bool      `json:"demoAppSetup"`
	Score          int       `json:"score"` // computed by a backend formula, read-only
	LastEditedTime time.Time `json:"lastEditedTime"`
}

// FirstName returns the portion of Name before the first space.
// Progress record titles are derived from it.
func (u *User) FirstName() string {
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}

// ScoreboardEntry is the projection served by GET /scoreboard and GET /users.
type ScoreboardEntry struct {
	Name           string    `json:"name"`
	UserID         int       `json:"id"`
	Score          int       `json:"score"`
	LastEditedTime time.Time `json:"lastEditedTime"`
}
