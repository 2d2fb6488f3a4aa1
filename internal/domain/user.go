// Package domain contains entity without logic, just meta-data
package domain

const MaxDisplayNameLen = 36

// UserID is the application-supplied identity of a participant.
// Not verified for uniqueness or ownership here; the surrounding
// platform authenticates users before they reach this server.
type UserID string
