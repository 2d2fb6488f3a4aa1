package domain

// RoomID names a logical call room. Caller-chosen, no format constraint.
type RoomID string
