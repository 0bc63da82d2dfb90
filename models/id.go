package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24 character hex identifier.
// Identifiers embed their creation second and a process counter, so they sort by insertion order.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s has the 24-hex identifier shape.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}
