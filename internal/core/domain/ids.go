package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// ValidID reports whether id is a well-formed identifier (24-char hex ObjectID).
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
