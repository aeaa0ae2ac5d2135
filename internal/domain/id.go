package domain

import "go.mongodb.org/mongo-driver/v2/bson"

// NewID returns a fresh 24-hex-character identifier. Backends without native
// ObjectIDs use it so that every store accepts the same identifier shape.
func NewID() string { return bson.NewObjectID().Hex() }

// ParseID validates a client-supplied identifier.
func ParseID(s string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.ObjectID{}, ErrInvalidID
	}
	return oid, nil
}
