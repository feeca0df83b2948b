package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names shared by the repositories and the index bootstrap.
const (
	UsersCollection  = "users"
	TasksCollection  = "tasks"
	LabelsCollection = "labels"
)

// newID generates a document id. Ids are stored as ObjectID hex strings so
// the rest of the system only ever sees opaque strings.
func newID() string {
	return primitive.NewObjectID().Hex()
}
