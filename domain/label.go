package domain

import "time"

// DefaultLabelColor is applied when a label is created without a color.
const DefaultLabelColor = "#3B82F6"

// Label is a user-scoped tag attachable to tasks. Name uniqueness is
// enforced per user, not globally.
type Label struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Name      string    `json:"name" bson:"name"`
	Color     string    `json:"color" bson:"color"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// LabelWithCount is a label enriched with the number of tasks referencing it.
type LabelWithCount struct {
	Label     `bson:",inline"`
	TaskCount int `json:"task_count" bson:"task_count"`
}
