package domain

import "time"

// Task status values.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Task priority values.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task represents a user-owned activity item.
type Task struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	UserID      string     `json:"user_id" bson:"user_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      string     `json:"status" bson:"status"`
	Priority    string     `json:"priority" bson:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	LabelIDs    []string   `json:"label_ids" bson:"label_ids"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskStatusCompleted
}

// HasLabel reports whether the task already references the label.
func (t *Task) HasLabel(labelID string) bool {
	if t == nil {
		return false
	}
	for _, id := range t.LabelIDs {
		if id == labelID {
			return true
		}
	}
	return false
}

// ValidTaskStatus reports whether s is one of the known status values.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// ValidTaskPriority reports whether p is one of the known priority values.
func ValidTaskPriority(p string) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TaskStats aggregates a user's task counts per status.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}
