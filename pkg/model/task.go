package model

import "time"

// CommentSubtype marks an activity entry as a user-authored comment.
// Asana reports everything else (assignments, due date changes, likes)
// under other subtypes.
const CommentSubtype = "comment_added"

// User is a tracker user referenced by a task or an activity entry.
type User struct {
	GID  string
	Name string
}

// Activity is a timestamped event on a task. Only entries whose Subtype
// equals CommentSubtype survive ingestion.
type Activity struct {
	GID       string
	CreatedAt time.Time
	Author    *User // nil when the tracker omits the author
	Subtype   string
	Text      string
}

// IsComment reports whether the entry is a user-authored comment.
func (a Activity) IsComment() bool {
	return a.Subtype == CommentSubtype
}

// Task holds the metadata of a single task as returned by the tracker.
type Task struct {
	GID          string
	Name         string
	Notes        string
	Assignee     *User
	DueOn        *time.Time // date only, nil when the task has no due date
	Completed    bool
	PermalinkURL string
}

// TaskRef is a lightweight task reference from a subtask listing.
type TaskRef struct {
	GID  string
	Name string
}

// TaskTree is a Task enriched with its comments and recursively ingested
// subtasks. Comments and Subtasks preserve the tracker's return order.
// Each node is owned exclusively by its parent; once ingestion returns,
// the tree is never mutated.
type TaskTree struct {
	Task
	Comments []Activity
	Subtasks []*TaskTree

	// SkippedSubtasks counts direct subtasks whose ingestion failed and
	// which were dropped. It never influences rendering.
	SkippedSubtasks int
}
