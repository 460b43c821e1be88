package asana

import (
	"fmt"
	"strings"
	"time"

	"github.com/asanadoc/asanadoc/pkg/model"
)

const dateLayout = "2006-01-02" // Asana's due_on format

// Date handles Asana's date-only fields, which arrive as "YYYY-MM-DD"
// strings or null.
type Date struct {
	time.Time
}

// UnmarshalJSON implements the json.Unmarshaler interface for Date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Asana date string '%s': %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

type userResource struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

func (u *userResource) toModel() *model.User {
	if u == nil {
		return nil
	}
	return &model.User{GID: u.GID, Name: u.Name}
}

type taskResource struct {
	GID          string        `json:"gid"`
	Name         string        `json:"name"`
	Notes        string        `json:"notes"`
	Assignee     *userResource `json:"assignee"`
	DueOn        *Date         `json:"due_on"`
	Completed    bool          `json:"completed"`
	PermalinkURL string        `json:"permalink_url"`
}

func (t *taskResource) toModel() *model.Task {
	task := &model.Task{
		GID:          t.GID,
		Name:         t.Name,
		Notes:        t.Notes,
		Assignee:     t.Assignee.toModel(),
		Completed:    t.Completed,
		PermalinkURL: t.PermalinkURL,
	}
	if t.DueOn != nil && !t.DueOn.IsZero() {
		due := t.DueOn.Time
		task.DueOn = &due
	}
	return task
}

type storyResource struct {
	GID             string        `json:"gid"`
	CreatedAt       time.Time     `json:"created_at"`
	CreatedBy       *userResource `json:"created_by"`
	ResourceSubtype string        `json:"resource_subtype"`
	Text            string        `json:"text"`
}

func (s *storyResource) toModel() model.Activity {
	return model.Activity{
		GID:       s.GID,
		CreatedAt: s.CreatedAt,
		Author:    s.CreatedBy.toModel(),
		Subtype:   s.ResourceSubtype,
		Text:      s.Text,
	}
}

type taskRefResource struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}
