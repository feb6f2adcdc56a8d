package model

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task is a single todo item as the backend returns it. The backend's
// native record identifier (`_id`) is folded into ID when decoding, so
// the rest of the client only ever sees the canonical field.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	DueTime     string     `json:"dueTime,omitempty"`
	Category    string     `json:"category,omitempty"`
	Starred     bool       `json:"starred,omitempty"`
	Subtasks    []Subtask  `json:"subtasks,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	aux := struct {
		*alias
		NativeID string `json:"_id"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = aux.NativeID
	}
	return nil
}

type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (s *Subtask) UnmarshalJSON(data []byte) error {
	type alias Subtask
	aux := struct {
		*alias
		NativeID string `json:"_id"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = aux.NativeID
	}
	return nil
}

type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Comment) UnmarshalJSON(data []byte) error {
	type alias Comment
	aux := struct {
		*alias
		NativeID string `json:"_id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.NativeID
	}
	return nil
}

// Stats is the server-computed aggregate snapshot. The client stores it
// wholesale and never derives these counts itself.
type Stats struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	Pending      int `json:"pending"`
	InProgress   int `json:"inProgress"`
	HighPriority int `json:"highPriority"`
	Overdue      int `json:"overdue"`
}

type Notifications struct {
	Email     bool `json:"email"`
	Push      bool `json:"push"`
	Reminders bool `json:"reminders"`
}

type Preferences struct {
	Theme         string        `json:"theme,omitempty"`
	DefaultView   string        `json:"defaultView,omitempty"`
	Notifications Notifications `json:"notifications"`
}

type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Avatar      string      `json:"avatar,omitempty"`
	Preferences Preferences `json:"preferences"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		*alias
		NativeID string `json:"_id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.NativeID
	}
	return nil
}

// Filter is the parameter set sent to the backend when listing todos.
// The backend performs the actual filtering and pagination; "all"
// selectors are passed through untouched.
type Filter struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Category string `json:"category"`
	Starred  string `json:"starred"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
}

func DefaultFilter() Filter {
	return Filter{
		Status:   "all",
		Priority: "all",
		Category: "all",
		Starred:  "all",
		Page:     1,
		Limit:    20,
	}
}

// Values encodes the filter as backend query parameters.
func (f Filter) Values() url.Values {
	values := url.Values{}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Status != "" {
		values.Set("status", f.Status)
	}
	if f.Priority != "" {
		values.Set("priority", f.Priority)
	}
	if f.Category != "" {
		values.Set("category", f.Category)
	}
	if f.Starred != "" {
		values.Set("starred", f.Starred)
	}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	return values
}

// FilterPatch is a partial filter update; nil fields keep their current
// value when merged.
type FilterPatch struct {
	Search   *string
	Status   *string
	Priority *string
	Category *string
	Starred  *string
	Page     *int
	Limit    *int
}

func (f Filter) Merge(patch FilterPatch) Filter {
	if patch.Search != nil {
		f.Search = *patch.Search
	}
	if patch.Status != nil {
		f.Status = *patch.Status
	}
	if patch.Priority != nil {
		f.Priority = *patch.Priority
	}
	if patch.Category != nil {
		f.Category = *patch.Category
	}
	if patch.Starred != nil {
		f.Starred = *patch.Starred
	}
	if patch.Page != nil {
		f.Page = *patch.Page
	}
	if patch.Limit != nil {
		f.Limit = *patch.Limit
	}
	return f
}
