package model

import (
	"fmt"
	"strings"
	"time"
)

// UncategorizedLabel is shown for tasks whose category is absent or no longer exists.
const UncategorizedLabel = "uncategorized"

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus accepts the canonical names case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities from LOW (1) to HIGH (3); unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

type Task struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Status       Status     `json:"status"`
	Priority     Priority   `json:"priority"`
	CategoryID   *int64     `json:"category_id,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	UserID       int64      `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CategoryLabel returns the resolved category name, or UncategorizedLabel.
func (t Task) CategoryLabel() string {
	if t.CategoryID == nil || t.CategoryName == "" {
		return UncategorizedLabel
	}
	return t.CategoryName
}

// IsOverdue reports whether the due date falls strictly before today's date.
func (t Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return Date(*t.DueDate).Before(Date(today))
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TaskFilter holds the optional dashboard criteria. Nil or zero fields match everything.
type TaskFilter struct {
	Search      string
	Status      *Status
	Priority    *Priority
	Category    *string
	OverdueOnly bool
	DueFrom     *time.Time
	DueTo       *time.Time
}

// Summary counts tasks per status. Cancelled tasks only appear in Total.
type Summary struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}
