package service

import (
	"strings"
	"time"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

// FilterTasks keeps the tasks matching every criterion set in f, in their
// original order. today is the reference date for the overdue check.
func FilterTasks(tasks []model.Task, f model.TaskFilter, today time.Time) []model.Task {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, f, search, today) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t model.Task, f model.TaskFilter, search string, today time.Time) bool {
	if search != "" &&
		!strings.Contains(strings.ToLower(t.Title), search) &&
		!strings.Contains(strings.ToLower(t.Description), search) {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Category != nil && t.CategoryLabel() != *f.Category {
		return false
	}
	if f.OverdueOnly && !t.IsOverdue(today) {
		return false
	}
	if f.DueFrom != nil || f.DueTo != nil {
		if t.DueDate == nil {
			return false
		}
		due := model.Date(*t.DueDate)
		if f.DueFrom != nil && due.Before(model.Date(*f.DueFrom)) {
			return false
		}
		if f.DueTo != nil && due.After(model.Date(*f.DueTo)) {
			return false
		}
	}
	return true
}

// Summarize counts tasks per status over exactly the slice it is given.
func Summarize(tasks []model.Task) model.Summary {
	s := model.Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusTodo:
			s.Todo++
		case model.StatusInProgress:
			s.InProgress++
		case model.StatusDone:
			s.Done++
		}
	}
	return s
}
