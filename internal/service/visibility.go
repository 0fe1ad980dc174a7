package service

import "github.com/BuzzLyutic/task-tracker/internal/model"

// VisibleTo returns the tasks caller may see: all of them for an ADMIN,
// otherwise only the caller's own. The input slice is not modified.
func VisibleTo(caller model.User, tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if caller.IsAdmin() || t.UserID == caller.ID {
			out = append(out, t)
		}
	}
	return out
}

func requireAdmin(caller model.User) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func canAccess(caller model.User, t model.Task) bool {
	return caller.IsAdmin() || t.UserID == caller.ID
}
