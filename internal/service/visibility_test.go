package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

func TestVisibleTo(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Title: "a1", UserID: alice.ID},
		{ID: 2, Title: "b1", UserID: bob.ID},
		{ID: 3, Title: "a2", UserID: alice.ID},
	}

	tests := []struct {
		name    string
		caller  model.User
		wantIDs []int64
	}{
		{name: "admin sees everything", caller: admin, wantIDs: []int64{1, 2, 3}},
		{name: "user sees own tasks", caller: alice, wantIDs: []int64{1, 3}},
		{name: "other user sees own tasks", caller: bob, wantIDs: []int64{2}},
		{name: "user without tasks sees nothing", caller: model.User{ID: 99, Role: model.RoleUser}, wantIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleTo(tt.caller, tasks)
			ids := make([]int64, 0, len(got))
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestVisibleTo_Empty(t *testing.T) {
	assert.Empty(t, VisibleTo(admin, nil))
	assert.Empty(t, VisibleTo(alice, []model.Task{}))
}

func TestVisibleTo_SubsetProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	callers := []model.User{admin, alice, bob}

	for i := 0; i < 200; i++ {
		tasks := make([]model.Task, rng.Intn(20))
		for j := range tasks {
			tasks[j] = model.Task{ID: int64(j + 1), UserID: int64(rng.Intn(4) + 1)}
		}

		for _, c := range callers {
			got := VisibleTo(c, tasks)
			assert.LessOrEqual(t, len(got), len(tasks))
			for _, task := range got {
				assert.Contains(t, tasks, task)
				if !c.IsAdmin() {
					assert.Equal(t, c.ID, task.UserID)
				}
			}
			if c.IsAdmin() {
				assert.Len(t, got, len(tasks))
			}
		}
	}
}
