package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/service"
	"github.com/BuzzLyutic/task-tracker/pkg/respond"
)

const dateLayout = "2006-01-02"

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

// taskRequest is the wire form of a task; due_date is a plain calendar date.
type taskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     string         `json:"due_date"`
	Status      model.Status   `json:"status"`
	Priority    model.Priority `json:"priority"`
	CategoryID  *int64         `json:"category_id"`
	UserID      int64          `json:"user_id"`
}

func (req taskRequest) toTask() (model.Task, error) {
	t := model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
		UserID:      req.UserID,
	}
	if req.DueDate != "" {
		d, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			return t, fmt.Errorf("due_date must be YYYY-MM-DD")
		}
		t.DueDate = &d
	}
	return t, nil
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	t, ok := h.decode(w, r)
	if !ok {
		return
	}

	task, err := h.service.Create(r.Context(), caller(r), t)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), caller(r), id)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

// List returns the dashboard for the filter given in the query string.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}

	dash, err := h.service.Dashboard(r.Context(), caller(r), filter)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, dash)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, ok := h.decode(w, r)
	if !ok {
		return
	}
	t.ID = id

	task, err := h.service.Update(r.Context(), caller(r), t)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller(r), id); err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.NoContent(w)
}

func (h *TaskHandler) decode(w http.ResponseWriter, r *http.Request) (model.Task, bool) {
	var req taskRequest
	if err := respond.Decode(w, r, &req); err != nil {
		h.logger.Debug("failed to decode task", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return model.Task{}, false
	}
	t, err := req.toTask()
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return model.Task{}, false
	}
	return t, true
}

func parseFilter(r *http.Request) (model.TaskFilter, error) {
	q := r.URL.Query()
	f := model.TaskFilter{Search: q.Get("search")}

	if v := q.Get("status"); v != "" {
		st, err := model.ParseStatus(v)
		if err != nil {
			return f, service.ErrInvalidStatus
		}
		f.Status = &st
	}
	if v := q.Get("priority"); v != "" {
		p, err := model.ParsePriority(v)
		if err != nil {
			return f, service.ErrInvalidPriority
		}
		f.Priority = &p
	}
	if v := q.Get("category"); v != "" {
		f.Category = &v
	}
	if v := q.Get("overdue"); v != "" {
		overdue, err := strconv.ParseBool(v)
		if err != nil {
			return f, &service.ValidationError{Field: "overdue", Message: "overdue must be true or false"}
		}
		f.OverdueOnly = overdue
	}
	for key, dst := range map[string]**time.Time{"due_from": &f.DueFrom, "due_to": &f.DueTo} {
		if v := q.Get(key); v != "" {
			d, err := time.Parse(dateLayout, v)
			if err != nil {
				return f, &service.ValidationError{Field: key, Message: key + " must be YYYY-MM-DD"}
			}
			*dst = &d
		}
	}
	return f, nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
