package service

import (
	"context"
	"errors"
	"time"

	"github.com/devsync/devsync-go/internal/model"
	"github.com/devsync/devsync-go/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrTaskFieldsRequired = errors.New("title, description, priority and deadline are required")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrTaskNotFound       = errors.New("task not found")
	ErrNotTaskOwner       = errors.New("not the owner of this task")
)

// taskStore is the persistence surface the task service depends on.
type taskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
}

// TaskService applies the ownership-scoped CRUD policy to tasks.
type TaskService struct {
	store taskStore
}

// NewTaskService creates a new TaskService.
func NewTaskService(store taskStore) *TaskService {
	return &TaskService{store: store}
}

// List returns all tasks owned by the user, ordered by ascending deadline.
func (s *TaskService) List(ctx context.Context, userID int64) ([]model.Task, error) {
	tasks, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Create validates the request and stores a new task owned by the user.
// New tasks always start as "Not Started" and incomplete.
func (s *TaskService) Create(ctx context.Context, userID int64, req model.CreateTaskRequest) (*model.Task, error) {
	if req.Title == "" || req.Description == "" || req.Priority == "" || req.Deadline == nil {
		return nil, ErrTaskFieldsRequired
	}
	if !model.ValidPriority(req.Priority) {
		return nil, ErrInvalidPriority
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      model.StatusNotStarted,
		Deadline:    req.Deadline.UTC(),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Update applies an allow-listed patch to a task the user owns.
func (s *TaskService) Update(ctx context.Context, userID int64, id string, req model.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Priority != nil && !model.ValidPriority(*req.Priority) {
		return nil, ErrInvalidPriority
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Deadline != nil {
		task.Deadline = req.Deadline.UTC()
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := s.store.Update(ctx, task); err != nil {
		return nil, err
	}
	task.UpdatedAt = time.Now().UTC()

	return task, nil
}

// Delete removes a task the user owns.
func (s *TaskService) Delete(ctx context.Context, userID int64, id string) error {
	if _, err := s.loadOwned(ctx, userID, id); err != nil {
		return err
	}

	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	return err
}

// Complete marks a task the user owns as completed. This is the only
// operation that couples the completed flag to the status field.
func (s *TaskService) Complete(ctx context.Context, userID int64, id string) (*model.Task, error) {
	task, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	task.Completed = true
	task.Status = model.StatusCompleted

	if err := s.store.Update(ctx, task); err != nil {
		return nil, err
	}
	task.UpdatedAt = time.Now().UTC()

	return task, nil
}

// loadOwned fetches a task and enforces the ownership policy: an absent id
// is not found, a present id owned by someone else is forbidden.
func (s *TaskService) loadOwned(ctx context.Context, userID int64, id string) (*model.Task, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if err := requireOwner(task, userID, ErrNotTaskOwner); err != nil {
		return nil, err
	}

	return task, nil
}
