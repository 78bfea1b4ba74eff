package service

import (
	"context"
	"sort"
	"strings"

	"github.com/devsync/devsync-go/internal/model"
	"github.com/devsync/devsync-go/internal/repository"
)

// In-memory stores backing the service tests. They mirror the repository
// contracts: lookups return copies, absent ids surface the repository
// sentinel errors, and list order matches what the SQL queries produce.

type memUserStore struct {
	nextID  int64
	byEmail map[string]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byEmail: make(map[string]*model.User)}
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	if _, exists := s.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.byEmail[user.Email] = &stored
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *user
	return &c, nil
}

type memTaskStore struct {
	order []string
	tasks map[string]*model.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[string]*model.Task)}
}

func (s *memTaskStore) Create(_ context.Context, task *model.Task) error {
	stored := *task
	s.tasks[task.ID] = &stored
	s.order = append(s.order, task.ID)
	return nil
}

func (s *memTaskStore) GetByID(_ context.Context, id string) (*model.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	c := *task
	return &c, nil
}

func (s *memTaskStore) ListByUser(_ context.Context, userID int64) ([]model.Task, error) {
	var tasks []model.Task
	for _, id := range s.order {
		if t := s.tasks[id]; t.UserID == userID {
			tasks = append(tasks, *t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Deadline.Before(tasks[j].Deadline)
	})
	return tasks, nil
}

func (s *memTaskStore) Update(_ context.Context, task *model.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *memTaskStore) Delete(_ context.Context, id string) error {
	if _, ok := s.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

type memSnippetStore struct {
	order    []string
	snippets map[string]*model.Snippet
}

func newMemSnippetStore() *memSnippetStore {
	return &memSnippetStore{snippets: make(map[string]*model.Snippet)}
}

func (s *memSnippetStore) Create(_ context.Context, snippet *model.Snippet) error {
	stored := *snippet
	s.snippets[snippet.ID] = &stored
	s.order = append(s.order, snippet.ID)
	return nil
}

func (s *memSnippetStore) GetByID(_ context.Context, id string) (*model.Snippet, error) {
	snippet, ok := s.snippets[id]
	if !ok {
		return nil, repository.ErrSnippetNotFound
	}
	c := *snippet
	return &c, nil
}

func (s *memSnippetStore) ListAll(_ context.Context) ([]model.Snippet, error) {
	var snippets []model.Snippet
	for _, id := range s.order {
		snippets = append(snippets, *s.snippets[id])
	}
	return snippets, nil
}

func (s *memSnippetStore) ListByUser(_ context.Context, userID int64) ([]model.Snippet, error) {
	var snippets []model.Snippet
	for _, id := range s.order {
		if sn := s.snippets[id]; sn.UserID == userID {
			snippets = append(snippets, *sn)
		}
	}
	return snippets, nil
}

func (s *memSnippetStore) Search(_ context.Context, q string) ([]model.Snippet, error) {
	q = strings.ToLower(q)
	var snippets []model.Snippet
	for _, id := range s.order {
		sn := s.snippets[id]
		if strings.Contains(strings.ToLower(sn.Title), q) ||
			strings.Contains(strings.ToLower(sn.Category), q) ||
			strings.Contains(strings.ToLower(sn.Language), q) {
			snippets = append(snippets, *sn)
		}
	}
	return snippets, nil
}

func (s *memSnippetStore) Update(_ context.Context, snippet *model.Snippet) error {
	existing, ok := s.snippets[snippet.ID]
	if !ok {
		return repository.ErrSnippetNotFound
	}
	stored := *snippet
	stored.Views = existing.Views
	stored.Downloads = existing.Downloads
	s.snippets[snippet.ID] = &stored
	return nil
}

func (s *memSnippetStore) Delete(_ context.Context, id string) error {
	if _, ok := s.snippets[id]; !ok {
		return repository.ErrSnippetNotFound
	}
	delete(s.snippets, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memSnippetStore) IncrementViews(_ context.Context, id string) error {
	snippet, ok := s.snippets[id]
	if !ok {
		return repository.ErrSnippetNotFound
	}
	snippet.Views++
	return nil
}

func (s *memSnippetStore) IncrementDownloads(_ context.Context, id string) error {
	snippet, ok := s.snippets[id]
	if !ok {
		return repository.ErrSnippetNotFound
	}
	snippet.Downloads++
	return nil
}
