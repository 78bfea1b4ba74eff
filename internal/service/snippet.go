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
	ErrSnippetFieldsRequired = errors.New("title, category, snippet and language are required")
	ErrSnippetNotFound       = errors.New("snippet not found")
	ErrNotSnippetOwner       = errors.New("not the owner of this snippet")
)

// snippetStore is the persistence surface the snippet service depends on.
type snippetStore interface {
	Create(ctx context.Context, s *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	ListAll(ctx context.Context) ([]model.Snippet, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Snippet, error)
	Search(ctx context.Context, q string) ([]model.Snippet, error)
	Update(ctx context.Context, s *model.Snippet) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	IncrementDownloads(ctx context.Context, id string) error
}

// SnippetService applies the ownership-scoped CRUD policy to snippets.
// Reads are public; mutations require ownership.
type SnippetService struct {
	store snippetStore
}

// NewSnippetService creates a new SnippetService.
func NewSnippetService(store snippetStore) *SnippetService {
	return &SnippetService{store: store}
}

// ListPublic returns every snippet regardless of owner.
func (s *SnippetService) ListPublic(ctx context.Context) ([]model.Snippet, error) {
	snippets, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if snippets == nil {
		snippets = []model.Snippet{}
	}
	return snippets, nil
}

// ListOwned returns the snippets owned by the user.
func (s *SnippetService) ListOwned(ctx context.Context, userID int64) ([]model.Snippet, error) {
	snippets, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snippets == nil {
		snippets = []model.Snippet{}
	}
	return snippets, nil
}

// Search finds snippets whose title, category, or language contains q,
// case-insensitively. An empty query matches nothing.
func (s *SnippetService) Search(ctx context.Context, q string) ([]model.Snippet, error) {
	if q == "" {
		return []model.Snippet{}, nil
	}

	snippets, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if snippets == nil {
		snippets = []model.Snippet{}
	}
	return snippets, nil
}

// Get returns a snippet by id, counting the read as a view. The increment
// happens exactly once per successful get.
func (s *SnippetService) Get(ctx context.Context, id string) (*model.Snippet, error) {
	if err := s.store.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSnippetNotFound) {
			return nil, ErrSnippetNotFound
		}
		return nil, err
	}

	snippet, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSnippetNotFound) {
			return nil, ErrSnippetNotFound
		}
		return nil, err
	}

	return snippet, nil
}

// Create validates the request and stores a new snippet owned by the user,
// with both counters at zero.
func (s *SnippetService) Create(ctx context.Context, userID int64, req model.CreateSnippetRequest) (*model.Snippet, error) {
	if req.Title == "" || req.Category == "" || req.Snippet == "" || req.Language == "" {
		return nil, ErrSnippetFieldsRequired
	}

	now := time.Now().UTC()
	snippet := &model.Snippet{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     req.Title,
		Category:  req.Category,
		Language:  req.Language,
		Snippet:   req.Snippet,
		Views:     0,
		Downloads: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, snippet); err != nil {
		return nil, err
	}

	return snippet, nil
}

// Update applies an allow-listed patch to a snippet the user owns.
func (s *SnippetService) Update(ctx context.Context, userID int64, id string, req model.UpdateSnippetRequest) (*model.Snippet, error) {
	snippet, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		snippet.Title = *req.Title
	}
	if req.Category != nil {
		snippet.Category = *req.Category
	}
	if req.Language != nil {
		snippet.Language = *req.Language
	}
	if req.Snippet != nil {
		snippet.Snippet = *req.Snippet
	}

	if err := s.store.Update(ctx, snippet); err != nil {
		return nil, err
	}
	snippet.UpdatedAt = time.Now().UTC()

	return snippet, nil
}

// Delete removes a snippet the user owns.
func (s *SnippetService) Delete(ctx context.Context, userID int64, id string) error {
	if _, err := s.loadOwned(ctx, userID, id); err != nil {
		return err
	}

	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrSnippetNotFound) {
		return ErrSnippetNotFound
	}
	return err
}

// Download returns a snippet for download, counting the read as a download.
func (s *SnippetService) Download(ctx context.Context, id string) (*model.Snippet, error) {
	if err := s.store.IncrementDownloads(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSnippetNotFound) {
			return nil, ErrSnippetNotFound
		}
		return nil, err
	}

	snippet, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSnippetNotFound) {
			return nil, ErrSnippetNotFound
		}
		return nil, err
	}

	return snippet, nil
}

// loadOwned fetches a snippet and enforces the ownership policy.
func (s *SnippetService) loadOwned(ctx context.Context, userID int64, id string) (*model.Snippet, error) {
	snippet, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSnippetNotFound) {
			return nil, ErrSnippetNotFound
		}
		return nil, err
	}

	if err := requireOwner(snippet, userID, ErrNotSnippetOwner); err != nil {
		return nil, err
	}

	return snippet, nil
}
