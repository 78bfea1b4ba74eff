package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/devsync/devsync-go/internal/model"
)

var ErrSnippetNotFound = errors.New("snippet not found")

const snippetColumns = `id, user_id, title, category, language, snippet, views, downloads, created_at, updated_at`

// SnippetRepository handles snippet persistence operations.
type SnippetRepository struct {
	db *sql.DB
}

// NewSnippetRepository creates a new SnippetRepository.
func NewSnippetRepository(db *sql.DB) *SnippetRepository {
	return &SnippetRepository{db: db}
}

// Create inserts a new snippet with zeroed counters.
func (r *SnippetRepository) Create(ctx context.Context, s *model.Snippet) error {
	query := `INSERT INTO snippets (id, user_id, title, category, language, snippet, views, downloads)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.Title, s.Category, s.Language, s.Snippet,
	)
	return err
}

// GetByID retrieves a snippet by its ID.
func (r *SnippetRepository) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	query := `SELECT ` + snippetColumns + ` FROM snippets WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// ListAll retrieves every snippet in insertion order.
func (r *SnippetRepository) ListAll(ctx context.Context) ([]model.Snippet, error) {
	query := `SELECT ` + snippetColumns + ` FROM snippets ORDER BY created_at ASC`
	return r.scanMany(ctx, query)
}

// ListByUser retrieves all snippets owned by a user in insertion order.
func (r *SnippetRepository) ListByUser(ctx context.Context, userID int64) ([]model.Snippet, error) {
	query := `SELECT ` + snippetColumns + ` FROM snippets WHERE user_id = ? ORDER BY created_at ASC`
	return r.scanMany(ctx, query, userID)
}

// Search retrieves snippets whose title, category, or language contains the
// query string, case-insensitively.
func (r *SnippetRepository) Search(ctx context.Context, q string) ([]model.Snippet, error) {
	query := `SELECT ` + snippetColumns + ` FROM snippets
		WHERE LOWER(title) LIKE ? OR LOWER(category) LIKE ? OR LOWER(language) LIKE ?
		ORDER BY created_at ASC`

	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	return r.scanMany(ctx, query, pattern, pattern, pattern)
}

// Update persists the mutable fields of an existing snippet. Counters are
// only ever touched through the increment operations.
func (r *SnippetRepository) Update(ctx context.Context, s *model.Snippet) error {
	query := `UPDATE snippets SET title = ?, category = ?, language = ?, snippet = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, s.Title, s.Category, s.Language, s.Snippet, s.ID)
	return err
}

// Delete removes a snippet permanently.
func (r *SnippetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return requireRow(result, ErrSnippetNotFound)
}

// IncrementViews atomically bumps the view counter. Concurrent requests each
// apply their own increment; none are lost.
func (r *SnippetRepository) IncrementViews(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE snippets SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return requireRow(result, ErrSnippetNotFound)
}

// IncrementDownloads atomically bumps the download counter.
func (r *SnippetRepository) IncrementDownloads(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE snippets SET downloads = downloads + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return requireRow(result, ErrSnippetNotFound)
}

func (r *SnippetRepository) scanOne(row *sql.Row) (*model.Snippet, error) {
	s := &model.Snippet{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.Title, &s.Category, &s.Language, &s.Snippet,
		&s.Views, &s.Downloads, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnippetNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *SnippetRepository) scanMany(ctx context.Context, query string, args ...any) ([]model.Snippet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snippets []model.Snippet
	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Title, &s.Category, &s.Language, &s.Snippet,
			&s.Views, &s.Downloads, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		snippets = append(snippets, s)
	}

	return snippets, rows.Err()
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
