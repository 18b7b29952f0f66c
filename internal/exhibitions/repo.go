package exhibitions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"artefacthub/pkg/models"
)

var (
	// ErrNotFound covers both a missing exhibition and one owned by
	// someone else; callers cannot distinguish the two.
	ErrNotFound = errors.New("exhibition not found")

	// ErrDuplicateItem is returned when an item with the same
	// (title, source) pair is already saved to the exhibition.
	ErrDuplicateItem = errors.New("item already saved to this exhibition")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Repo persists exhibitions. The saved-items collection is one serialized
// JSON column per row, so every item mutation is a read-modify-write of the
// whole collection. Concurrent removals against the same exhibition can lose
// an update; that is a known limitation of the storage contract.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, userID, name string) (*models.Exhibition, error) {
	ex := &models.Exhibition{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		SavedItems: []models.NormalizedItem{},
		CreatedAt:  time.Now().UTC(),
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO exhibitions (id, user_id, name, saved_items, created_at)
		VALUES (?, ?, ?, '[]', ?)
	`, ex.ID, ex.UserID, ex.Name, ex.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create exhibition: %w", err)
	}
	return ex, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]models.Exhibition, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, saved_items, created_at
		FROM exhibitions
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list exhibitions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Exhibition, 0, 8)
	for rows.Next() {
		ex, err := scanExhibition(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Get returns the exhibition only if it belongs to userID.
func (r *Repo) Get(ctx context.Context, id, userID string) (*models.Exhibition, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, name, saved_items, created_at
		FROM exhibitions
		WHERE id = ? AND user_id = ?
	`, id, userID)

	ex, err := scanExhibition(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ex, nil
}

// AddItem appends item to the exhibition's saved items unless an item with
// the same (title, source) pair is already present.
func (r *Repo) AddItem(ctx context.Context, id, userID string, item models.NormalizedItem) (*models.Exhibition, error) {
	ex, err := r.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	for _, existing := range ex.SavedItems {
		if existing.SameArtifact(item) {
			return nil, ErrDuplicateItem
		}
	}

	ex.SavedItems = append(ex.SavedItems, item)
	if err := r.writeItems(ctx, id, userID, ex.SavedItems); err != nil {
		return nil, err
	}
	return ex, nil
}

// ReplaceItems swaps the whole saved-items collection. This is also the
// removal path: callers filter the list client-side and write it back.
func (r *Repo) ReplaceItems(ctx context.Context, id, userID string, items []models.NormalizedItem) (*models.Exhibition, error) {
	ex, err := r.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.NormalizedItem{}
	}

	if err := r.writeItems(ctx, id, userID, items); err != nil {
		return nil, err
	}
	ex.SavedItems = items
	return ex, nil
}

func (r *Repo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM exhibitions
		WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete exhibition: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) writeItems(ctx context.Context, id, userID string, items []models.NormalizedItem) error {
	serialized, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal saved items: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE exhibitions
		SET saved_items = ?
		WHERE id = ? AND user_id = ?
	`, string(serialized), id, userID)
	if err != nil {
		return fmt.Errorf("update saved items: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExhibition(scan func(dest ...any) error) (*models.Exhibition, error) {
	var ex models.Exhibition
	var serialized string

	if err := scan(&ex.ID, &ex.UserID, &ex.Name, &serialized, &ex.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exhibition: %w", err)
	}

	if err := json.Unmarshal([]byte(serialized), &ex.SavedItems); err != nil {
		return nil, fmt.Errorf("unmarshal saved items: %w", err)
	}
	if ex.SavedItems == nil {
		ex.SavedItems = []models.NormalizedItem{}
	}
	return &ex, nil
}
