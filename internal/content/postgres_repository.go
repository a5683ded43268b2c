package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = `id, title, type, date, description, url, match_number, size,
		       assigned_to, is_private, authorized_users, created_by, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new content item.
func (r *PostgresRepository) Create(ctx context.Context, item *Item) error {
	if item.AuthorizedUsers == nil {
		item.AuthorizedUsers = []string{}
	}

	query := `
		INSERT INTO content_items (title, type, date, description, url, match_number, size,
		                           assigned_to, is_private, authorized_users, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		item.Title,
		string(item.Type),
		item.Date,
		item.Description,
		item.URL,
		item.MatchNumber,
		item.Size,
		item.AssignedTo,
		item.IsPrivate,
		item.AuthorizedUsers,
		item.CreatedBy,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting content item: %w", err)
	}

	return nil
}

// GetByID retrieves a single content item by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM content_items WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// List retrieves content items, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Item, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, string(*filter.Type))
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM content_items
		%s
		ORDER BY date DESC, created_at DESC, id ASC`, itemColumns, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing content items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning content item row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content item rows: %w", err)
	}

	if items == nil {
		items = []Item{}
	}

	return items, nil
}

// Update modifies the editable fields of a content item.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Item, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if fields.Title != nil {
		set("title", *fields.Title)
	}
	if fields.Description != nil {
		set("description", *fields.Description)
	}
	if fields.Date != nil {
		set("date", *fields.Date)
	}
	if fields.URL != nil {
		set("url", *fields.URL)
	}
	if fields.MatchNumber != nil {
		set("match_number", *fields.MatchNumber)
	}
	if fields.Size != nil {
		set("size", *fields.Size)
	}
	if fields.AssignedTo != nil {
		set("assigned_to", *fields.AssignedTo)
	}
	if fields.IsPrivate != nil {
		set("is_private", *fields.IsPrivate)
	}
	if fields.AuthorizedUsers != nil {
		users := *fields.AuthorizedUsers
		if users == nil {
			users = []string{}
		}
		set("authorized_users", users)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE content_items
		SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, itemColumns)

	return r.scanOne(ctx, query, args...)
}

// Delete removes a content item by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting content item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// scanOne scans a single Item row from a query. Returns ErrItemNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Item, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("scanning content item row: %w", err)
	}
	return item, nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var (
		item     Item
		itemType string
	)
	err := row.Scan(
		&item.ID, &item.Title, &itemType, &item.Date, &item.Description,
		&item.URL, &item.MatchNumber, &item.Size,
		&item.AssignedTo, &item.IsPrivate, &item.AuthorizedUsers,
		&item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Type = Type(itemType)
	return &item, nil
}
