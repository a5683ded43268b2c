package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/pfcr/clubportal/internal/rbac"
)

const accountColumns = `id, email, email_confirmed, created_at, role, full_name, username, position, jersey_number`

// PostgresProvider implements Directory and AdminAPI using pgxpool.
// The pool handed to it determines which side is usable: the admin side
// needs a connection holding write grants on the accounts table.
type PostgresProvider struct {
	pool       *pgxpool.Pool
	bcryptCost int
}

// NewPostgresProvider creates a provider backed by the given connection pool.
func NewPostgresProvider(pool *pgxpool.Pool, bcryptCost int) *PostgresProvider {
	return &PostgresProvider{pool: pool, bcryptCost: bcryptCost}
}

// Authenticate verifies the email/password pair and returns the matching identity.
func (p *PostgresProvider) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	query := `SELECT ` + accountColumns + `, password_hash FROM accounts WHERE lower(email) = lower($1)`

	var hash string
	id, err := scanIdentity(p.pool.QueryRow(ctx, query, strings.TrimSpace(email)), &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("querying account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return id, nil
}

// GetUser retrieves a single identity by its UUID.
func (p *PostgresProvider) GetUser(ctx context.Context, id uuid.UUID) (*Identity, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	ident, err := scanIdentity(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("querying account: %w", err)
	}
	return ident, nil
}

// CreateUser inserts a new account with its full profile in a single
// statement. The account starts with an unconfirmed email.
func (p *PostgresProvider) CreateUser(ctx context.Context, u NewUser) (*Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), p.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	profile := normalizeProfile(u.Profile)
	ident := &Identity{
		Email:   strings.TrimSpace(u.Email),
		Profile: profile,
	}

	var position *string
	if profile.Position != "" {
		position = &profile.Position
	}

	query := `
		INSERT INTO accounts (email, password_hash, role, full_name, username, position, jersey_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email_confirmed, created_at`

	err = p.pool.QueryRow(ctx, query,
		ident.Email,
		string(hash),
		string(profile.Role),
		profile.FullName,
		profile.Username,
		position,
		profile.JerseyNumber,
	).Scan(&ident.ID, &ident.EmailConfirmed, &ident.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "accounts_username_key" {
				return nil, ErrDuplicateUsername
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("inserting account: %w", err)
	}

	return ident, nil
}

// ListUsers retrieves all accounts ordered by creation time.
func (p *PostgresProvider) ListUsers(ctx context.Context) ([]Identity, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at ASC, id ASC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var idents []Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account row: %w", err)
		}
		idents = append(idents, *ident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account rows: %w", err)
	}

	if idents == nil {
		idents = []Identity{}
	}

	return idents, nil
}

// scanIdentity reads accountColumns (plus any extra destinations) from row and
// validates the stored role at the boundary.
func scanIdentity(row pgx.Row, extra ...any) (*Identity, error) {
	var (
		ident    Identity
		role     string
		position *string
	)
	dest := []any{
		&ident.ID, &ident.Email, &ident.EmailConfirmed, &ident.CreatedAt,
		&role, &ident.Profile.FullName, &ident.Profile.Username,
		&position, &ident.Profile.JerseyNumber,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	parsed, ok := rbac.ParseRole(role)
	if !ok {
		slog.Warn("account has unrecognized role, treating as player", "id", ident.ID, "role", role)
	}
	ident.Profile.Role = parsed
	if position != nil {
		ident.Profile.Position = *position
	}
	ident.Profile = normalizeProfile(ident.Profile)

	return &ident, nil
}
