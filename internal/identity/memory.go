package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type memoryAccount struct {
	identity     Identity
	passwordHash []byte
}

// MemoryProvider is an in-process identity provider implementing both
// Directory and AdminAPI. It backs local development and tests.
type MemoryProvider struct {
	mu         sync.RWMutex
	accounts   []memoryAccount
	bcryptCost int
	now        func() time.Time
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider(bcryptCost int) *MemoryProvider {
	return &MemoryProvider{
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Authenticate verifies the email/password pair.
func (m *MemoryProvider) Authenticate(_ context.Context, email, password string) (*Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.accounts {
		a := &m.accounts[i]
		if !strings.EqualFold(a.identity.Email, strings.TrimSpace(email)) {
			continue
		}
		if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		ident := a.identity
		return &ident, nil
	}
	return nil, ErrInvalidCredentials
}

// GetUser returns the identity with the given id.
func (m *MemoryProvider) GetUser(_ context.Context, id uuid.UUID) (*Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.accounts {
		if m.accounts[i].identity.ID == id {
			ident := m.accounts[i].identity
			return &ident, nil
		}
	}
	return nil, ErrIdentityNotFound
}

// CreateUser stores a new account. Emails and usernames are unique, case-insensitively.
func (m *MemoryProvider) CreateUser(_ context.Context, u NewUser) (*Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), m.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.TrimSpace(u.Email)
	for i := range m.accounts {
		existing := &m.accounts[i].identity
		if strings.EqualFold(existing.Email, email) {
			return nil, ErrDuplicateEmail
		}
		if strings.EqualFold(existing.Profile.Username, u.Profile.Username) {
			return nil, ErrDuplicateUsername
		}
	}

	ident := Identity{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: m.now(),
		Profile:   normalizeProfile(u.Profile),
	}
	m.accounts = append(m.accounts, memoryAccount{identity: ident, passwordHash: hash})

	return &ident, nil
}

// ListUsers returns all accounts in creation order.
func (m *MemoryProvider) ListUsers(_ context.Context) ([]Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Identity, 0, len(m.accounts))
	for i := range m.accounts {
		out = append(out, m.accounts[i].identity)
	}
	return out, nil
}
