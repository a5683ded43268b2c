package session_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pfcr/clubportal/internal/identity"
)

type mockLookup struct {
	store    *identity.Store
	override *identity.Identity
	err      error
}

func (m *mockLookup) FindByID(ctx context.Context, id uuid.UUID) (*identity.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.override != nil {
		return m.override, nil
	}
	return m.store.FindByID(ctx, id)
}
