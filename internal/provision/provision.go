// Package provision creates portal accounts on behalf of privileged users.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/metrics"
	"github.com/pfcr/clubportal/internal/rbac"
)

// Request carries the fields of a new account. Position and JerseyNumber are
// only read for players.
type Request struct {
	FullName     string `json:"fullName" validate:"required"`
	Username     string `json:"username" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	Role         string `json:"role" validate:"required,oneof=player staff admin"`
	Position     string `json:"position"`
	JerseyNumber *int   `json:"jerseyNumber"`
}

// IdentityStore is the part of the identity store the provisioner writes through.
type IdentityStore interface {
	AdminAPI() (identity.AdminAPI, error)
	Invalidate(ctx context.Context) error
}

// Provisioner creates accounts. It never retries: a rejected request is
// reported to the caller as is.
type Provisioner struct {
	store    IdentityStore
	validate *validator.Validate
	metrics  *metrics.Metrics
}

// New creates a Provisioner writing through store. m may be nil.
func New(store IdentityStore, m *metrics.Metrics) *Provisioner {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	return &Provisioner{store: store, validate: v, metrics: m}
}

// CreateAccount validates req and creates the account in one provider call.
// The caller must hold ManageUsers. On any error no account exists.
func (p *Provisioner) CreateAccount(ctx context.Context, caller *identity.Identity, req Request) (*identity.Identity, error) {
	if !rbac.Can(caller, rbac.ManageUsers) {
		p.metrics.AccountProvisioned("denied")
		return nil, apperror.ErrPermissionDenied
	}

	req = trimRequest(req)
	if fieldErrors := p.validateRequest(req); len(fieldErrors) > 0 {
		p.metrics.AccountProvisioned("invalid")
		return nil, apperror.NewValidationError(fieldErrors...)
	}

	admin, err := p.store.AdminAPI()
	if err != nil {
		p.metrics.AccountProvisioned("error")
		return nil, err
	}

	role, _ := rbac.ParseRole(req.Role) // already validated
	profile := identity.Profile{
		Role:     role,
		FullName: req.FullName,
		Username: req.Username,
	}
	if role == rbac.RolePlayer {
		profile.Position = req.Position
		jersey := *req.JerseyNumber
		profile.JerseyNumber = &jersey
	}

	created, err := admin.CreateUser(ctx, identity.NewUser{
		Email:    req.Email,
		Password: req.Password,
		Profile:  profile,
	})
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) || errors.Is(err, identity.ErrDuplicateUsername) {
			p.metrics.AccountProvisioned("rejected")
			return nil, &apperror.ProvisioningError{Message: err.Error(), Err: err}
		}
		p.metrics.AccountProvisioned("error")
		return nil, &apperror.ProvisioningError{Message: err.Error(), Err: fmt.Errorf("creating account: %w", err)}
	}

	if err := p.store.Invalidate(ctx); err != nil {
		slog.Error("identity cache invalidation failed after provisioning", "error", err, "id", created.ID)
	}

	p.metrics.AccountProvisioned("created")
	slog.Info("account provisioned",
		"id", created.ID,
		"role", created.Profile.Role,
		"by", caller.ID,
	)

	return created, nil
}

// validateRequest runs the struct rules, then the player-only rules. Field
// errors are reported in declaration order.
func (p *Provisioner) validateRequest(req Request) []apperror.FieldError {
	var errs []apperror.FieldError

	if err := p.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []apperror.FieldError{{Field: "request", Message: err.Error()}}
		}
		for _, fe := range verrs {
			errs = append(errs, apperror.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}

	if req.Role == string(rbac.RolePlayer) {
		if req.Position == "" {
			errs = append(errs, apperror.FieldError{Field: "position", Message: "position is required for players"})
		}
		switch {
		case req.JerseyNumber == nil:
			errs = append(errs, apperror.FieldError{Field: "jerseyNumber", Message: "jerseyNumber is required for players"})
		case *req.JerseyNumber < 1 || *req.JerseyNumber > 99:
			errs = append(errs, apperror.FieldError{Field: "jerseyNumber", Message: "jerseyNumber must be between 1 and 99"})
		}
	}

	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s validation failed on '%s' tag", fe.Field(), fe.Tag())
	}
}

func trimRequest(req Request) Request {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	req.Position = strings.TrimSpace(req.Position)
	return req
}
