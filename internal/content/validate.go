package content

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfcr/clubportal/internal/apperror"
)

// NewItem mirrors the fields accepted when creating a content item.
type NewItem struct {
	Title           string
	Type            string
	Date            string
	Description     string
	URL             string
	MatchNumber     string
	Size            string
	AssignedTo      string
	IsPrivate       bool
	AuthorizedUsers []string
}

// Patch mirrors the fields accepted when updating a content item.
// Nil fields are left unchanged.
type Patch struct {
	Title           *string
	Date            *string
	Description     *string
	URL             *string
	MatchNumber     *string
	Size            *string
	AssignedTo      *string
	IsPrivate       *bool
	AuthorizedUsers *[]string
}

// ValidateNewItem validates the fields of a create request and returns the
// normalized item. Assignment values outside the keywords are accepted as is;
// the access rules hide items whose assignment matches nobody.
func ValidateNewItem(in NewItem) (*Item, []apperror.FieldError) {
	var errs []apperror.FieldError

	item := &Item{
		Title:       strings.TrimSpace(in.Title),
		Type:        Type(in.Type),
		Description: strings.TrimSpace(in.Description),
		URL:         strings.TrimSpace(in.URL),
		MatchNumber: strings.TrimSpace(in.MatchNumber),
		Size:        strings.TrimSpace(in.Size),
		AssignedTo:  normalizeAssignment(in.AssignedTo),
		IsPrivate:   in.IsPrivate,
	}

	errs = append(errs, validateTitle(item.Title)...)

	switch {
	case in.Type == "":
		errs = append(errs, apperror.FieldError{Field: "type", Message: "type is required"})
	case item.Type != TypeVideo && item.Type != TypeDocument:
		errs = append(errs, apperror.FieldError{Field: "type", Message: "type must be \"video\" or \"document\""})
	}

	date, dateErrs := validateDate(in.Date)
	errs = append(errs, dateErrs...)
	item.Date = date

	errs = append(errs, validateURL(item.URL)...)

	if item.AssignedTo == "" {
		errs = append(errs, apperror.FieldError{Field: "assignedTo", Message: "assignedTo is required"})
	}

	users, userErrs := normalizeUsers(in.AuthorizedUsers)
	errs = append(errs, userErrs...)
	item.AuthorizedUsers = users

	return item, errs
}

// ValidatePatch validates an update request and converts it to UpdateFields.
func ValidatePatch(p Patch) (UpdateFields, []apperror.FieldError) {
	var errs []apperror.FieldError
	var fields UpdateFields

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		errs = append(errs, validateTitle(title)...)
		fields.Title = &title
	}
	if p.Date != nil {
		date, dateErrs := validateDate(*p.Date)
		errs = append(errs, dateErrs...)
		fields.Date = &date
	}
	if p.URL != nil {
		u := strings.TrimSpace(*p.URL)
		errs = append(errs, validateURL(u)...)
		fields.URL = &u
	}
	if p.AssignedTo != nil {
		a := normalizeAssignment(*p.AssignedTo)
		if a == "" {
			errs = append(errs, apperror.FieldError{Field: "assignedTo", Message: "assignedTo must not be empty"})
		}
		fields.AssignedTo = &a
	}
	if p.AuthorizedUsers != nil {
		users, userErrs := normalizeUsers(*p.AuthorizedUsers)
		errs = append(errs, userErrs...)
		fields.AuthorizedUsers = &users
	}

	fields.Description = trimmed(p.Description)
	fields.MatchNumber = trimmed(p.MatchNumber)
	fields.Size = trimmed(p.Size)
	fields.IsPrivate = p.IsPrivate

	return fields, errs
}

func validateTitle(title string) []apperror.FieldError {
	if title == "" {
		return []apperror.FieldError{{Field: "title", Message: "title is required"}}
	}
	if len(title) > 255 {
		return []apperror.FieldError{{Field: "title", Message: "title must be at most 255 characters"}}
	}
	return nil
}

func validateDate(raw string) (time.Time, []apperror.FieldError) {
	if raw == "" {
		return time.Time{}, []apperror.FieldError{{Field: "date", Message: "date is required"}}
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, []apperror.FieldError{{Field: "date", Message: "date must be formatted as YYYY-MM-DD"}}
	}
	return d, nil
}

func validateURL(raw string) []apperror.FieldError {
	if raw == "" {
		return nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return []apperror.FieldError{{Field: "url", Message: "url must be an absolute http(s) URL"}}
	}
	return nil
}

// normalizeUsers parses identity ids and returns them in canonical form.
func normalizeUsers(raw []string) ([]string, []apperror.FieldError) {
	users := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			return nil, []apperror.FieldError{{Field: "authorizedUsers", Message: "authorizedUsers must contain valid identity ids"}}
		}
		users = append(users, id.String())
	}
	return users, nil
}

// normalizeAssignment canonicalizes identity ids so they compare equal to
// uuid.UUID.String(); keywords and unknown values pass through trimmed.
func normalizeAssignment(raw string) string {
	a := strings.TrimSpace(raw)
	if id, err := uuid.Parse(a); err == nil {
		return id.String()
	}
	return a
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
