package content_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/content"
)

func validNewItem() content.NewItem {
	return content.NewItem{
		Title:      "Match 12 highlights",
		Type:       "video",
		Date:       "2026-03-14",
		URL:        "https://videos.club.test/12",
		AssignedTo: "players",
	}
}

func fieldNames(errs []apperror.FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

func TestValidateNewItem_Valid(t *testing.T) {
	in := validNewItem()
	in.Title = "  Match 12 highlights  "

	item, errs := content.ValidateNewItem(in)
	require.Empty(t, errs)
	assert.Equal(t, "Match 12 highlights", item.Title)
	assert.Equal(t, content.TypeVideo, item.Type)
	assert.Equal(t, "2026-03-14", item.Date.Format(content.DateLayout))
	assert.Equal(t, "players", item.AssignedTo)
	assert.NotNil(t, item.AuthorizedUsers)
}

func TestValidateNewItem_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *content.NewItem)
		field  string
	}{
		{"missing title", func(in *content.NewItem) { in.Title = " " }, "title"},
		{"long title", func(in *content.NewItem) { in.Title = strings.Repeat("x", 256) }, "title"},
		{"missing type", func(in *content.NewItem) { in.Type = "" }, "type"},
		{"unknown type", func(in *content.NewItem) { in.Type = "podcast" }, "type"},
		{"missing date", func(in *content.NewItem) { in.Date = "" }, "date"},
		{"bad date", func(in *content.NewItem) { in.Date = "14/03/2026" }, "date"},
		{"relative url", func(in *content.NewItem) { in.URL = "/videos/12" }, "url"},
		{"ftp url", func(in *content.NewItem) { in.URL = "ftp://club.test/12" }, "url"},
		{"empty assignment", func(in *content.NewItem) { in.AssignedTo = "  " }, "assignedTo"},
		{"bad authorized user", func(in *content.NewItem) { in.AuthorizedUsers = []string{"jane"} }, "authorizedUsers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validNewItem()
			tt.mutate(&in)

			_, errs := content.ValidateNewItem(in)
			assert.Contains(t, fieldNames(errs), tt.field)
		})
	}
}

func TestValidateNewItem_CanonicalizesIDs(t *testing.T) {
	id := uuid.New()
	in := validNewItem()
	in.AssignedTo = strings.ToUpper(id.String())
	in.AuthorizedUsers = []string{" " + strings.ToUpper(id.String()) + " "}

	item, errs := content.ValidateNewItem(in)
	require.Empty(t, errs)
	assert.Equal(t, id.String(), item.AssignedTo)
	assert.Equal(t, []string{id.String()}, item.AuthorizedUsers)
}

func TestValidateNewItem_UnknownAssignmentAccepted(t *testing.T) {
	in := validNewItem()
	in.AssignedTo = "coaches"

	item, errs := content.ValidateNewItem(in)
	require.Empty(t, errs)
	assert.Equal(t, "coaches", item.AssignedTo)
}

func TestValidatePatch(t *testing.T) {
	title := " New title "
	date := "2026-04-01"
	desc := "  notes "

	fields, errs := content.ValidatePatch(content.Patch{Title: &title, Date: &date, Description: &desc})
	require.Empty(t, errs)
	assert.Equal(t, "New title", *fields.Title)
	assert.Equal(t, "2026-04-01", fields.Date.Format(content.DateLayout))
	assert.Equal(t, "notes", *fields.Description)
	assert.Nil(t, fields.URL)
	assert.Nil(t, fields.AssignedTo)
	assert.Nil(t, fields.IsPrivate)
}

func TestValidatePatch_Errors(t *testing.T) {
	empty := ""
	badDate := "yesterday"
	users := []string{"not-a-uuid"}

	_, errs := content.ValidatePatch(content.Patch{
		Title:           &empty,
		Date:            &badDate,
		AssignedTo:      &empty,
		AuthorizedUsers: &users,
	})
	assert.ElementsMatch(t, []string{"title", "date", "assignedTo", "authorizedUsers"}, fieldNames(errs))
}
