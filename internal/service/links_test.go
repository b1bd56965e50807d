package service

import (
	"LinkHub-Backend/internal/domain"
	"LinkHub-Backend/internal/repository"
	"LinkHub-Backend/internal/repository/memory"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLinkService(t *testing.T) (*LinkService, *memory.MemStorage, *domain.User) {
	t.Helper()
	storage := memory.New()
	user := newTestUser(t, storage, "alice")
	return NewLinkService(storage, zap.NewNop()), storage, user
}

func TestCreate_AppendsAtEnd(t *testing.T) {
	svc, _, user := newLinkService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "Blog", URL: strptr("https://example.com/blog")})
	require.NoError(t, err)
	assert.Equal(t, int32(0), first.Position)
	assert.True(t, first.IsActive)
	assert.Equal(t, domain.LinkTypeLink, first.LinkType)

	second, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "Shop", URL: strptr("https://example.com/shop")})
	require.NoError(t, err)
	assert.Equal(t, int32(1), second.Position)
}

func TestCreate_FillsGapAfterDelete(t *testing.T) {
	svc, _, user := newLinkService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "A", URL: strptr("https://example.com/a")})
	require.NoError(t, err)
	b, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "B", URL: strptr("https://example.com/b")})
	require.NoError(t, err)

	// deleting the last link frees its position for the next append
	require.NoError(t, svc.Delete(ctx, b.ID, user.ID))

	c, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "C", URL: strptr("https://example.com/c")})
	require.NoError(t, err)
	assert.Equal(t, a.Position+1, c.Position)
}

func TestCreate_LinkLimit(t *testing.T) {
	svc, _, user := newLinkService(t)
	ctx := context.Background()

	for i := 0; i < domain.MaxLinksPerUser; i++ {
		_, err := svc.Create(ctx, user.ID, CreateLinkInput{
			Title: "Link",
			URL:   strptr("https://example.com/x"),
		})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "One too many", URL: strptr("https://example.com/x")})
	assertBadRequest(t, err)
}

func TestCreate_HeaderWithoutURL(t *testing.T) {
	svc, _, user := newLinkService(t)

	header, err := svc.Create(context.Background(), user.ID, CreateLinkInput{
		Title:    "My projects",
		LinkType: domain.LinkTypeHeader,
	})
	require.NoError(t, err)
	assert.Nil(t, header.URL)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, user := newLinkService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateLinkInput
	}{
		{"blank title", CreateLinkInput{Title: "   ", URL: strptr("https://example.com")}},
		{"title too long", CreateLinkInput{Title: strings.Repeat("a", 101), URL: strptr("https://example.com")}},
		{"missing url", CreateLinkInput{Title: "Blog"}},
		{"javascript scheme", CreateLinkInput{Title: "Blog", URL: strptr("javascript:alert(1)")}},
		{"data scheme", CreateLinkInput{Title: "Blog", URL: strptr("data:text/html,hi")}},
		{"no http prefix", CreateLinkInput{Title: "Blog", URL: strptr("ftp://example.com")}},
		{"url too long", CreateLinkInput{Title: "Blog", URL: strptr("https://example.com/" + strings.Repeat("a", 2000))}},
		{"bad link type", CreateLinkInput{Title: "Blog", URL: strptr("https://example.com"), LinkType: "banner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, user.ID, tt.input)
			assertBadRequest(t, err)
		})
	}
}

func TestCreate_ScheduleWindowValidation(t *testing.T) {
	svc, _, user := newLinkService(t)
	start := time.Now().UTC()
	end := start.Add(-time.Hour)

	_, err := svc.Create(context.Background(), user.ID, CreateLinkInput{
		Title:          "Blog",
		URL:            strptr("https://example.com"),
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	})
	assertBadRequest(t, err)

	_, err = svc.Create(context.Background(), user.ID, CreateLinkInput{
		Title:          "Blog",
		URL:            strptr("https://example.com"),
		ScheduledStart: &start,
		ScheduledEnd:   &start,
	})
	assertBadRequest(t, err)
}

func TestReorder_SwapsPositions(t *testing.T) {
	svc, _, user := newLinkService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "A", URL: strptr("https://example.com/a")})
	require.NoError(t, err)
	b, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "B", URL: strptr("https://example.com/b")})
	require.NoError(t, err)

	ordered, err := svc.Reorder(ctx, user.ID, []repository.ReorderItem{
		{ID: a.ID, Position: 1},
		{ID: b.ID, Position: 0},
	})
	require.NoError(t, err)
	require.Len(t, ordered, 2)

	assert.Equal(t, b.ID, ordered[0].ID)
	assert.Equal(t, a.ID, ordered[1].ID)
}

func TestReorder_SkipsForeignAndUnknown(t *testing.T) {
	svc, storage, user := newLinkService(t)
	other := newTestUser(t, storage, "bob")
	ctx := context.Background()

	mine, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "Mine", URL: strptr("https://example.com/m")})
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, other.ID, CreateLinkInput{Title: "Theirs", URL: strptr("https://example.com/t")})
	require.NoError(t, err)

	ordered, err := svc.Reorder(ctx, user.ID, []repository.ReorderItem{
		{ID: mine.ID, Position: 5},
		{ID: theirs.ID, Position: 9},
		{ID: uuid.New(), Position: 3},
	})
	require.NoError(t, err)
	require.Len(t, ordered, 1)
	assert.Equal(t, int32(5), ordered[0].Position)

	// the other user's link is untouched
	got, err := storage.GetLink(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, theirs.Position, got.Position)
}

func TestUpdate_PartialAndOwnership(t *testing.T) {
	svc, storage, user := newLinkService(t)
	other := newTestUser(t, storage, "bob")
	ctx := context.Background()

	link, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "Blog", URL: strptr("https://example.com/blog")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, link.ID, user.ID, UpdateLinkInput{Title: strptr("  New title  ")})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	require.NotNil(t, updated.URL)
	assert.Equal(t, "https://example.com/blog", *updated.URL)

	_, err = svc.Update(ctx, link.ID, other.ID, UpdateLinkInput{Title: strptr("hijack")})
	assertForbidden(t, err)

	_, err = svc.Update(ctx, uuid.New(), user.ID, UpdateLinkInput{Title: strptr("x")})
	assertNotFound(t, err)
}

func TestToggle_FlipsActive(t *testing.T) {
	svc, _, user := newLinkService(t)
	ctx := context.Background()

	link, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "Blog", URL: strptr("https://example.com/blog")})
	require.NoError(t, err)

	toggled, err := svc.Toggle(ctx, link.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = svc.Toggle(ctx, link.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestDelete_CascadesClicks(t *testing.T) {
	svc, storage, user := newLinkService(t)
	ctx := context.Background()

	link, err := svc.Create(ctx, user.ID, CreateLinkInput{Title: "Blog", URL: strptr("https://example.com/blog")})
	require.NoError(t, err)
	seedClick(t, storage, link, nil, time.Now().UTC())

	require.NoError(t, svc.Delete(ctx, link.ID, user.ID))

	_, err = storage.GetLink(ctx, link.ID)
	assertNotFound(t, err)

	analytics := NewAnalyticsService(storage, zap.NewNop())
	clicks, err := analytics.GetRecentClicks(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, clicks)
}
