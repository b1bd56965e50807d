package service

import (
	"LinkHub-Backend/internal/domain"
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

func newEngagementService(t *testing.T) (*EngagementService, *memory.MemStorage, *domain.User) {
	t.Helper()
	storage := memory.New()
	user := newTestUser(t, storage, "alice")
	return NewEngagementService(storage, nil, zap.NewNop()), storage, user
}

func TestRecordView_DedupWindow(t *testing.T) {
	svc, storage, user := newEngagementService(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ip := ipptr(t, "203.0.113.7")

	outcome, err := svc.RecordView(ctx, "alice", ip, nil, now)
	require.NoError(t, err)
	assert.Equal(t, ViewRecorded, outcome)

	// same IP inside the window is suppressed
	outcome, err = svc.RecordView(ctx, "alice", ip, nil, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, ViewAlreadyRecorded, outcome)

	// a different IP is not
	outcome, err = svc.RecordView(ctx, "alice", ipptr(t, "203.0.113.8"), nil, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, ViewRecorded, outcome)

	// and the same IP records again once the window has passed
	outcome, err = svc.RecordView(ctx, "alice", ip, nil, now.Add(ViewDedupWindow+time.Minute))
	require.NoError(t, err)
	assert.Equal(t, ViewRecorded, outcome)

	total, err := storage.CountProfileViews(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRecordView_NoIPAlwaysRecords(t *testing.T) {
	svc, storage, user := newEngagementService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		outcome, err := svc.RecordView(ctx, "alice", nil, nil, now)
		require.NoError(t, err)
		assert.Equal(t, ViewRecorded, outcome)
	}

	total, err := storage.CountProfileViews(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRecordView_UnknownOrInactiveUser(t *testing.T) {
	svc, storage, _ := newEngagementService(t)
	inactive := newTestUser(t, storage, "bob")
	inactive.IsActive = false
	storage.AddUser(inactive)

	_, err := svc.RecordView(context.Background(), "nobody", nil, nil, time.Now().UTC())
	assertNotFound(t, err)

	_, err = svc.RecordView(context.Background(), "bob", nil, nil, time.Now().UTC())
	assertNotFound(t, err)
}

func TestRecordView_DedupIsBestEffort(t *testing.T) {
	svc, storage, user := newEngagementService(t)
	ctx := context.Background()
	now := time.Now().UTC()
	ip := *ipptr(t, "203.0.113.7")

	// two requests that both passed the recency check before either inserted
	require.NoError(t, storage.CreateProfileView(ctx, &domain.ProfileView{UserID: user.ID, ViewerIP: &ip, ViewedAt: now}))
	require.NoError(t, storage.CreateProfileView(ctx, &domain.ProfileView{UserID: user.ID, ViewerIP: &ip, ViewedAt: now}))

	// the duplicate stays; only subsequent requests are suppressed
	total, err := storage.CountProfileViews(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	outcome, err := svc.RecordView(ctx, "alice", &ip, nil, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, ViewAlreadyRecorded, outcome)
}

func TestRecordView_TruncatesUserAgent(t *testing.T) {
	svc, storage, user := newEngagementService(t)
	ctx := context.Background()

	long := strings.Repeat("x", maxUserAgentLen+200)
	_, err := svc.RecordView(ctx, "alice", nil, &long, time.Now().UTC())
	require.NoError(t, err)

	stats, err := storage.CountProfileViews(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats)
}

func TestRecordClick_IncrementsAndReturnsURL(t *testing.T) {
	svc, storage, user := newEngagementService(t)
	ctx := context.Background()
	link := seedLink(t, storage, user.ID, "blog", 0, 0)

	target, err := svc.RecordClick(ctx, link.ID, ipptr(t, "203.0.113.7"), strptr("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)"), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, *link.URL, target)

	got, err := storage.GetLink(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), got.ClickCount)

	devices, err := storage.ClicksByDevice(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), devices["mobile"])
}

func TestRecordClick_NeverDeduplicated(t *testing.T) {
	svc, storage, user := newEngagementService(t)
	ctx := context.Background()
	now := time.Now().UTC()
	link := seedLink(t, storage, user.ID, "blog", 0, 0)
	ip := ipptr(t, "203.0.113.7")

	for i := 0; i < 3; i++ {
		_, err := svc.RecordClick(ctx, link.ID, ip, nil, now)
		require.NoError(t, err)
	}

	got, err := storage.GetLink(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(3), got.ClickCount)
}

func TestRecordClick_NotFoundConflation(t *testing.T) {
	svc, storage, user := newEngagementService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// unknown id
	_, err := svc.RecordClick(ctx, uuid.New(), nil, nil, now)
	assertNotFound(t, err)

	// inactive link answers the same way
	inactive := seedLink(t, storage, user.ID, "off", 0, 0)
	inactive.IsActive = false
	require.NoError(t, storage.UpdateLink(ctx, inactive))
	_, err = svc.RecordClick(ctx, inactive.ID, nil, nil, now)
	assertNotFound(t, err)

	// headers carry no URL and cannot be clicked
	header := &domain.Link{
		ID:       uuid.New(),
		UserID:   user.ID,
		Title:    "My projects",
		Position: 1,
		IsActive: true,
		LinkType: domain.LinkTypeHeader,
	}
	require.NoError(t, storage.SaveLink(ctx, header))
	_, err = svc.RecordClick(ctx, header.ID, nil, nil, now)
	assertNotFound(t, err)
}

func TestTruncateUserAgent(t *testing.T) {
	assert.Nil(t, truncateUserAgent(nil))

	short := "Mozilla/5.0"
	assert.Equal(t, &short, truncateUserAgent(&short))

	long := strings.Repeat("a", maxUserAgentLen+1)
	got := truncateUserAgent(&long)
	require.NotNil(t, got)
	assert.Len(t, *got, maxUserAgentLen)
}
