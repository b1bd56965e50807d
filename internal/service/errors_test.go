package service

import (
	"LinkHub-Backend/internal/apperr"
	"LinkHub-Backend/internal/domain"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errDown = errors.New("connection refused")

func TestGetSummary_InfrastructureErrorPropagates(t *testing.T) {
	storage := new(MockStorage)
	svc := NewAnalyticsService(storage, zap.NewNop())
	userID := uuid.New()

	storage.On("ListUserLinks", mock.Anything, userID).Return(nil, errDown)

	_, err := svc.GetSummary(context.Background(), userID, time.Now().UTC())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)
	// infrastructure failures are never converted into business errors
	assert.False(t, apperr.IsBusiness(err))
	storage.AssertExpectations(t)
}

func TestCreate_CountErrorPropagates(t *testing.T) {
	storage := new(MockStorage)
	svc := NewLinkService(storage, zap.NewNop())
	userID := uuid.New()

	storage.On("CountUserLinks", mock.Anything, userID).Return(int64(0), errDown)

	_, err := svc.Create(context.Background(), userID, CreateLinkInput{
		Title: "Blog",
		URL:   strptr("https://example.com"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)
	storage.AssertExpectations(t)
}

func TestCreate_ValidatesBeforeTouchingStorage(t *testing.T) {
	storage := new(MockStorage)
	svc := NewLinkService(storage, zap.NewNop())

	_, err := svc.Create(context.Background(), uuid.New(), CreateLinkInput{Title: ""})
	assertBadRequest(t, err)
	storage.AssertNotCalled(t, "CountUserLinks", mock.Anything, mock.Anything)
}

func TestRecordView_DedupCheckErrorPropagates(t *testing.T) {
	storage := new(MockStorage)
	svc := NewEngagementService(storage, nil, zap.NewNop())
	user := &domain.User{ID: uuid.New(), Username: "alice", IsActive: true}
	ip := *ipptr(t, "203.0.113.7")

	storage.On("FindActiveUserByUsername", mock.Anything, "alice").Return(user, nil)
	storage.On("HasRecentProfileView", mock.Anything, user.ID, ip, mock.Anything).Return(false, errDown)

	_, err := svc.RecordView(context.Background(), "alice", &ip, nil, time.Now().UTC())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)
	storage.AssertNotCalled(t, "CreateProfileView", mock.Anything, mock.Anything)
}

func TestRecordClick_InsertErrorPropagates(t *testing.T) {
	storage := new(MockStorage)
	svc := NewEngagementService(storage, nil, zap.NewNop())
	url := "https://example.com"
	link := &domain.Link{ID: uuid.New(), UserID: uuid.New(), URL: &url, IsActive: true, LinkType: domain.LinkTypeLink}

	storage.On("GetActiveLink", mock.Anything, link.ID).Return(link, nil)
	storage.On("RecordLinkClick", mock.Anything, mock.Anything).Return(errDown)

	_, err := svc.RecordClick(context.Background(), link.ID, nil, nil, time.Now().UTC())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)
	storage.AssertExpectations(t)
}
