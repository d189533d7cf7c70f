package waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akeren/launch-waitlist/internal/log"
	"github.com/akeren/launch-waitlist/internal/models"
	"github.com/akeren/launch-waitlist/pkg/constants"
	apperrors "github.com/akeren/launch-waitlist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testSettings() Settings {
	settings := NewDefaultSettings()
	settings.Now = func() time.Time { return fixedNow }
	return settings
}

func TestWaitlistService_Join(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, testSettings())

	t.Run("successful registration", func(t *testing.T) {
		req := &JoinWaitlistRequest{Email: "test@example.com"}

		mockRepo.EXPECT().
			ExistsByEmail(gomock.Any(), "test@example.com").
			Return(false, nil)

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
				assert.Equal(t, "test@example.com", entry.Email)
				assert.Equal(t, models.WaitlistStatusPending, entry.Status)
				assert.True(t, entry.CreatedAt.Equal(fixedNow))
				entry.ID = "generated-id"
				return entry, nil
			})

		result, err := service.Join(context.Background(), req)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "generated-id", result.ID)
		assert.Equal(t, "test@example.com", result.Email)
		assert.Equal(t, models.WaitlistStatusPending, result.Status)
		assert.Equal(t, "2025-06-01T12:00:00Z", result.CreatedAt)
	})

	t.Run("email is stored exactly as submitted", func(t *testing.T) {
		req := &JoinWaitlistRequest{Email: "  Mixed.Case@Example.COM "}

		mockRepo.EXPECT().
			ExistsByEmail(gomock.Any(), "  Mixed.Case@Example.COM ").
			Return(false, nil)

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
				return entry, nil
			})

		result, err := service.Join(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, req.Email, result.Email)
	})

	t.Run("missing email is rejected before any store call", func(t *testing.T) {
		for _, req := range []*JoinWaitlistRequest{nil, {Email: ""}} {
			result, err := service.Join(context.Background(), req)

			assert.Nil(t, result)
			assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
			assert.Equal(t, MessageEmailRequired, apperrors.GetHumanReadableMessage(err))
		}
	})

	t.Run("existing email is a conflict", func(t *testing.T) {
		mockRepo.EXPECT().
			ExistsByEmail(gomock.Any(), "taken@example.com").
			Return(true, nil)

		result, err := service.Join(context.Background(), &JoinWaitlistRequest{Email: "taken@example.com"})

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetErrorType(err))
		assert.Equal(t, MessageEmailTaken, apperrors.GetHumanReadableMessage(err))
		assert.True(t, apperrors.IsClientError(err))
	})

	t.Run("unique violation on insert is a conflict", func(t *testing.T) {
		mockRepo.EXPECT().
			ExistsByEmail(gomock.Any(), "race@example.com").
			Return(false, nil)

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewConflictError(MessageEmailTaken, errors.New("UNIQUE constraint failed")))

		result, err := service.Join(context.Background(), &JoinWaitlistRequest{Email: "race@example.com"})

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetErrorType(err))
		assert.Equal(t, MessageEmailTaken, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("lookup failure is a persistence error", func(t *testing.T) {
		mockRepo.EXPECT().
			ExistsByEmail(gomock.Any(), gomock.Any()).
			Return(false, apperrors.NewDatabaseError("connection refused", errors.New("dial tcp")))

		result, err := service.Join(context.Background(), &JoinWaitlistRequest{Email: "x@example.com"})

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
		assert.Equal(t, MessageRegisterFailed, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("insert failure is a persistence error", func(t *testing.T) {
		mockRepo.EXPECT().
			ExistsByEmail(gomock.Any(), gomock.Any()).
			Return(false, nil)

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("database error", nil))

		result, err := service.Join(context.Background(), &JoinWaitlistRequest{Email: "x@example.com"})

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
		assert.Equal(t, MessageRegisterFailed, apperrors.GetHumanReadableMessage(err))
		assert.False(t, apperrors.IsClientError(err))
	})
}

func TestWaitlistService_GetSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, testSettings())

	t.Run("empty waitlist", func(t *testing.T) {
		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(0), nil)
		mockRepo.EXPECT().
			RecentEntries(gomock.Any(), constants.RecentSignupsLimit).
			Return([]*models.WaitlistEntry{}, nil)

		summary, err := service.GetSummary(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(0), summary.Count)
		assert.NotNil(t, summary.RecentSignups)
		assert.Empty(t, summary.RecentSignups)
	})

	t.Run("recent signups keep store order and carry relative times", func(t *testing.T) {
		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(42), nil)
		mockRepo.EXPECT().
			RecentEntries(gomock.Any(), constants.RecentSignupsLimit).
			Return([]*models.WaitlistEntry{
				{Email: "newest@example.com", CreatedAt: fixedNow.Add(-30 * time.Second)},
				{Email: "middle@example.com", CreatedAt: fixedNow.Add(-3 * time.Hour)},
				{Email: "oldest@example.com", CreatedAt: fixedNow.Add(-10 * 24 * time.Hour)},
			}, nil)

		summary, err := service.GetSummary(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(42), summary.Count)
		assert.Equal(t, []RecentSignup{
			{Email: "newest@example.com", Time: "just now"},
			{Email: "middle@example.com", Time: "3h ago"},
			{Email: "oldest@example.com", Time: "5/22/2025"},
		}, summary.RecentSignups)
	})

	t.Run("count failure", func(t *testing.T) {
		mockRepo.EXPECT().
			CountEntries(gomock.Any()).
			Return(int64(0), apperrors.NewDatabaseError("database error", nil))

		summary, err := service.GetSummary(context.Background())

		assert.Nil(t, summary)
		assert.Equal(t, MessageCountFailed, apperrors.GetHumanReadableMessage(err))
		assert.Equal(t, 500, apperrors.HTTPStatusCode(err))
	})

	t.Run("recent failure", func(t *testing.T) {
		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(3), nil)
		mockRepo.EXPECT().
			RecentEntries(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("database error", nil))

		summary, err := service.GetSummary(context.Background())

		assert.Nil(t, summary)
		assert.Equal(t, MessageRecentFailed, apperrors.GetHumanReadableMessage(err))
		assert.Equal(t, 500, apperrors.HTTPStatusCode(err))
	})
}

func TestWaitlistService_GetLaunchProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	settings := testSettings()
	service := NewWaitlistService(logger, mockRepo, settings)

	t.Run("reports progress toward the target", func(t *testing.T) {
		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(125), nil)

		progress, err := service.GetLaunchProgress(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(125), progress.Count)
		assert.Equal(t, int64(500), progress.Target)
		assert.Equal(t, int64(375), progress.Remaining)
		assert.Equal(t, 25.0, progress.Progress)
		assert.False(t, progress.LaunchReady)
		assert.Equal(t, Countdown{Days: 18, Hours: 12}, progress.Countdown)
	})

	t.Run("count failure", func(t *testing.T) {
		mockRepo.EXPECT().
			CountEntries(gomock.Any()).
			Return(int64(0), errors.New("boom"))

		progress, err := service.GetLaunchProgress(context.Background())

		assert.Nil(t, progress)
		assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
		assert.Equal(t, MessageCountFailed, apperrors.GetHumanReadableMessage(err))
	})
}
