package waitlist

import (
	"context"

	"github.com/akeren/launch-waitlist/internal/log"
	"github.com/akeren/launch-waitlist/pkg/constants"
	apperrors "github.com/akeren/launch-waitlist/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/akeren/launch-waitlist/domain/waitlist")

// endSpan marks server faults on the span; client errors such as duplicates are not span errors.
func endSpan(span trace.Span, err error) {
	if err != nil && !apperrors.IsClientError(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperrors.GetHumanReadableMessage(err))
	}
	span.End()
}

type WaitlistService interface {
	// Join registers a new email on the waitlist.
	Join(ctx context.Context, req *JoinWaitlistRequest) (*WaitlistEntryResponse, error)

	// GetSummary returns the total count and the most recent signups with relative times.
	GetSummary(ctx context.Context) (*WaitlistSummary, error)

	// GetLaunchProgress reports how close the waitlist is to the launch target.
	GetLaunchProgress(ctx context.Context) (*LaunchProgress, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	settings   Settings
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, settings Settings) WaitlistService {
	return &waitlistService{logger: logger, repository: repository, settings: settings}
}

func (s *waitlistService) Join(ctx context.Context, req *JoinWaitlistRequest) (response *WaitlistEntryResponse, err error) {
	ctx, span := tracer.Start(ctx, "WaitlistService.Join")
	defer func() { endSpan(span, err) }()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil || req.Email == "" {
		logger.Error("Join received a request without an email")
		return nil, apperrors.NewInvalidRequestError(MessageEmailRequired, nil)
	}

	exists, err := s.repository.ExistsByEmail(ctx, req.Email)
	if err != nil {
		logger.Error("Failed to check waitlist for existing email", "error", err)
		return nil, apperrors.NewDatabaseError(MessageRegisterFailed, err)
	}

	if exists {
		logger.Info("Waitlist registration rejected, email already registered")
		return nil, apperrors.NewConflictError(MessageEmailTaken, nil)
	}

	entry, err := s.repository.CreateEntry(ctx, ToWaitlistEntryModel(req, s.settings.now()))
	if err != nil {
		// A concurrent insert of the same email surfaces here as a conflict.
		if apperrors.GetErrorType(err) == apperrors.ErrorTypeConflict {
			logger.Info("Waitlist registration lost a race for the same email")
			return nil, apperrors.NewConflictError(MessageEmailTaken, err)
		}

		logger.Error("Failed to create waitlist entry", "error", err)
		return nil, apperrors.NewDatabaseError(MessageRegisterFailed, err)
	}

	logger.Info("Waitlist entry created", "id", entry.ID)

	created := ToWaitlistEntryResponse(entry)
	return &created, nil
}

func (s *waitlistService) GetSummary(ctx context.Context) (summary *WaitlistSummary, err error) {
	ctx, span := tracer.Start(ctx, "WaitlistService.GetSummary")
	defer func() { endSpan(span, err) }()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	count, err := s.repository.CountEntries(ctx)
	if err != nil {
		logger.Error("Failed to count waitlist entries", "error", err)
		return nil, apperrors.NewDatabaseError(MessageCountFailed, err)
	}

	entries, err := s.repository.RecentEntries(ctx, constants.RecentSignupsLimit)
	if err != nil {
		logger.Error("Failed to fetch recent waitlist entries", "error", err)
		return nil, apperrors.NewDatabaseError(MessageRecentFailed, err)
	}

	return &WaitlistSummary{
		Count:         count,
		RecentSignups: ToRecentSignups(entries, s.settings.now(), s.settings.Dates),
	}, nil
}

func (s *waitlistService) GetLaunchProgress(ctx context.Context) (progress *LaunchProgress, err error) {
	ctx, span := tracer.Start(ctx, "WaitlistService.GetLaunchProgress")
	defer func() { endSpan(span, err) }()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	count, err := s.repository.CountEntries(ctx)
	if err != nil {
		logger.Error("Failed to count waitlist entries", "error", err)
		return nil, apperrors.NewDatabaseError(MessageCountFailed, err)
	}

	computed := ComputeLaunchProgress(count, s.settings.now(), s.settings)
	return &computed, nil
}
