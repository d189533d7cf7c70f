package waitlist

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/akeren/launch-waitlist/config/router"
	"github.com/akeren/launch-waitlist/internal/log"
	apperrors "github.com/akeren/launch-waitlist/pkg/errors"
)

const waitlistMountPoint = "/api/waitlist"

func NewWaitlistController(service WaitlistService) *router.RESTController {
	return router.NewRESTController(
		"WaitlistController",
		waitlistMountPoint,
		func(rs *router.RouterService, c *router.RESTController) {
			metrics := newSignupMetrics(rs.MetricsRegisterer())

			rs.AddPostHandler(c, "", joinWaitlistHandler(service, metrics))
			rs.AddGetHandler(c, "", getWaitlistSummaryHandler(service))
			rs.AddGetHandler(c, "progress", getLaunchProgressHandler(service))
		},
	)
}

func joinWaitlistHandler(service WaitlistService, metrics *signupMetrics) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req JoinWaitlistRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			metrics.record(signupOutcomeInvalid)
			return bindErrorResult(logger, err, &req)
		}

		response, err := service.Join(ctx.Request.Context(), &req)
		if err != nil {
			metrics.record(signupOutcome(err))
			return errorResult(err)
		}

		metrics.record(signupOutcomeCreated)
		return router.JSONResult(http.StatusCreated, JoinWaitlistResponse{
			Success: true,
			Data:    response,
			Message: MessageJoined,
		})
	}
}

func getWaitlistSummaryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		summary, err := service.GetSummary(ctx.Request.Context())
		if err != nil {
			return errorResult(err)
		}

		return router.JSONResult(http.StatusOK, WaitlistSummaryResponse{
			Success:         true,
			WaitlistSummary: *summary,
		})
	}
}

func getLaunchProgressHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		progress, err := service.GetLaunchProgress(ctx.Request.Context())
		if err != nil {
			return errorResult(err)
		}

		return router.JSONResult(http.StatusOK, LaunchProgressResponse{
			Success:        true,
			LaunchProgress: *progress,
		})
	}
}

// bindErrorResult separates a body that is not JSON at all from a JSON object whose email is
// missing, null or of the wrong type.
func bindErrorResult(logger *log.Logger, err error, req *JoinWaitlistRequest) *router.ServiceResult {
	logger.Error("Failed to bind request", "error", err)

	var syntaxErr *json.SyntaxError
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.As(err, &syntaxErr) {
		return router.ErrorBodyResult(http.StatusBadRequest, MessageInvalidBody, nil)
	}

	var details any
	if validationErrors := apperrors.FormatValidationErrors(err, req); len(validationErrors) > 0 {
		details = validationErrors
	}

	return router.ErrorBodyResult(http.StatusBadRequest, MessageEmailRequired, details)
}

func signupOutcome(err error) string {
	switch apperrors.GetErrorType(err) {
	case apperrors.ErrorTypeConflict:
		return signupOutcomeDuplicate
	case apperrors.ErrorTypeInvalidRequest:
		return signupOutcomeInvalid
	default:
		return signupOutcomeFailed
	}
}

func errorResult(err error) *router.ServiceResult {
	status := apperrors.HTTPStatusCode(err)

	message := apperrors.GetHumanReadableMessage(err)
	if apperrors.GetErrorType(err) == apperrors.ErrorTypeUnknown {
		message = router.UnexpectedErrorMessage
	}

	return router.ErrorBodyResult(status, message, nil)
}
