package router

import (
	"net/http"

	"github.com/akeren/launch-waitlist/internal/log"
	"github.com/gin-gonic/gin"
)

// UnexpectedErrorMessage is the only text clients see for uncategorised failures.
const UnexpectedErrorMessage = "Internal server error"

func GetLogger(ctx *RequestContext) *log.Logger {
	if logger := ctx.Request.Context().Value(log.LoggerKeyForContext); logger != nil {
		if l, ok := logger.(*log.Logger); ok {
			return l
		}
	}

	baseLogger := log.NewLoggerWithJSONOutput()
	return baseLogger.WithCorrelationID(ctx.Request.Context())
}

// ErrorBody is the {"error": ...} payload used by every failing response.
func ErrorBody(message string) gin.H {
	return gin.H{"error": message}
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

func CreatedResult(data any, resourceName string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusCreated,
		Data:       data,
		Message:    resourceName + " created successfully",
	}
}

// JSONResult writes body as-is with the given status.
func JSONResult(statusCode int, body any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Body:       body,
	}
}

// ErrorBodyResult renders {"error": message} plus optional details.
func ErrorBodyResult(statusCode int, message string, details any) *ServiceResult {
	body := ErrorBody(message)
	if details != nil {
		body["details"] = details
	}
	return JSONResult(statusCode, body)
}

func InternalServerErrorResult(message string) *ServiceResult {
	return ErrorBodyResult(http.StatusInternalServerError, message, nil)
}
