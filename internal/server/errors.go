package server

import (
	"errors"
	"net/http"

	auditdomain "github.com/brokerbase/polisdesk/internal/audit/domain"
	authdomain "github.com/brokerbase/polisdesk/internal/auth/domain"
	companydomain "github.com/brokerbase/polisdesk/internal/company/domain"
	customerdomain "github.com/brokerbase/polisdesk/internal/customer/domain"
	propertydomain "github.com/brokerbase/polisdesk/internal/property/domain"
	"github.com/brokerbase/polisdesk/internal/treestore"
	"github.com/gin-gonic/gin"
)

// errorResponse is the failure envelope. Error carries a stable
// snake_case code clients can branch on.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrInternal           = errors.New("internal_error")
)

// ErrorHandlingMiddleware turns errors recorded on the gin context into
// the failure envelope. Handlers that already wrote a body win.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, code := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: code})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return ErrInvalidRequest
}

func mapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal_error"
	case isValidationError(err):
		return http.StatusBadRequest, err.Error()
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, err.Error()
	case isForbiddenError(err):
		return http.StatusForbidden, err.Error()
	case isNotFoundError(err):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, treestore.ErrUnavailable),
		errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "storage_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrNoFilesUploaded),
		errors.Is(err, ErrUnsupportedFileType),
		errors.Is(err, ErrFileTooLarge),
		errors.Is(err, customerdomain.ErrNameRequired),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidStatus),
		errors.Is(err, customerdomain.ErrEmptyQuery),
		errors.Is(err, propertydomain.ErrOwnerNameRequired),
		errors.Is(err, propertydomain.ErrInvalidID),
		errors.Is(err, propertydomain.ErrInvalidStatus),
		errors.Is(err, propertydomain.ErrEmptyQuery),
		errors.Is(err, authdomain.ErrMissingFields),
		errors.Is(err, authdomain.ErrShortUsername),
		errors.Is(err, authdomain.ErrShortPassword),
		errors.Is(err, authdomain.ErrInvalidRole),
		errors.Is(err, authdomain.ErrHandleTaken),
		errors.Is(err, companydomain.ErrNameRequired),
		errors.Is(err, companydomain.ErrProfileExists),
		errors.Is(err, companydomain.ErrProfileMissing),
		errors.Is(err, auditdomain.ErrInvalidPageToken),
		errors.Is(err, auditdomain.ErrInvalidTimeRange),
		errors.Is(err, auditdomain.ErrInvalidAction):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrWrongPassword),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrTokenExpired),
		errors.Is(err, customerdomain.ErrNoTenant),
		errors.Is(err, propertydomain.ErrNoTenant),
		errors.Is(err, companydomain.ErrNoTenant),
		errors.Is(err, auditdomain.ErrInvalidTenant):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, customerdomain.ErrForbidden),
		errors.Is(err, propertydomain.ErrForbidden):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, propertydomain.ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog labels request errors for the access log without
// leaking message contents.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	status, code := mapError(err)
	switch {
	case status == http.StatusBadRequest:
		return "validation_error", code
	case status == http.StatusUnauthorized:
		return "unauthorized", code
	case status == http.StatusForbidden:
		return "forbidden", code
	case status == http.StatusNotFound:
		return "not_found", code
	case status == http.StatusServiceUnavailable:
		return "storage_unavailable", code
	default:
		return "internal_error", code
	}
}
