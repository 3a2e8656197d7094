package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-admin/internal/domain/enhancer"
	"github.com/yanqian/faq-admin/internal/domain/faq"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

// domainError maps an AppError code to its HTTP status. Unknown codes are
// reported as fallback with a 500.
func domainError(err error, fallback string) *HTTPError {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case faq.CodeInvalidInput:
		status = http.StatusBadRequest
	case faq.CodeDuplicateQuestion, faq.CodeDuplicateID:
		status = http.StatusConflict
	case faq.CodeNotFound:
		status = http.StatusNotFound
	case faq.CodeLoadFailed, faq.CodeSaveFailed:
	case enhancer.CodeLLMError:
		status = http.StatusBadGateway
	case "invalid_credentials", "invalid_token":
		status = http.StatusUnauthorized
	default:
		code = fallback
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func bindError(err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, faq.CodeInvalidInput, errMessage(err), err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
