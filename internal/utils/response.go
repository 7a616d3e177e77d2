package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response defines the standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorInfo provides details for error responses.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
	Count     *int   `json:"count,omitempty"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// SuccessList writes a success response for a collection and records its size in meta.
func SuccessList(c *gin.Context, message string, data interface{}, count int) {
	meta := newMeta(c)
	meta.Count = &count
	c.JSON(http.StatusOK, Response{
		Success: true,
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, Response{
		Success: false,
		Code:    code,
		Message: message,
		Error: &ErrorInfo{
			Code:    errCode,
			Message: message,
		},
		Meta: newMeta(c),
	})
}

// ErrorFrom maps a service error onto an HTTP status and API error code.
// Unknown errors are reported as INTERNAL_ERROR.
func ErrorFrom(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrShopNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrOrderNotFound):
		Error(c, http.StatusNotFound, codeOf(err), err.Error())
	case errors.Is(err, ErrInvalidShopStatus),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrEmptyCart):
		Error(c, http.StatusUnprocessableEntity, codeOf(err), err.Error())
	case errors.Is(err, ErrTooManyAttempts):
		Error(c, http.StatusTooManyRequests, ErrTooManyAttempts.Error(), "Too many verification attempts, try again later")
	case errors.Is(err, ErrImageStorageOff):
		Error(c, http.StatusServiceUnavailable, ErrImageStorageOff.Error(), "Image storage is not configured")
	case errors.Is(err, ErrStorage):
		Error(c, http.StatusInternalServerError, ErrStorage.Error(), "Registry storage is unavailable")
	default:
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// codeOf returns the sentinel code wrapped in err.
func codeOf(err error) string {
	for _, sentinel := range []error{
		ErrShopNotFound, ErrProductNotFound, ErrOrderNotFound,
		ErrInvalidShopStatus, ErrInvalidQuantity, ErrEmptyCart,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "INTERNAL_ERROR"
}

func newMeta(c *gin.Context) Meta {
	return Meta{
		RequestID: getRequestID(c),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
