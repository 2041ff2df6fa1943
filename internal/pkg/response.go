package pkg

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/recipebook/internal/domain"
)

// Response is the standard JSON envelope for API responses.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse is the 400 envelope for rejected input. Errors maps
// each offending field to the rule it broke, e.g. "portions": "min=1".
type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Respond sends a JSON envelope with an explicit status and message.
func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

// Success sends a 200 envelope with message "success".
func Success(c *gin.Context, data any) {
	Respond(c, http.StatusOK, "success", data)
}

// Created sends a 201 envelope carrying the stored entity.
func Created(c *gin.Context, message string, data any) {
	Respond(c, http.StatusCreated, message, data)
}

// List sends a page of results, typically a *domain.PageResult[T].
func List(c *gin.Context, result any) {
	Success(c, result)
}

// Error sends the envelope for err. The status comes from the code of a
// *domain.AppError, 500 for anything else, and only the AppError message
// reaches the client. Server-side failures are logged with their cause.
// err is also attached to c for the request logger.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)
	_ = c.Error(err)

	msg := domain.ErrInternal.Message
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	Respond(c, status, msg, nil)
}

// ValidationError sends a 400 response. validator.ValidationErrors are
// reported per field; any other error is sent as the message.
func ValidationError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		Respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[strings.ToLower(fe.Field())] = rule
	}
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "validation error",
		Errors:  fields,
	})
}

// BindAndValidate binds the request body (JSON or form) to obj and validates
// it. On failure it sends a ValidationError response keyed by the json names
// of the fields and returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	useWireNames()
	if err := c.ShouldBind(obj); err != nil {
		ValidationError(c, err)
		return false
	}
	return true
}

// useWireNames makes gin's validator report fields by json tag, then form
// tag, instead of by Go field name.
var useWireNames = sync.OnceFunc(func() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
})
