package response

import (
	"errors"

	"examprep-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Envelope is the body of every JSON response
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	StatusCode int         `json:"statusCode"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OK writes a successful envelope
func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		StatusCode: status,
	})
}

// Fail writes a failed envelope
func Fail(c *gin.Context, status int, message, detail string) {
	c.JSON(status, Envelope{
		Success:    false,
		Message:    message,
		Error:      detail,
		StatusCode: status,
	})
}

// AbortFail writes a failed envelope and stops the handler chain
func AbortFail(c *gin.Context, status int, message, detail string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success:    false,
		Message:    message,
		Error:      detail,
		StatusCode: status,
	})
}

// Error renders err according to its kind.
// Unclassified errors never leak their text to the client.
func Error(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal("Unexpected error", err)
	}
	status := apperror.StatusCode(appErr.Kind)
	_ = c.Error(err)
	Fail(c, status, appErr.Message, appErr.Detail)
}

// BindError renders a request binding failure as a validation envelope
func BindError(c *gin.Context, err error) {
	const status = 400
	fields := []FieldError{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   lowerFirst(fe.Field()),
				Message: fieldMessage(fe),
			})
		}
	} else {
		fields = append(fields, FieldError{Field: "body", Message: "Invalid request body"})
	}

	c.JSON(status, Envelope{
		Success:    false,
		Message:    "Validation failed",
		Error:      "Please check your input",
		Data:       fields,
		StatusCode: status,
	})
}

func fieldMessage(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return "Please provide a valid email address"
	case "min", "gte":
		return name + " must be at least " + fe.Param()
	case "max", "lte":
		return name + " must be at most " + fe.Param()
	case "oneof":
		return name + " must be one of: " + fe.Param()
	case "strongpassword":
		return "Password must contain an uppercase letter, a lowercase letter and a number"
	case "phone":
		return "Please provide a valid phone number"
	default:
		return name + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
