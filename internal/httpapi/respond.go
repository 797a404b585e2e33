package httpapi

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"rollcall/internal/apperr"
)

// RegisterTagNames makes validator report json field names instead of Go
// struct field names. Called once from main before handlers are registered.
func RegisterTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// bindingError converts a gin binding failure into a validation error with
// one issue per failed field.
func bindingError(err error) *apperr.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.NewValidation("Invalid request body",
			apperr.FieldIssue{Field: "body", Message: err.Error()})
	}
	issues := make([]apperr.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, apperr.FieldIssue{Field: fe.Field(), Message: issueMessage(fe)})
	}
	return apperr.NewValidation("Invalid request body", issues...)
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s characters or items", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// fail maps an error from the service layer onto one JSON response.
func fail(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.NewInternal("Unexpected error", err)
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.Validation:
		status = http.StatusBadRequest
	case apperr.Unauthenticated:
		status = http.StatusUnauthorized
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Internal:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), appErr)
	}

	body := gin.H{"error": appErr.Message}
	if len(appErr.Issues) > 0 {
		body["errors"] = appErr.Issues
	}
	if appErr.Kind == apperr.Internal && appErr.Err != nil {
		body["message"] = appErr.Err.Error()
	}
	c.JSON(status, body)
}
