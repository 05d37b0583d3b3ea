package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxRequestBodyBytes caps request bodies. The largest legitimate
// payload is a 10000-character source text plus JSON overhead.
const maxRequestBodyBytes = 1 << 20

// Validate is the validator instance shared by all request models.
// Handlers may register struct-level validations on it at startup.
// Field errors report json tag names so clients see the fields they
// actually sent.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into v, rejecting bodies over the
// size cap.
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates v. Types implementing their own Validate
// method take precedence over struct tags.
func ValidateRequest(v interface{}) error {
	if validatable, ok := v.(interface{ Validate() error }); ok {
		return validatable.Validate()
	}
	return Validate.Struct(v)
}

// ValidationErrorDetail describes one invalid request field in a form
// safe to return to clients.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorDetails converts a validator error into field/message
// pairs. Field names are the JSON-ish paths clients sent (lowercased,
// struct name stripped), never Go struct paths. Returns nil when err
// carries no field errors.
func ValidationErrorDetails(err error) []ValidationErrorDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	details := make([]ValidationErrorDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, ValidationErrorDetail{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return details
}

// fieldPath strips the root struct name from the error's namespace and
// lowercases the rest, e.g. "flashcards[0].front".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

// fieldMessage renders a human-readable message for the failed rule.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "excluded_for_manual":
		return "must not be set for manual flashcards"
	case "required_for_ai":
		return "is required for AI-sourced flashcards"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
