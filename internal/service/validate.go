package service

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"employee-directory/internal/apperr"
	"employee-directory/internal/models"
)

var mobilePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

// field -> message shown to the client
var fieldMessages = map[string]string{
	"name":        "Name is required",
	"email":       "Invalid email",
	"mobile":      "Invalid mobile number",
	"designation": "Designation is required",
	"gender":      "Invalid gender",
	"course":      "Select at least one course",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToLower(f.Name)
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateInput trims the input in place and reports every invalid field.
func validateInput(v *validator.Validate, in *models.EmployeeInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Designation = strings.TrimSpace(in.Designation)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	for i := range in.Course {
		in.Course[i] = strings.TrimSpace(in.Course[i])
	}

	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &apperr.ValidationError{}
	seen := map[string]bool{}
	for _, fe := range verrs {
		// dive errors are reported as course[0]; collapse them
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		msg, ok := fieldMessages[field]
		if !ok {
			msg = "Invalid value"
		}
		out.Fields = append(out.Fields, apperr.FieldError{Field: field, Message: msg})
	}
	return out
}

// ParseCourse decodes the wire form of the course field: a JSON-encoded array
// of strings.
func ParseCourse(raw string) ([]string, error) {
	var course []string
	if err := json.Unmarshal([]byte(raw), &course); err != nil {
		return nil, apperr.Invalid("course", "Courses must be an array")
	}
	return course, nil
}
