package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"employee-directory/internal/apperr"
	"employee-directory/internal/middleware"
	"employee-directory/internal/models"
	"employee-directory/internal/upload"
)

// multipart bodies may carry the form fields on top of the image
const maxFormBytes = upload.MaxImageBytes + 1<<20

var bindMessages = map[string]string{
	"name":     "Name is required",
	"email":    "Invalid email",
	"password": "Password must be 6 to 72 characters",
}

// bindJSON decodes a JSON body, turning binding failures into itemized
// validation errors.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.BadRequest("Invalid request body", err)
	}
	out := &apperr.ValidationError{}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		msg, ok := bindMessages[field]
		if !ok {
			msg = "Invalid value"
		}
		out.Fields = append(out.Fields, apperr.FieldError{Field: field, Message: msg})
	}
	return out
}

// parseForm reads a multipart (or urlencoded) body under the size cap.
func parseForm(c *gin.Context) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)
	err := c.Request.ParseMultipartForm(8 << 20)
	if errors.Is(err, http.ErrNotMultipart) {
		err = c.Request.ParseForm()
	}
	if err == nil {
		return nil
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return apperr.Invalid("image", "image must be at most 5 MiB")
	}
	return apperr.BadRequest("invalid form data", err)
}

// formImage returns the uploaded image, or nil when none was sent.
func formImage(c *gin.Context) (*upload.File, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.BadRequest("invalid form data", err)
	}
	return upload.FromHeader(fh)
}

func caller(c *gin.Context) (models.Identity, bool) {
	id, ok := middleware.Identity(c)
	if !ok {
		_ = c.Error(apperr.ErrUnauthorized)
	}
	return id, ok
}
