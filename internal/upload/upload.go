package upload

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"employee-directory/internal/apperr"
	"employee-directory/internal/assets"
	"employee-directory/internal/metrics"
)

const (
	MaxImageBytes = 5 << 20
	Folder        = "employees"
	fieldName     = "image"
)

// File is a received image held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FromHeader reads a multipart file into memory, reading at most one byte past
// the size limit.
func FromHeader(fh *multipart.FileHeader) (*File, error) {
	if fh.Size > MaxImageBytes {
		return nil, tooLarge()
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.BadRequest("invalid form data", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, apperr.BadRequest("invalid form data", err)
	}
	if len(data) > MaxImageBytes {
		return nil, tooLarge()
	}
	return &File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

// Coordinator moves a received image through validation and upload. It never
// touches the employee store: callers persist the returned URL themselves and
// must not write when Store fails.
type Coordinator struct {
	uploader assets.Uploader
	folder   string
}

func NewCoordinator(u assets.Uploader) *Coordinator {
	return &Coordinator{uploader: u, folder: Folder}
}

// Validate checks size and type without any network call and returns the
// sniffed MIME type.
func (c *Coordinator) Validate(f *File) (string, error) {
	if f == nil || len(f.Data) == 0 {
		return "", apperr.Invalid(fieldName, "image file is empty")
	}
	if len(f.Data) > MaxImageBytes {
		return "", tooLarge()
	}
	declared := strings.ToLower(strings.TrimSpace(f.ContentType))
	if declared != "" && declared != "application/octet-stream" && !strings.HasPrefix(declared, "image/") {
		return "", notImage()
	}
	sniffed := mimetype.Detect(f.Data)
	if !strings.HasPrefix(sniffed.String(), "image/") {
		return "", notImage()
	}
	return sniffed.String(), nil
}

// Store validates the image, then uploads it base64 encoded. Upload failures
// wrap apperr.ErrUploadFailed.
func (c *Coordinator) Store(ctx context.Context, f *File) (string, error) {
	mimeType, err := c.Validate(f)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		return "", err
	}
	url, err := c.uploader.Upload(ctx, assets.Asset{
		Data:     base64.StdEncoding.EncodeToString(f.Data),
		MimeType: mimeType,
		Folder:   c.folder,
	})
	if err != nil {
		metrics.ImageUploads.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("%w: %v", apperr.ErrUploadFailed, err)
	}
	metrics.ImageUploads.WithLabelValues("stored").Inc()
	return url, nil
}

func tooLarge() error {
	return apperr.Invalid(fieldName, "image must be at most 5 MiB")
}

func notImage() error {
	return apperr.Invalid(fieldName, "please upload an image")
}
