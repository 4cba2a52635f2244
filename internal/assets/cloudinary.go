package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfig holds account credentials for the upload API.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	// UploadPrefix overrides the API host; empty means the public API.
	UploadPrefix string
}

// CloudinaryUploader sends assets to Cloudinary as data URIs.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cfg CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	if p := strings.TrimRight(cfg.UploadPrefix, "/"); p != "" {
		cld.Config.API.UploadPrefix = p
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, a Asset) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, a.DataURI(), uploader.UploadParams{Folder: a.Folder})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure_url")
	}
	return res.SecureURL, nil
}
