package assets

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Asset is an image ready for upload. Data is the standard base64 encoding of
// the file bytes.
type Asset struct {
	Data     string
	MimeType string
	Folder   string
}

// DataURI returns the asset as a data: URI.
func (a Asset) DataURI() string {
	return "data:" + a.MimeType + ";base64," + a.Data
}

// Bytes decodes the payload.
func (a Asset) Bytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("decode asset: %w", err)
	}
	return b, nil
}

// Uploader stores an asset and returns a durable public URL for it.
type Uploader interface {
	Upload(ctx context.Context, a Asset) (string, error)
}
