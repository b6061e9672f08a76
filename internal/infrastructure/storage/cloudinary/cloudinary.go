// Package cloudinary implements the media-storage port against the
// Cloudinary upload API.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/playtube/account-service/internal/core/ports"
)

const uploadTimeout = 20 * time.Second

// Storage uploads and deletes image assets on Cloudinary.
type Storage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// New builds a Storage from a cloudinary:// URL. When url is empty the SDK
// falls back to the CLOUDINARY_URL environment variable.
func New(url, folder string) (*Storage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if url == "" {
		cld, err = cloudinary.New()
	} else {
		cld, err = cloudinary.NewFromURL(url)
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Storage{cld: cld, folder: folder}, nil
}

func boolPtr(b bool) *bool { return &b }

// Upload stores the file and returns its public id and secure URL.
func (s *Storage) Upload(ctx context.Context, filename string, r io.Reader) (*ports.UploadedMedia, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:           s.folder,
		ResourceType:     "image",
		FilenameOverride: filename,
		UseFilename:      boolPtr(true),
		UniqueFilename:   boolPtr(true),
		Overwrite:        boolPtr(false),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.SecureURL == "" {
		return nil, errors.New("cloudinary upload: empty secure URL")
	}

	return &ports.UploadedMedia{PublicID: res.PublicID, URL: res.SecureURL}, nil
}

// Delete removes an asset by public id.
func (s *Storage) Delete(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy: %s", res.Result)
	}
	return nil
}
