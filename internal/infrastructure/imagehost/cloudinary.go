// Package imagehost stores gallery images at Cloudinary.
package imagehost

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/roomstyler/backend/internal/domain"
	"github.com/zeromicro/go-zero/core/logx"
)

// assetAPI is the part of uploader.API the host uses
type assetAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Cloudinary implements domain.ImageHost
type Cloudinary struct {
	api    assetAPI
	folder string
}

// NewCloudinary creates an image host uploading into folder. Missing
// credentials yield a host whose calls fail with ErrImageHost.
func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return &Cloudinary{folder: folder}, nil
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &Cloudinary{api: &cld.Upload, folder: folder}, nil
}

// Upload stores the image and returns its hosted metadata
func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, filename string) (*domain.HostedImage, error) {
	if c.api == nil {
		return nil, fmt.Errorf("%w: cloudinary credentials not configured", domain.ErrImageHost)
	}

	logger := logx.WithContext(ctx)
	logger.Infof("[Cloudinary] Uploading %q to %s", filename, c.folder)

	res, err := c.api.Upload(ctx, r, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "image",
	})
	if err != nil {
		logger.Errorf("[Cloudinary] Upload error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrImageHost, err)
	}
	if res.Error.Message != "" {
		logger.Errorf("[Cloudinary] Upload rejected: %s", res.Error.Message)
		return nil, fmt.Errorf("%w: %s", domain.ErrImageHost, res.Error.Message)
	}

	original := res.OriginalFilename
	if original == "" {
		original = filename
	}

	return &domain.HostedImage{
		PublicID:         res.PublicID,
		URL:              res.SecureURL,
		OriginalFilename: original,
		Width:            res.Width,
		Height:           res.Height,
		Format:           res.Format,
		Bytes:            res.Bytes,
	}, nil
}

// Destroy removes a hosted image
func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	if c.api == nil {
		return fmt.Errorf("%w: cloudinary credentials not configured", domain.ErrImageHost)
	}

	res, err := c.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImageHost, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("%w: %s", domain.ErrImageHost, res.Error.Message)
	}

	logx.WithContext(ctx).Infof("[Cloudinary] Destroyed %s (%s)", publicID, res.Result)
	return nil
}
