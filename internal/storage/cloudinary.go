package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore relays objects to Cloudinary. Object IDs have the form
// "<resource_type>/<public_id>" because destroy needs both.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryStore{cld: cld, folder: strings.Trim(folder, "/")}, nil
}

func (s *CloudinaryStore) Put(ctx context.Context, name, contentType string, r io.Reader) (Object, error) {
	publicID := strings.TrimSuffix(name, path.Ext(name))
	if publicID == "" {
		return Object{}, ErrInvalidObjectName
	}

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return Object{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return Object{}, fmt.Errorf("%w: %s", ErrRemoteRejected, res.Error.Message)
	}

	return Object{
		URL: res.SecureURL,
		ID:  res.ResourceType + "/" + res.PublicID,
	}, nil
}

// Delete destroys the object. Cloudinary answers "not found" for objects that
// are already gone, which is treated as success.
func (s *CloudinaryStore) Delete(ctx context.Context, id string) error {
	resourceType, publicID, ok := strings.Cut(id, "/")
	if !ok || resourceType == "" || publicID == "" {
		return ErrInvalidObjectName
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("%w: %s", ErrRemoteRejected, res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("%w: %s", ErrRemoteRejected, res.Result)
	}
	return nil
}
