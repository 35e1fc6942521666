package admin

import (
	"context"
	"fmt"

	"github.com/kirinyoku/fringe/internal/backend"
	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/media"
)

const entityUpload = "upload"

// Upload is a stored image.
type Upload struct {
	Path   string `json:"path"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// UploadImage checks and downscales an image, then stores it on the backend
// under kind ("venue" or "show").
//
// Returns:
//   - *Upload: stored path and absolute URL.
//   - error: admin.ErrUnknownUploadKind for any other kind.
//   - error: media.ErrUnsupportedType, media.ErrTooLarge or media.ErrEmpty.
func (s *Service) UploadImage(ctx context.Context, kind, filename string, data []byte) (*Upload, error) {
	const op = "service.admin.UploadImage"

	k := backend.UploadKind(kind)
	if !k.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrUnknownUploadKind)
	}

	img, err := media.Normalize(data, filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	path, err := s.backend.UploadImage(ctx, k, img.Filename, img.ContentType, img.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditUpload, entityUpload, path,
		fmt.Sprintf("uploaded %s image %s (%dx%d)", kind, img.Filename, img.Width, img.Height), nil)

	return &Upload{
		Path:   path,
		URL:    s.backend.FileURL(path),
		Width:  img.Width,
		Height: img.Height,
	}, nil
}
