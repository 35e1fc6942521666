package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

type UploadKind string

const (
	UploadVenue UploadKind = "venue"
	UploadShow  UploadKind = "show"
)

func (k UploadKind) Valid() bool {
	return k == UploadVenue || k == UploadShow
}

type uploadResponse struct {
	Path string `json:"path"`
}

// UploadImage stores an image on the backend and returns its path.
func (c *Client) UploadImage(
	ctx context.Context,
	kind UploadKind,
	filename, contentType string,
	data []byte,
) (string, error) {
	const op = "backend.Client.UploadImage"

	if !kind.Valid() {
		return "", fmt.Errorf("%s: unknown upload kind %q", op, kind)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/FileUpload/"+string(kind),
		&buf,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out uploadResponse
	if err := c.send(req, &out); err != nil {
		return "", wrap(op, err)
	}

	return out.Path, nil
}

// FileURL turns a stored file path into an absolute URL.
func (c *Client) FileURL(path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http"):
		return path
	case strings.HasPrefix(path, "/"):
		return c.baseURL + path
	default:
		return c.baseURL + "/" + path
	}
}
