package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// UnavailableMessage is shown when the backend could not be reached at all.
const UnavailableMessage = "Network error: Please check your connection"

var ErrUnavailable = errors.New("backend unavailable")

// APIError is the normalized form of every non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

const maxErrorBody = 1 << 20

// decodeError turns an error response into an APIError. Plain text bodies are
// used as-is; JSON bodies contribute a bare string or their message, title or
// detail field, in that order.
func decodeError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(body))

	return &APIError{
		Status:  resp.StatusCode,
		Message: errorMessage(resp.Header.Get("Content-Type"), text, resp.StatusCode),
	}
}

func errorMessage(contentType, text string, status int) string {
	fallback := fmt.Sprintf("Request failed with status %d", status)

	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch {
	case mediaType == "text/plain":
		if text == "" {
			return fallback
		}
		return text
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		if text == "" {
			return fallback
		}
		return jsonMessage(text)
	default:
		if text == "" {
			return fallback
		}
		return text
	}
}

func jsonMessage(text string) string {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return text
	}

	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		for _, k := range []string{"message", "title", "detail"} {
			if s, ok := t[k].(string); ok && s != "" {
				return s
			}
		}
	}

	return text
}
