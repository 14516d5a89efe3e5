package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Media describes one uploaded file as reported by the media endpoint.
type Media struct {
	ID       any    `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Upload streams a file to a media collection via multipart form data and
// returns the stored descriptor. The editor blocks its insert-image action
// on this call; the rest of the form stays interactive.
func (c *Client) Upload(ctx context.Context, collection, locale, filename string, file io.Reader) (Media, error) {
	if strings.TrimSpace(filename) == "" {
		filename = uuid.NewString()
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return Media{}, fmt.Errorf("content: build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return Media{}, fmt.Errorf("content: copy upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Media{}, fmt.Errorf("content: finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.collectionURL(collection, "", locale, nil), &buf)
	if err != nil {
		return Media{}, fmt.Errorf("content: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		return Media{}, err
	}

	// The endpoint answers with either a bare descriptor or {doc: {...}}.
	var wrapped struct {
		Doc *Media `json:"doc"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Doc != nil {
		return *wrapped.Doc, nil
	}
	var media Media
	if err := json.Unmarshal(body, &media); err != nil {
		return Media{}, fmt.Errorf("content: decode upload response: %w", err)
	}
	return media, nil
}
