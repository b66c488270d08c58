package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// MaxDownload caps a binary payload read by Download.
const MaxDownload = 32 << 20

// Blob is an opaque binary artifact returned by the API.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Download issues GET path?query and returns the raw body. The filename comes
// from Content-Disposition when the API sends one.
func (c *Client) Download(ctx context.Context, path string, query url.Values) (*Blob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf, application/octet-stream;q=0.9, */*;q=0.5")

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownload+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrTransport, path, err)
	}
	if len(data) > MaxDownload {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTransport, path, MaxDownload)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &Blob{
		Data:        data,
		ContentType: ct,
		Filename:    filenameFrom(resp.Header.Get("Content-Disposition")),
	}, nil
}

func filenameFrom(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
