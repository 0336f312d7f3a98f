package adapters

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/brettbedarf/contentpath"
)

// HTTPClient is the subset of [http.Client] used by [HTTPProvider]
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProvider serves remote-only content: identifiers under its authority are
// fetched from baseURL joined with the identifier path. Rows never carry a
// data column, so resolving them always falls back to a cached download.
type HTTPProvider struct {
	base    *url.URL
	headers map[string]string
	client  HTTPClient
}

// NewHTTPProvider validates baseURL and returns a provider using client, or
// [http.DefaultClient] when client is nil
func NewHTTPProvider(baseURL string, headers map[string]string, client HTTPClient) (*HTTPProvider, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("http provider: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("http provider: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("http provider: %q has no host", baseURL)
	}
	if u.User != nil {
		return nil, fmt.Errorf("http provider: credentials in url are not allowed, use headers")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{base: u, headers: headers, client: client}, nil
}

// target maps a content identifier onto the remote URL
func (h *HTTPProvider) target(uri string) string {
	id := contentpath.Parse(uri)
	u := *h.base
	u.Path = strings.TrimRight(h.base.Path, "/") + "/" + strings.TrimLeft(id.Path, "/")
	u.RawPath = ""
	if id.RawQuery != "" {
		u.RawQuery = id.RawQuery
	}
	return u.String()
}

func (h *HTTPProvider) newRequest(ctx context.Context, method, uri string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.target(uri), nil)
	if err != nil {
		return nil, err
	}

	// Add custom headers
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func (h *HTTPProvider) head(ctx context.Context, uri string) (*http.Response, error) {
	req, err := h.newRequest(ctx, http.MethodHead, uri)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close() // nolint:errcheck
	if err := checkStatus(uri, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (h *HTTPProvider) Query(ctx context.Context, uri string, projection []string, filter *contentpath.RowFilter) (contentpath.Cursor, error) {
	resp, err := h.head(ctx, uri)
	if err != nil {
		return nil, err
	}

	name := path.Base(contentpath.Parse(uri).Path)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	row := contentpath.Row{
		contentpath.ColumnDisplayName: name,
		contentpath.ColumnMimeType:    mediaType(resp.Header.Get("Content-Type")),
	}
	if resp.ContentLength >= 0 {
		row[contentpath.ColumnSize] = resp.ContentLength
	}

	rows := []contentpath.Row{row}
	if filter != nil {
		if v, ok := row[filter.Column]; !ok || fmt.Sprint(v) != filter.Value {
			rows = nil
		}
	}
	return contentpath.NewSliceCursor(rows, projection), nil
}

func (h *HTTPProvider) Type(ctx context.Context, uri string) (string, error) {
	resp, err := h.head(ctx, uri)
	if err != nil {
		return "", err
	}
	return mediaType(resp.Header.Get("Content-Type")), nil
}

func (h *HTTPProvider) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := h.newRequest(ctx, http.MethodGet, uri)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(uri, resp); err != nil {
		resp.Body.Close() // nolint:errcheck
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(uri string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", contentpath.ErrNotFound, uri)
	}
	return fmt.Errorf("%s: unexpected status %s", uri, resp.Status)
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}

var _ contentpath.ContentResolver = (*HTTPProvider)(nil)
