package topology

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/topojson"
)

// maxBodyBytes caps topology downloads; world-110m is about 100 KiB.
const maxBodyBytes = 32 << 20

// Client loads the world topology from an http(s) or file URL.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	maxBytes   int64 // zero means maxBodyBytes
}

// NewClient creates a topology client with the given request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads rawURL and decodes object from it.
func (c *Client) Fetch(ctx context.Context, rawURL, object string) ([]domain.GeoFeature, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse topology url: %w", err)
	}

	var data []byte
	switch u.Scheme {
	case "file":
		data, err = c.readFile(u.Path)
		if err != nil {
			return nil, err
		}
	case "http", "https":
		data, err = c.get(ctx, rawURL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported topology url scheme %q", u.Scheme)
	}

	features, err := topojson.Decode(data, object)
	if err != nil {
		return nil, err
	}
	if err := topojson.Validate(features); err != nil {
		return nil, fmt.Errorf("topology %s: %w", rawURL, err)
	}

	c.logger.Info("topology loaded", "url", rawURL, "object", object, "features", len(features), "bytes", len(data))
	return features, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("topology request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("topology fetch error: status %d: %s", resp.StatusCode, body)
	}

	return c.readLimited(resp.Body)
}

func (c *Client) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read topology file: %w", err)
	}
	defer f.Close()
	return c.readLimited(f)
}

// readLimited reads r in full, failing rather than truncating when it holds
// more than the client's byte limit.
func (c *Client) readLimited(r io.Reader) ([]byte, error) {
	limit := c.maxBytes
	if limit <= 0 {
		limit = maxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read topology body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("topology exceeds %d bytes", limit)
	}
	return data, nil
}
