// Package remote fetches datasets over HTTP.
//
// Responses are stored in a [cache.Cache] under [cache.Keyer.DatasetKey] so
// repeated builds from the same URL do not refetch. Transient failures
// (network errors and 5xx responses) are retried with backoff.
//
//	c := remote.NewClient(fileCache, nil)
//	data, err := c.Fetch(ctx, "https://example.com/iris.csv", false)
package remote

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/vrplot/pkg/cache"
	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/observability"
)

const (
	httpTimeout = 30 * time.Second

	// MaxSize is the largest dataset accepted, in bytes.
	MaxSize = 64 << 20
)

// Client fetches datasets with caching and retries.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	userAgent string
}

// NewClient creates a client. A nil cache disables caching and a nil keyer
// uses [cache.NewDefaultKeyer].
func NewClient(c cache.Cache, keyer cache.Keyer) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		cache:     c,
		keyer:     keyer,
		userAgent: "vrplot",
	}
}

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	return errors.ValidateURL(s) == nil
}

// Name returns the dataset name and extension implied by a URL's path,
// e.g. "iris" and ".csv" for https://host/data/iris.csv?raw=1.
func Name(rawURL string) (name, ext string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "data", ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return "data", ""
	}
	ext = path.Ext(base)
	name = strings.TrimSuffix(base, ext)
	if name == "" {
		name = "data"
	}
	return name, strings.ToLower(ext)
}

// Fetch returns the body at rawURL. Unless refresh is set, a cached copy is
// returned when present.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	key := c.keyer.DatasetKey(rawURL)
	hooks := observability.Cache()

	if !refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "dataset")
			return data, nil
		}
		hooks.OnCacheMiss(ctx, "dataset")
	}

	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data, cache.TTLDataset); err == nil {
		hooks.OnCacheSet(ctx, "dataset", len(data))
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid URL %s", rawURL)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL))
	}
	defer resp.Body.Close()

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rawURL))
	}
	if len(data) > MaxSize {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "dataset %s exceeds %d bytes", rawURL, MaxSize)
	}
	return data, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeFileNotFound, "dataset %s not found", rawURL)
	case code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", rawURL, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", rawURL, code)
	}
}
