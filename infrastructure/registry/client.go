package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

const (
	packagistBaseURL = "https://repo.packagist.org/p2"
	npmBaseURL       = "https://registry.npmjs.org"

	requestTimeout = 15 * time.Second
	maxRetries     = 2 // 3 attempts total
	backoffStep    = 2 * time.Second
)

// Client fetches package metadata from the Packagist and npm registries.
// Parsing stays in the pure Parse* functions; the client only handles
// transport, retries, and the not-found case.
type Client struct {
	http *retryablehttp.Client
}

var _ domain.SourceResolver = (*Client)(nil)

// NewClient creates a registry client with the bounded retry policy shared by
// all remote calls: 3 attempts with a backoff of attempt x 2 seconds.
func NewClient() *Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = requestTimeout
	client.RetryMax = maxRetries
	client.Logger = nil
	client.Backoff = func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
		return time.Duration(attemptNum+1) * backoffStep
	}
	return &Client{http: client}
}

// ResolveComposer resolves a PHP package's source repository through the
// Packagist p2 metadata endpoint. A 404 means the package is unknown to the
// registry and yields an absent result, not an error.
func (c *Client) ResolveComposer(ctx context.Context, pkg string) (domain.PackageSource, bool, error) {
	body, found, err := c.get(ctx, fmt.Sprintf("%s/%s.json", packagistBaseURL, pkg))
	if err != nil || !found {
		return domain.PackageSource{}, false, err
	}

	source, ok := ParsePackagistSource(body, pkg)
	return source, ok, nil
}

// ResolveNpm resolves a JavaScript package's source repository through the npm
// registry. Scoped names are URL-escaped into a single path segment.
func (c *Client) ResolveNpm(ctx context.Context, pkg string) (domain.PackageSource, bool, error) {
	body, found, err := c.get(ctx, fmt.Sprintf("%s/%s", npmBaseURL, url.PathEscape(pkg)))
	if err != nil || !found {
		return domain.PackageSource{}, false, err
	}

	source, ok := ParseNpmSource(body)
	return source, ok, nil
}

// get fetches a URL and returns its body. The boolean is false on 404.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request for %q: %w", rawURL, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status %d from %q", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response from %q: %w", rawURL, err)
	}
	return body, true, nil
}
