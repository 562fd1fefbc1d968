package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// IssueSource fetches raw issue payloads from the tracker. The graph
// builder depends on this contract only, so tests substitute fakes and the
// cache layer wraps it transparently.
type IssueSource interface {
	// FetchByID returns the raw payload for one issue, ErrNotFound for an
	// unknown key, or ErrTransient for network/auth/rate-limit failures.
	FetchByID(ctx context.Context, id string) ([]byte, error)

	// Search returns raw payloads for up to limit issues matching jql.
	Search(ctx context.Context, jql string, limit int) ([][]byte, error)
}

// ClientConfig holds connection parameters for the REST client.
type ClientConfig struct {
	Server     string
	Email      string
	APIToken   string
	Timeout    time.Duration
	MaxRetries int
	// FieldNames limits the fields requested per issue. Empty means all.
	FieldNames []string
}

// Client implements IssueSource against the Jira REST v2 API.
type Client struct {
	cfg      ClientConfig
	http     *http.Client
	observer FetchObserver
}

// pageSize is the per-request batch size used when paginating searches.
const pageSize = 50

// NewClient creates a REST client. A nil observer disables fetch telemetry.
func NewClient(cfg ClientConfig, observer FetchObserver) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *Client) FetchByID(ctx context.Context, id string) ([]byte, error) {
	start := time.Now()

	q := url.Values{}
	if len(c.cfg.FieldNames) > 0 {
		q.Set("fields", strings.Join(c.cfg.FieldNames, ","))
	}
	endpoint := fmt.Sprintf("%s/rest/api/2/issue/%s", strings.TrimRight(c.cfg.Server, "/"), url.PathEscape(id))
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	payload, err := c.doWithRetry(ctx, endpoint)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		c.observer.OnFetch(FetchEvent{Key: id, Source: "live", LatencyMs: latency, Success: false, ErrorCode: errorCode(err)})
		return nil, err
	}
	c.observer.OnFetch(FetchEvent{Key: id, Source: "live", LatencyMs: latency, Success: true})
	return payload, nil
}

// searchPage is the envelope around one page of search results.
type searchPage struct {
	Issues  []json.RawMessage `json:"issues"`
	Total   int               `json:"total"`
	StartAt int               `json:"startAt"`
}

func (c *Client) Search(ctx context.Context, jql string, limit int) ([][]byte, error) {
	start := time.Now()
	if limit <= 0 {
		limit = pageSize
	}

	var fetched [][]byte
	startAt := 0
	for {
		batch := pageSize
		if remaining := limit - len(fetched); remaining < batch {
			batch = remaining
		}

		q := url.Values{}
		q.Set("jql", jql)
		q.Set("maxResults", strconv.Itoa(batch))
		q.Set("startAt", strconv.Itoa(startAt))
		if len(c.cfg.FieldNames) > 0 {
			q.Set("fields", strings.Join(c.cfg.FieldNames, ","))
		}
		endpoint := fmt.Sprintf("%s/rest/api/2/search?%s", strings.TrimRight(c.cfg.Server, "/"), q.Encode())

		payload, err := c.doWithRetry(ctx, endpoint)
		if err != nil {
			c.observer.OnFetch(FetchEvent{Key: jql, Source: "search", LatencyMs: time.Since(start).Milliseconds(), Success: false, ErrorCode: errorCode(err)})
			return nil, err
		}

		var page searchPage
		if err := json.Unmarshal(payload, &page); err != nil {
			return nil, fmt.Errorf("decoding search response: %w", err)
		}
		for _, issue := range page.Issues {
			fetched = append(fetched, []byte(issue))
		}
		startAt += len(page.Issues)
		if len(fetched) >= limit || len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}

	c.observer.OnFetch(FetchEvent{Key: jql, Source: "search", LatencyMs: time.Since(start).Milliseconds(), Success: true})
	return fetched, nil
}

// doWithRetry issues a GET, retrying transient failures up to MaxRetries.
// It never retries after the context is cancelled or its deadline passes.
func (c *Client) doWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		payload, err := c.doRequest(ctx, endpoint)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransient, ctx.Err())
		}
		// NotFound is definitive, only transient failures warrant a retry.
		if !isTransient(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrTransient, resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

func isTransient(err error) bool {
	return err != nil && errorCode(err) == "TRANSIENT"
}
