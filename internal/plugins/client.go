package plugins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
)

const userAgent = "Mozilla/5.0 (compatible; skillbox/1.0)"

// errStatus marks a non-2xx upstream response.
var errStatus = errors.New("unexpected status")

// client is the HTTP helper shared by the skills. Network errors and 5xx
// responses are retried; other failures are returned at once.
type client struct {
	http     *http.Client
	attempts uint
	delay    time.Duration
}

func newClient(s Settings) *client {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := s.Retries
	if attempts < 1 {
		attempts = 1
	}
	return &client{
		http:     &http.Client{Timeout: timeout},
		attempts: uint(attempts),
		delay:    s.RetryDelay,
	}
}

type response struct {
	status   int
	body     []byte
	finalURL string
	header   http.Header
}

// get performs a GET with retries and returns the body and the URL reached
// after redirects.
func (c *client) get(ctx context.Context, rawURL string, query url.Values) (*response, error) {
	target, err := withQuery(rawURL, query)
	if err != nil {
		return nil, err
	}

	var out *response
	err = c.do(ctx, rawURL, func() error {
		resp, err := c.once(ctx, target)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// do runs op with the client's retry policy.
func (c *client) do(ctx context.Context, label string, op func() error) error {
	return retry.Do(op,
		retry.RetryIf(retryable),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Debug("plugins: retrying request", "url", label, "attempt", n+1, "err", err)
		}),
	)
}

func (c *client) once(ctx context.Context, target string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}
	return &response{
		status:   resp.StatusCode,
		body:     body,
		finalURL: resp.Request.URL.String(),
		header:   resp.Header,
	}, nil
}

// getJSON performs a GET and decodes the JSON body into out.
func (c *client) getJSON(ctx context.Context, rawURL string, query url.Values, out any) error {
	resp, err := c.get(ctx, rawURL, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("状态码错误 %d", e.code) }
func (e *statusError) Unwrap() error { return errStatus }

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled)
}

func withQuery(rawURL string, query url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
