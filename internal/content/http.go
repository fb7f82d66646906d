package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tartampluch/go-lifestory/internal/config"
)

// HTTPSource fetches documents from <base>/<kind>/<key><ext>.
// Transient failures (network errors, 5xx, 429) are retried with
// exponential backoff; 404 maps to ErrNotFound.
type HTTPSource struct {
	Client *http.Client
	Base   *url.URL
	Ext    string
	User   string
	Pass   string

	// MaxAttempts bounds the number of requests per document.
	MaxAttempts int
	// InitialInterval and MaxInterval shape the backoff between attempts.
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NewHTTPSource validates baseURL and returns a source with the default
// timeouts and retry policy.
func NewHTTPSource(baseURL, user, pass string) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}

	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	return &HTTPSource{
		Client:          &http.Client{Timeout: config.HTTPTimeout},
		Base:            u,
		Ext:             config.ExtJSON,
		User:            user,
		Pass:            pass,
		MaxAttempts:     config.RetryMaxAttempts,
		InitialInterval: config.RetryInitialInterval,
		MaxInterval:     config.RetryMaxInterval,
	}, nil
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, kind Kind, key string) ([]byte, Format, error) {
	if !validKey(key) {
		return nil, 0, fmt.Errorf("%w: %s/%q", ErrNotFound, kind, key)
	}

	target := s.Base.JoinPath(string(kind), key+s.Ext)

	// Query parameters may carry tokens; keep them out of the logs.
	safeURL := target.Scheme + "://" + target.Host + target.Path
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, safeURL),
	)

	var (
		body    []byte
		format  Format
		attempt int
	)

	op := func() error {
		attempt++
		var err error
		body, format, err = s.get(ctx, target.String())
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Warn(config.MsgFetchRetry,
			slog.Int(config.LogKeyAttempt, attempt),
			slog.Int64(config.LogKeyDuration, wait.Milliseconds()),
			slog.Any(config.LogKeyError, err),
		)
	}

	if err := backoff.RetryNotify(op, s.policy(ctx), notify); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, 0, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, key)
		}
		return nil, 0, fmt.Errorf("%s %s/%s: %w", config.ErrContentFetch, kind, key, err)
	}

	if s.Ext == config.ExtYAML || s.Ext == config.ExtYML {
		format = FormatYAML
	}
	return body, format, nil
}

func (s *HTTPSource) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.InitialInterval
	exp.MaxInterval = s.MaxInterval
	exp.Multiplier = 2
	exp.Reset()

	retries := max(s.MaxAttempts-1, 0)
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// get performs one request. Errors that retrying cannot fix are wrapped
// with backoff.Permanent.
func (s *HTTPSource) get(ctx context.Context, target string) ([]byte, Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if s.User != "" || s.Pass != "" {
		req.SetBasicAuth(s.User, s.Pass)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, backoff.Permanent(ctx.Err())
		}
		return nil, 0, fmt.Errorf("network error during fetch: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, 0, backoff.Permanent(ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, 0, fmt.Errorf("server returned unexpected status: %d", resp.StatusCode)
	default:
		return nil, 0, backoff.Permanent(fmt.Errorf("server returned unexpected status: %d", resp.StatusCode))
	}

	// One extra byte tells an oversized body from one that fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxHTTPResponseSize+1))
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	if len(body) > config.MaxHTTPResponseSize {
		return nil, 0, backoff.Permanent(fmt.Errorf("response exceeds %d bytes", config.MaxHTTPResponseSize))
	}

	format := FormatJSON
	ct := resp.Header.Get(config.HeaderContentType)
	if strings.HasPrefix(ct, config.MimeYAMLPrefix) || strings.HasPrefix(ct, config.MimeYAMLAlt) {
		format = FormatYAML
	}
	return body, format, nil
}
