package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/antonkuprin/medilink/internal/client/config"
	"github.com/antonkuprin/medilink/internal/client/models"
	"github.com/antonkuprin/medilink/internal/common"
	"github.com/antonkuprin/medilink/internal/logging"
)

// Authenticator supplies bearer tokens for authenticated calls and clears
// them when the server rejects one.
type Authenticator interface {
	EnsureAuthenticated(ctx context.Context, role Role) (*models.AuthToken, error)
	InvalidateToken(ctx context.Context, role Role) error
}

// Pipeline builds, executes and classifies API requests. It injects auth
// headers via the Authenticator, drives the RetryPolicy on 401 and
// transient statuses, and reports connectivity loss to the monitor.
//
// Domain endpoint wrappers use the four primitives (Get/Post/Put/Delete)
// and receive raw response bytes or a typed error.
type Pipeline struct {
	cfg        *config.Config
	auth       Authenticator
	monitor    *ConnectivityMonitor
	retry      *RetryPolicy
	httpClient *http.Client
	log        logging.Logger
}

func NewPipeline(cfg *config.Config, auth Authenticator, monitor *ConnectivityMonitor, retry *RetryPolicy, log logging.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		auth:    auth,
		monitor: monitor,
		retry:   retry,
		// Long timeout: the session waits out degraded connectivity
		// instead of failing fast.
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		log:        log,
	}
}

// Execute runs one descriptor through the retry state machine and returns
// the raw response body on success.
func (p *Pipeline) Execute(ctx context.Context, desc *RequestDescriptor) ([]byte, error) {
	for {
		desc.attempts = p.retry.RecordAttempt()

		var bearer string
		if desc.RequiresAuth {
			tok, err := p.auth.EnsureAuthenticated(ctx, desc.Role)
			if err != nil {
				return nil, err
			}
			bearer = tok.AccessToken
		}

		req, err := p.buildRequest(ctx, desc, bearer)
		if err != nil {
			return nil, err
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			nerr := classifyTransport(err)
			if nerr.Kind == NetworkConnectivityLost {
				p.monitor.ReportLoss()
				return nil, nerr
			}
			if nerr.Kind == NetworkTimeout {
				if delay, ok := p.retry.BackoffDelay(); ok {
					p.log.Warn(ctx, "request timed out, retrying",
						"path", desc.Path, "attempt", desc.attempts, "delay", delay)
					if serr := sleepCtx(ctx, delay); serr != nil {
						return nil, serr
					}
					continue
				}
			}
			return nil, nerr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, readErr)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if !desc.internal {
				p.retry.Reset()
			}
			return body, nil

		case resp.StatusCode == http.StatusUnauthorized && desc.RequiresAuth:
			delay, ok := p.retry.AuthRetryDelay(desc)
			if !ok {
				return nil, ErrAuthenticationFailed
			}
			p.log.Warn(ctx, "got 401, forcing reauthentication",
				"path", desc.Path, "role", desc.Role)
			if ierr := p.auth.InvalidateToken(ctx, desc.Role); ierr != nil {
				p.log.Error(ctx, "failed to clear token", "role", desc.Role, "error", ierr)
			}
			if serr := sleepCtx(ctx, delay); serr != nil {
				return nil, serr
			}
			desc.isRetry = true
			continue

		case isRetryableStatus(resp.StatusCode):
			delay, ok := p.retry.BackoffDelay()
			if !ok {
				return nil, serverErrorFrom(resp.StatusCode, body)
			}
			p.log.Warn(ctx, "transient server status, backing off",
				"path", desc.Path, "status", resp.StatusCode, "attempt", desc.attempts, "delay", delay)
			if serr := sleepCtx(ctx, delay); serr != nil {
				return nil, serr
			}
			continue

		default:
			return nil, serverErrorFrom(resp.StatusCode, body)
		}
	}
}

// Get issues an authenticated GET for the given role.
func (p *Pipeline) Get(ctx context.Context, path string, role Role) ([]byte, error) {
	return p.Execute(ctx, &RequestDescriptor{
		Path: path, Method: http.MethodGet, RequiresAuth: true, Role: role,
	})
}

// Post issues an authenticated POST with a JSON body.
func (p *Pipeline) Post(ctx context.Context, path string, body any, role Role) ([]byte, error) {
	return p.Execute(ctx, &RequestDescriptor{
		Path: path, Method: http.MethodPost, Body: body, RequiresAuth: true, Role: role,
	})
}

// Put issues an authenticated PUT with a JSON body.
func (p *Pipeline) Put(ctx context.Context, path string, body any, role Role) ([]byte, error) {
	return p.Execute(ctx, &RequestDescriptor{
		Path: path, Method: http.MethodPut, Body: body, RequiresAuth: true, Role: role,
	})
}

// Delete issues an authenticated DELETE.
func (p *Pipeline) Delete(ctx context.Context, path string, role Role) ([]byte, error) {
	return p.Execute(ctx, &RequestDescriptor{
		Path: path, Method: http.MethodDelete, RequiresAuth: true, Role: role,
	})
}

// open executes a descriptor and hands back the live response for
// streaming consumption. No retry machinery: stream sessions are not
// resumable mid-stream.
func (p *Pipeline) open(ctx context.Context, desc *RequestDescriptor, accept string) (*http.Response, error) {
	var bearer string
	if desc.RequiresAuth {
		tok, err := p.auth.EnsureAuthenticated(ctx, desc.Role)
		if err != nil {
			return nil, err
		}
		bearer = tok.AccessToken
	}

	req, err := p.buildRequest(ctx, desc, bearer)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		nerr := classifyTransport(err)
		if nerr.Kind == NetworkConnectivityLost {
			p.monitor.ReportLoss()
		}
		return nil, nerr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, serverErrorFrom(resp.StatusCode, body)
	}
	return resp, nil
}

func (p *Pipeline) buildRequest(ctx context.Context, desc *RequestDescriptor, bearer string) (*http.Request, error) {
	u, err := p.resolveURL(desc.Path)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	contentType := desc.ContentType
	switch {
	case desc.RawBody != nil:
		bodyReader = bytes.NewReader(desc.RawBody)
	case desc.Body != nil:
		b, merr := json.Marshal(desc.Body)
		if merr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, merr)
		}
		bodyReader = bytes.NewReader(b)
		if contentType == "" {
			contentType = contentTypeJSON
		}
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	req.Header.Set("Accept", contentTypeJSON)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+bearer)
	}
	return req, nil
}

// resolveURL joins the runtime-configurable base URL, the versioned prefix
// and the call path. Recomputed per call, never cached.
func (p *Pipeline) resolveURL(path string) (string, error) {
	full := strings.TrimRight(p.cfg.BaseURL, "/") + p.cfg.APIPrefix + path
	u, err := url.Parse(full)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, full)
	}
	return u.String(), nil
}

func isRetryableStatus(code int) bool {
	return code >= 500 || code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}

// errorBody is the optional error payload of non-2xx responses.
type errorBody struct {
	Detail string `json:"detail"`
}

func serverErrorFrom(status int, body []byte) *ServerError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		return &ServerError{StatusCode: status, Detail: eb.Detail}
	}
	return &ServerError{StatusCode: status}
}

// classifyTransport maps a transport-level failure to a NetworkError kind.
func classifyTransport(err error) *NetworkError {
	kind := NetworkGeneric

	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = NetworkTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = NetworkTimeout
	case errors.As(err, &dnsErr),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.EHOSTDOWN):
		kind = NetworkHostUnreachable
	case errors.Is(err, syscall.ENETDOWN),
		errors.Is(err, syscall.ENETUNREACH):
		kind = NetworkConnectivityLost
	}

	return &NetworkError{Kind: kind, Err: err}
}
