// Package api is the only network boundary of the client: one method per
// backend operation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotelres/internal/models"
	"hotelres/internal/utils"
)

const (
	// MsgUnreachable is the generic message for transport failures.
	MsgUnreachable = "unable to reach the server, try again"
	maxBodyBytes   = 8 << 20
)

// TokenSource supplies the bearer token; *auth.Session satisfies it.
type TokenSource interface {
	Token() string
}

// Client calls the hotel backend. Each call is attempted exactly once; the
// caller's context is the only way to abandon it.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *utils.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithLogger(l *utils.Logger) Option    { return func(c *Client) { c.log = l } }

func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// no Timeout: cancellation belongs to the caller's context
		http:   &http.Client{},
		tokens: tokens,
		log:    utils.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request is one prepared call.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   io.Reader
	ctype  string
}

// bareRequest is a call without a body.
func bareRequest(op, method, path string) request {
	return request{op: op, method: method, path: path}
}

func jsonRequest(op, method, path string, payload any) (request, error) {
	r := bareRequest(op, method, path)
	if payload == nil {
		return r, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return r, fmt.Errorf("%s: encode body: %w", op, err)
	}
	r.body = bytes.NewReader(data)
	r.ctype = "application/json"
	return r, nil
}

// multipartRequest writes fields in order and attaches upload under fileField.
func multipartRequest(op, method, path string, fields [][2]string, fileField string, upload *models.Upload) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return request{}, fmt.Errorf("%s: write field %s: %w", op, kv[0], err)
		}
	}
	if upload != nil {
		name := upload.Filename
		if name == "" {
			name = fileField
		}
		part, err := w.CreateFormFile(fileField, name)
		if err != nil {
			return request{}, fmt.Errorf("%s: attach %s: %w", op, fileField, err)
		}
		if _, err := part.Write(upload.Data); err != nil {
			return request{}, fmt.Errorf("%s: attach %s: %w", op, fileField, err)
		}
	}
	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("%s: close multipart: %w", op, err)
	}
	return request{op: op, method: method, path: path, body: &buf, ctype: w.FormDataContentType()}, nil
}

// do sends r and decodes the body into out.
func (c *Client) do(ctx context.Context, r request, out any) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", r.op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if r.ctype != "" {
		req.Header.Set("Content-Type", r.ctype)
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.log.Infof("%s %s id=%s abandoned: %v", r.method, r.path, reqID, err)
			return err
		}
		c.log.Errorf("%s %s id=%s failed: %v", r.method, r.path, reqID, err)
		return utils.NewAPIError(0, MsgUnreachable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return utils.NewAPIError(0, MsgUnreachable, err)
	}
	c.log.Infof("%s %s id=%s status=%d in %s", r.method, r.path, reqID, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return utils.NewAPIError(resp.StatusCode, backendMessage(body), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &utils.DecodeError{Op: r.op, Err: err}
	}
	return nil
}

// call runs r and checks the envelope for the fields the operation needs.
func (c *Client) call(ctx context.Context, r request, fields ...models.Field) (*models.Response, error) {
	var res models.Response
	if err := c.do(ctx, r, &res); err != nil {
		return nil, err
	}
	if res.StatusCode != 0 && (res.StatusCode < 200 || res.StatusCode > 299) {
		return nil, utils.NewAPIError(res.StatusCode, res.Message, nil)
	}
	if err := res.Require(fields...); err != nil {
		return nil, &utils.DecodeError{Op: r.op, Err: err}
	}
	return &res, nil
}

func backendMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

func pathID(n int64) string { return fmt.Sprint(n) }
