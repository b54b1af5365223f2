// Package kobo is the KoboToolbox v2 API client: authenticated request
// execution, typed endpoint operations, and the job polling coordinator.
package kobo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kobohub/kobohub/internal/telemetry"
)

// Per-call timeouts. Submission pages, export payloads and file uploads
// get the longer budget.
const (
	shortTimeout = 30 * time.Second
	longTimeout  = 60 * time.Second
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Client issues authenticated requests against one KoboToolbox instance.
// A single failed call is terminal for that operation; no retries.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(serverURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(serverURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// ServerURL returns the configured instance base URL, without a trailing
// slash.
func (c *Client) ServerURL() string {
	return c.baseURL
}

// ManagementURL returns the web UI address for a form.
func (c *Client) ManagementURL(uid string) string {
	return fmt.Sprintf("%s/#/forms/%s", c.baseURL, uid)
}

// APIError is a non-2xx response from the remote API, carrying the status
// code and response body verbatim.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s HTTP %d: %s", e.Operation, e.StatusCode, e.Body)
}

func (c *Client) apiURL(path string) string {
	return c.baseURL + "/api/v2/" + strings.TrimLeft(path, "/")
}

// do executes one request and decodes the JSON response into out (skipped
// when out is nil). Any non-2xx status yields an *APIError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := c.apiURL(path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		telemetry.IncKoboAPIError(op, resp.StatusCode)
		return &APIError{Operation: op, StatusCode: resp.StatusCode, Body: string(b)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, timeout time.Duration, out any) error {
	return c.do(ctx, op, http.MethodGet, path, query, nil, "", timeout, out)
}

func (c *Client) sendJSON(ctx context.Context, op, method, path string, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s body: %w", op, err)
	}
	return c.do(ctx, op, method, path, nil, bytes.NewReader(b), "application/json", shortTimeout, out)
}

// uploadFile POSTs a local file as a multipart form, with the XLSX content
// type the import pipeline expects, plus any extra plain fields.
func (c *Client) uploadFile(ctx context.Context, op, path, filePath string, fields map[string]string, out any) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write form field %s: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(filePath)))
	h.Set("Content-Type", xlsxContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	return c.do(ctx, op, http.MethodPost, path, nil, &buf, w.FormDataContentType(), longTimeout, out)
}

// getBytes downloads a binary API resource in full.
func (c *Client) getBytes(ctx context.Context, op, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, longTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		telemetry.IncKoboAPIError(op, resp.StatusCode)
		return nil, &APIError{Operation: op, StatusCode: resp.StatusCode, Body: string(b)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}
	return data, nil
}
