package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	healthPath = "/api/health"
	statusPath = "/api/import-status"
	importPath = "/api/import-students"

	// Word .docx content type the import endpoint expects.
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Timeouts bound each call category separately: the health probe is cheap
// and should fail fast, the upload has to sit through server-side parsing
// of a large roster document.
type Timeouts struct {
	Health time.Duration
	Status time.Duration
	Upload time.Duration
}

// Status is the import-status endpoint response.
type Status struct {
	Imported bool `json:"imported"`
}

// ImportResult is the import endpoint response.
type ImportResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}

// Client talks to the roster server's import API.
type Client struct {
	baseURL  string
	timeouts Timeouts
	http     *http.Client
}

func New(baseURL string, timeouts Timeouts) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeouts: timeouts,
		// Per-call deadlines come from the context; the client itself
		// carries no timeout.
		http: &http.Client{},
	}
}

// Health probes the liveness endpoint. Any 2xx counts as ready.
func (c *Client) Health(ctx context.Context) error {
	const op = "health check"

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Health)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return &Error{Kind: KindConnectivity, Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindConnectivity, Op: op, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if !success(resp.StatusCode) {
		return &Error{Kind: KindConnectivity, Op: op, Err: fmt.Errorf("status %d %s", resp.StatusCode, resp.Status)}
	}
	return nil
}

// ImportStatus asks whether the roster import has already been performed.
// Callers decide what an error means; this method only reports it.
func (c *Client) ImportStatus(ctx context.Context) (Status, error) {
	const op = "import-status check"

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Status)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statusPath, nil)
	if err != nil {
		return Status{}, &Error{Kind: KindConnectivity, Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Status{}, &Error{Kind: KindConnectivity, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return Status{}, &Error{Kind: KindConnectivity, Op: op, Err: fmt.Errorf("status %d %s", resp.StatusCode, resp.Status)}
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Status{}, &Error{Kind: KindConnectivity, Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return status, nil
}

// ImportRoster streams the roster document to the import endpoint as a
// multipart form upload and interprets the server's verdict. One attempt,
// no retry.
func (c *Client) ImportRoster(ctx context.Context, path string) (ImportResult, error) {
	const op = "roster upload"

	file, err := os.Open(path)
	if err != nil {
		return ImportResult{}, &Error{Kind: KindMissingInput, Op: op, Err: err}
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Upload)
	defer cancel()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := createDocxPart(form, filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(form.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+importPath, pr)
	if err != nil {
		return ImportResult{}, &Error{Kind: KindConnectivity, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return ImportResult{}, &Error{Kind: KindConnectivity, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return ImportResult{}, &Error{Kind: KindServerRejected, Op: op, Err: fmt.Errorf("status %d %s: %s", resp.StatusCode, resp.Status, strings.TrimSpace(string(body)))}
	}

	var result ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ImportResult{}, &Error{Kind: KindServerRejected, Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "server reported failure without a message"
		}
		return ImportResult{}, &Error{Kind: KindServerRejected, Op: op, Err: errors.New(msg)}
	}

	return result, nil
}

// createDocxPart builds the "file" form part with an explicit Word content
// type; multipart.Writer.CreateFormFile would hardcode octet-stream.
func createDocxPart(form *multipart.Writer, filename string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", docxContentType)
	return form.CreatePart(header)
}

func success(code int) bool {
	return code >= 200 && code < 300
}
