package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/styleseeker/client/internal/domain"
	"github.com/styleseeker/client/pkg/log"
)

const (
	searchPath = "/search/"

	// fileField is the multipart field the backend reads the image from
	fileField = "file"

	maxDebugBodyBytes = 512
)

// Client handles communication with the image similarity search backend
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient creates a new search API client. A zero timeout leaves requests
// unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetDebug enables logging of request and response details
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(msg string, keysAndValues ...interface{}) {
	if c.debug {
		log.Infow("[SearchAPI] "+msg, keysAndValues...)
	}
}

// Search uploads the image and returns the matches in server order.
// Exactly one request is made; failures are not retried.
func (c *Client) Search(ctx context.Context, file *domain.SelectedFile) ([]domain.SearchResult, error) {
	if file == nil {
		return nil, domain.ErrNoFileSelected
	}

	body, contentType, err := buildMultipartBody(file)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "StyleSeeker/1.0")

	c.debugLog("POST search", "url", req.URL.String(), "file", file.Name, "bytes", len(file.Data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchAPIFailure, err)
	}
	defer resp.Body.Close()

	// Non-success bodies are never parsed
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.debug {
			snippet, _ := readLimitedBody(resp.Body, maxDebugBodyBytes)
			c.debugLog("non-success status", "status", resp.StatusCode, "body", string(snippet))
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrUnexpectedStatus, resp.StatusCode)
	}

	var searchResp domain.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	c.debugLog("search completed", "results", len(searchResp.Results))
	return searchResp.Results, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildMultipartBody encodes file as the single "file" field.
func buildMultipartBody(file *domain.SelectedFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	partContentType := file.ContentType
	if partContentType == "" {
		partContentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", partContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
