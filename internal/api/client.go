// Package api implements the HTTP client for the VaultBox REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pratham-8123/vaultbox/internal/identity"
	"github.com/pratham-8123/vaultbox/internal/logging"
)

// Service defines the operations the client exposes to the session core.
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	CurrentUser(ctx context.Context) (identity.User, error)
	Browse(ctx context.Context, parentID, userID *string) (FolderView, error)
	Search(ctx context.Context, query string, userID *string, page, size int) (SearchPage, error)
	CreateFolder(ctx context.Context, name string, parentID *string) (FolderRef, error)
	RenameFolder(ctx context.Context, folderID, name string) (FolderRef, error)
	DeleteFolder(ctx context.Context, folderID string) error
	UploadFile(ctx context.Context, content io.Reader, name string, parentFolderID *string) (FileRef, error)
	DeleteFile(ctx context.Context, fileID string) error
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error)
	ListUsers(ctx context.Context) ([]identity.User, error)
}

// Client implements Service against a VaultBox server.
type Client struct {
	httpClient *http.Client
	base       string
	token      func() string
	log        *zap.Logger
}

var _ Service = (*Client)(nil)

// Config holds what the client needs to reach the server.
type Config struct {
	// BaseURL is the server root, e.g. https://vault.example.com.
	// The /api prefix is appended by the client.
	BaseURL string
	// Token supplies the current bearer token; may return "" before login.
	Token func() string
	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration
}

// NewClient builds a Client from the config.
func NewClient(conf Config) *Client {
	timeout := conf.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	token := conf.Token
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		base:       conf.BaseURL + "/api",
		token:      token,
		log:        logging.L().Named("api"),
	}
}

// Login authenticates and returns the token plus the user descriptor.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &out)
	return out, err
}

// CurrentUser fetches the authenticated user from the server.
func (c *Client) CurrentUser(ctx context.Context) (identity.User, error) {
	var out identity.User
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

// Browse lists a folder. A nil parentID means the root level; a nil userID
// means the caller's own storage (admins pass a target user id).
func (c *Client) Browse(ctx context.Context, parentID, userID *string) (FolderView, error) {
	params := url.Values{}
	if parentID != nil {
		params.Set("parentId", *parentID)
	}
	if userID != nil {
		params.Set("userId", *userID)
	}
	var out FolderView
	err := c.doJSON(ctx, http.MethodGet, "/browse", params, nil, &out)
	return out, err
}

// Search queries files and folders by name.
func (c *Client) Search(ctx context.Context, query string, userID *string, page, size int) (SearchPage, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "all")
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if userID != nil {
		params.Set("userId", *userID)
	}
	var out SearchPage
	err := c.doJSON(ctx, http.MethodGet, "/search", params, nil, &out)
	return out, err
}

// CreateFolder creates a folder under parentID (nil for root).
func (c *Client) CreateFolder(ctx context.Context, name string, parentID *string) (FolderRef, error) {
	var out FolderRef
	err := c.doJSON(ctx, http.MethodPost, "/folders", nil, folderRequest{Name: name, ParentID: parentID}, &out)
	return out, err
}

// RenameFolder renames a folder and returns the updated ref.
func (c *Client) RenameFolder(ctx context.Context, folderID, name string) (FolderRef, error) {
	var out FolderRef
	err := c.doJSON(ctx, http.MethodPatch, "/folders/"+url.PathEscape(folderID)+"/rename", nil, renameRequest{Name: name}, &out)
	return out, err
}

// DeleteFolder deletes a folder; the server removes descendants recursively.
func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/folders/"+url.PathEscape(folderID), nil, nil, nil)
}

// UploadFile streams a multipart upload and returns the created ref.
func (c *Client) UploadFile(ctx context.Context, content io.Reader, name string, parentFolderID *string) (FileRef, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return FileRef{}, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return FileRef{}, fmt.Errorf("reading upload content: %w", err)
	}
	if parentFolderID != nil {
		if err := writer.WriteField("parentFolderId", *parentFolderID); err != nil {
			return FileRef{}, fmt.Errorf("building multipart body: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return FileRef{}, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/files/upload", nil, &body)
	if err != nil {
		return FileRef{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out FileRef
	if err := c.send(req, &out); err != nil {
		return FileRef{}, err
	}
	return out, nil
}

// DeleteFile deletes an uploaded file.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/files/"+url.PathEscape(fileID), nil, nil, nil)
}

// DownloadFile returns the file content stream. The caller must close it.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID)+"/download", nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file %s: %w", fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.errorFromResponse(resp)
	}
	return resp.Body, nil
}

// ListUsers returns all users. Admin only; other callers get a RequestError.
func (c *Client) ListUsers(ctx context.Context) ([]identity.User, error) {
	var out []identity.User
	err := c.doJSON(ctx, http.MethodGet, "/users", nil, nil, &out)
	return out, err
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Request, error) {
	uri := c.base + path
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, fmt.Errorf("building request %s %s: %w", method, path, err)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, params, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Path),
			zap.Error(err))
		return &RequestError{Message: err.Error(), RequestID: req.Header.Get("X-Request-ID")}
	}
	defer resp.Body.Close()

	c.log.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", req.Header.Get("X-Request-ID")))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decoding response: %v", err),
			RequestID:  resp.Header.Get("X-Request-ID"),
		}
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	re := &RequestError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(data) > 0 {
		var body errorResponse
		if json.Unmarshal(data, &body) == nil {
			if body.Message != "" {
				re.Message = body.Message
			} else if body.Error != "" {
				re.Message = body.Error
			}
		}
	}
	if re.Message == "" {
		re.Message = http.StatusText(resp.StatusCode)
	}
	return re
}
