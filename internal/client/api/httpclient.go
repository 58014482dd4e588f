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
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipedeck/internal/client/models"
	"github.com/google/uuid"
)

// HTTPClient talks to the record backend over its JSON REST API.
// Attachments travel inside the record write as multipart/form-data.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient constructs a client for the backend at baseURL.
// A zero timeout disables the per-request limit (contexts still apply).
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// rawRecord is the wire shape of a recipe as served by the backend, with
// the author relation expanded and the photo resolved to URLs.
type rawRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
	CookingTime  int    `json:"cookingTime"`
	Author       *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"author"`
	Photo *struct {
		Thumbnail struct {
			URL string `json:"url"`
		} `json:"thumbnail"`
	} `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *rawRecord) toModel() models.Recipe {
	rec := models.Recipe{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Instructions: r.Instructions,
		CookingTime:  r.CookingTime,
		CreatedAt:    r.CreatedAt,
	}
	if r.Author != nil {
		rec.AuthorID = r.Author.ID
		rec.AuthorName = r.Author.Name
	}
	if r.Photo != nil && r.Photo.Thumbnail.URL != "" {
		rec.Attachment = &models.AttachmentRef{ThumbnailURL: r.Photo.Thumbnail.URL}
	}
	return rec
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if t := c.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	return req, nil
}

// do executes the request and decodes a JSON response into out (when out is
// non-nil). Transport failures and non-2xx statuses are mapped onto the
// given error category, carrying the backend's message when there is one.
func (c *HTTPClient) do(req *http.Request, out any, kind error) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return &Error{Kind: kind, Message: ErrUnavailable.Error(), transport: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Kind: kind, Message: readErrorMessage(resp.Body), Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: kind, Message: fmt.Sprintf("decoding response: %v", err)}
	}
	return nil
}

// readErrorMessage extracts a human-readable message from an error body.
// Backends differ on the field name, so a couple of shapes are tried.
func readErrorMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(b) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return ""
}

func (c *HTTPClient) Authenticate(ctx context.Context, email, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/users/login", bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", err
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(req, &resp, ErrAuth); err != nil {
		return "", err
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password, name string) error {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password, "name": name})
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/users/signup", bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	return c.do(req, nil, ErrAuth)
}

func (c *HTTPClient) CurrentIdentity(ctx context.Context) (*models.UserIdentity, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth/users/me", nil, "")
	if err != nil {
		return nil, err
	}
	var identity models.UserIdentity
	if err := c.do(req, &identity, ErrRead); err != nil {
		// No active session is an answer, not a failure.
		if errors.Is(err, ErrUnauthorized) {
			return nil, nil
		}
		return nil, err
	}
	return &identity, nil
}

func (c *HTTPClient) InvalidateSession(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/users/logout", nil, "")
	if err != nil {
		return err
	}
	err = c.do(req, nil, ErrWrite)
	c.SetToken("")
	return err
}

func (c *HTTPClient) ListRecords(ctx context.Context) ([]models.Recipe, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/collections/recipes?relations=author&orderBy=createdAt&order=DESC", nil, "")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Data []rawRecord `json:"data"`
	}
	if err := c.do(req, &resp, ErrRead); err != nil {
		return nil, err
	}
	records := make([]models.Recipe, 0, len(resp.Data))
	for i := range resp.Data {
		records = append(records, resp.Data[i].toModel())
	}
	return records, nil
}

func (c *HTTPClient) CreateRecord(ctx context.Context, fields models.RecipeFields, file *models.FileHandle) (*models.Recipe, error) {
	return c.writeRecord(ctx, http.MethodPost, "/api/collections/recipes", fields, fileStateFor(file), file)
}

func (c *HTTPClient) UpdateRecord(ctx context.Context, id string, fields models.RecipeFields, fileState models.FileState, file *models.FileHandle) (*models.Recipe, error) {
	return c.writeRecord(ctx, http.MethodPut, "/api/collections/recipes/"+id, fields, fileState, file)
}

func fileStateFor(file *models.FileHandle) models.FileState {
	if file != nil {
		return models.FileSelected
	}
	return models.FileUnchanged
}

// writeRecord performs a create or update. With a selected file the write is
// multipart so the bytes travel together with the fields; otherwise it is
// plain JSON, where the photo field is omitted for FileUnchanged and sent
// as an explicit null for FileCleared.
func (c *HTTPClient) writeRecord(ctx context.Context, method, path string, fields models.RecipeFields, fileState models.FileState, file *models.FileHandle) (*models.Recipe, error) {
	var (
		body        io.Reader
		contentType string
	)

	switch fileState {
	case models.FileSelected:
		if file == nil {
			return nil, &Error{Kind: ErrWrite, Message: "file selected but no file handle"}
		}
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		_ = mw.WriteField("title", fields.Title)
		_ = mw.WriteField("description", fields.Description)
		_ = mw.WriteField("instructions", fields.Instructions)
		_ = mw.WriteField("cookingTime", strconv.Itoa(fields.CookingTime))
		part, err := mw.CreateFormFile("photo", file.Name)
		if err != nil {
			return nil, &Error{Kind: ErrWrite, Message: err.Error()}
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, &Error{Kind: ErrWrite, Message: err.Error()}
		}
		if err := mw.Close(); err != nil {
			return nil, &Error{Kind: ErrWrite, Message: err.Error()}
		}
		body = buf
		contentType = mw.FormDataContentType()

	default:
		payload := map[string]any{
			"title":        fields.Title,
			"description":  fields.Description,
			"instructions": fields.Instructions,
			"cookingTime":  fields.CookingTime,
		}
		if fileState == models.FileCleared {
			payload["photo"] = nil
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Kind: ErrWrite, Message: err.Error()}
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	var raw rawRecord
	if err := c.do(req, &raw, ErrWrite); err != nil {
		return nil, err
	}
	rec := raw.toModel()
	return &rec, nil
}

func (c *HTTPClient) DeleteRecord(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/collections/recipes/"+id, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil, ErrWrite)
}

func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/health", nil, "")
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return ErrUnavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ErrUnavailable
	}
	return nil
}
