package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	OwnerId   uuid.UUID  `json:"ownerId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// LastModified is updatedAt when present, createdAt otherwise.
func (n Note) LastModified() time.Time {
	if n.UpdatedAt != nil {
		return *n.UpdatedAt
	}
	return n.CreatedAt
}

type User struct {
	Id       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	UserName string    `json:"userName"`
}

type Session struct {
	Auth AuthContext
	User User
}

type Filter struct {
	SearchTerm string
	FromDate   *time.Time
	ToDate     *time.Time
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       AuthContext
	now        func() time.Time
}

type Option func(*Client)

func WithAuth(auth AuthContext) Option {
	return func(c *Client) {
		c.auth = auth
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithSession returns a copy of c that sends requests as the given session.
func (c *Client) WithSession(auth AuthContext) *Client {
	cp := *c
	cp.auth = auth
	return &cp
}

func (c *Client) Auth() AuthContext {
	return c.auth
}

func (c *Client) Register(ctx context.Context, email, password, userName string) (*Session, error) {
	return c.authenticate(ctx, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"userName": userName,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var notes []Note
	if err := c.call(ctx, http.MethodGet, "/notes", nil, true, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) FilterNotes(ctx context.Context, f Filter) ([]Note, error) {
	q := url.Values{}
	if f.SearchTerm != "" {
		q.Set("searchTerm", f.SearchTerm)
	}
	if f.FromDate != nil {
		q.Set("fromDate", f.FromDate.UTC().Format(time.RFC3339Nano))
	}
	if f.ToDate != nil {
		q.Set("toDate", f.ToDate.UTC().Format(time.RFC3339Nano))
	}

	path := "/notes/filter"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var notes []Note
	if err := c.call(ctx, http.MethodGet, path, nil, true, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id uuid.UUID) (*Note, error) {
	var n Note
	if err := c.call(ctx, http.MethodGet, "/notes/"+id.String(), nil, true, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) CreateNote(ctx context.Context, title, content string) (*Note, error) {
	var n Note
	body := map[string]string{"title": title, "content": content}
	if err := c.call(ctx, http.MethodPost, "/notes", body, true, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) UpdateNote(ctx context.Context, id uuid.UUID, title, content string) (*Note, error) {
	var n Note
	body := map[string]string{"title": title, "content": content}
	if err := c.call(ctx, http.MethodPut, "/notes/"+id.String(), body, true, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/notes/"+id.String(), nil, true, nil)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*Session, error) {
	var res struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.call(ctx, http.MethodPost, path, body, false, &res); err != nil {
		return nil, err
	}

	auth, err := NewAuthContext(res.Token)
	if err != nil {
		return nil, err
	}

	return &Session{Auth: auth, User: res.User}, nil
}

// call sends one request. Authenticated calls fail locally, before any
// network traffic, when the session is missing or expired.
func (c *Client) call(ctx context.Context, method, path string, body any, authenticated bool, out any) error {
	if authenticated {
		if err := c.auth.Check(c.now()); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+c.auth.Token())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		// a body that is not the usual error shape still yields the status
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}
