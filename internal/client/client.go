// Package client implements the Go client for the contact manager API:
// an HTTP client plus a local contact store with debounced search and
// optimistic mutations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contact_manager/internal/model"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrInvalidInput    = errors.New("invalid input")
)

// Session is the result of a successful register or login call.
type Session struct {
	Token  string `json:"token"`
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Client talks to the contact manager REST API. The bearer token is
// attached to every request once set.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the given server base URL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken stores the bearer token used for authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return statusError(resp.StatusCode, apiErr.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// statusError maps an HTTP status back onto the client error taxonomy.
func statusError(status int, msg string) error {
	var kind error
	switch status {
	case http.StatusBadRequest:
		kind = ErrInvalidInput
	case http.StatusUnauthorized:
		kind = ErrUnauthenticated
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusConflict:
		kind = ErrConflict
	default:
		return fmt.Errorf("server error (status %d): %s", status, msg)
	}
	if msg == "" {
		return kind
	}
	return fmt.Errorf("%w: %s", kind, msg)
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Me verifies the stored token server-side and returns the profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListContacts fetches the caller's contacts, optionally narrowed by search.
func (c *Client) ListContacts(ctx context.Context, search string) ([]model.Contact, error) {
	path := "/api/contacts"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var contacts []model.Contact
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// CreateContact creates a contact owned by the caller.
func (c *Client) CreateContact(ctx context.Context, req model.CreateContactRequest) (*model.Contact, error) {
	var contact model.Contact
	if err := c.doJSON(ctx, http.MethodPost, "/api/contacts", req, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact applies a partial update to a contact.
func (c *Client) UpdateContact(ctx context.Context, id int64, req model.UpdateContactRequest) (*model.Contact, error) {
	var contact model.Contact
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/contacts/%d", id), req, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact removes a contact and returns the deleted id.
func (c *Client) DeleteContact(ctx context.Context, id int64) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/contacts/%d", id), nil, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}
