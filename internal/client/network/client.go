// internal/client/network/client.go
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"staydesk/pkg/api"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// Client talks to the marketplace REST API and holds the session of the
// signed-in user.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
	user  *api.User

	// concurrent inbox loads for the same session share one request
	inflight singleflight.Group
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(timeout),
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (api.User, error) {
	log.Printf("Logging in as %s", email)
	var resp api.AuthResponse
	err := c.do(ctx, http.MethodPost, api.PathLogin, api.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp, false)
	if err != nil {
		return api.User{}, fmt.Errorf("login: %w", err)
	}
	c.setSession(resp)
	return resp.User, nil
}

func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (api.User, error) {
	log.Printf("Registering %s", req.Email)
	var resp api.AuthResponse
	if err := c.do(ctx, http.MethodPost, api.PathRegister, req, &resp, false); err != nil {
		return api.User{}, fmt.Errorf("register: %w", err)
	}
	c.setSession(resp)
	return resp.User, nil
}

// Me refreshes the current user from the backend.
func (c *Client) Me(ctx context.Context) (api.User, error) {
	var user api.User
	if err := c.do(ctx, http.MethodGet, api.PathMe, nil, &user, true); err != nil {
		return api.User{}, fmt.Errorf("load profile: %w", err)
	}
	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	return user, nil
}

// ListMessages returns every message involving the current user.
func (c *Client) ListMessages(ctx context.Context) ([]api.Message, error) {
	c.mu.RLock()
	key := api.PathMessages + " " + c.token
	c.mu.RUnlock()

	v, err, _ := c.inflight.Do(key, func() (interface{}, error) {
		var messages []api.Message
		err := c.do(ctx, http.MethodGet, api.PathMessages, nil, &messages, true)
		return messages, err
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return v.([]api.Message), nil
}

// Conversation returns the thread with one counterpart.
func (c *Client) Conversation(ctx context.Context, userID api.ID) ([]api.Message, error) {
	var messages []api.Message
	if err := c.do(ctx, http.MethodGet, api.ConversationPath(userID), nil, &messages, true); err != nil {
		return nil, fmt.Errorf("load conversation with %s: %w", userID, err)
	}
	return messages, nil
}

// SendMessage posts body to recipientID exactly as given.
func (c *Client) SendMessage(ctx context.Context, recipientID api.ID, body string) (api.Message, error) {
	var created api.Message
	err := c.do(ctx, http.MethodPost, api.PathCreate, api.CreateMessageRequest{
		RecipientID: recipientID,
		Body:        body,
	}, &created, true)
	if err != nil {
		return api.Message{}, fmt.Errorf("send message: %w", err)
	}
	return created, nil
}

func (c *Client) User() (api.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return api.User{}, false
	}
	return *c.user, true
}

func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != "" && c.user != nil
}

// Logout forgets the token and user. The backend keeps no session state.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.user = nil
}

func (c *Client) setSession(resp api.AuthResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = resp.Token
	user := resp.User
	c.user = &user
	log.Printf("Authentication successful. UserID: %s", user.ID)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, auth bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token == "" {
			return ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp api.ErrorResponse
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); readErr == nil {
			if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
				apiErr.Message = errResp.Error
			} else {
				apiErr.Message = strings.TrimSpace(string(data))
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
