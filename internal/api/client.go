package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"nearbuy-chat/internal/chatsync"
	"nearbuy-chat/internal/config"
	"nearbuy-chat/internal/models"
)

var ErrSelfConversation = errors.New("api: cannot start a conversation on your own listing")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Client issues the durable calls against the chat backend.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

var _ chatsync.DurableAPI = (*Client)(nil)

func New(cfg *config.AppConfig) *Client {
	c := NewWithHTTPClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
	c.SetToken(cfg.AuthToken)
	return c
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, req models.CreateUserRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Login authenticates and keeps the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	req := models.LoginUserRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*models.PublicUser, error) {
	var resp models.PublicUser
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FetchHistory(ctx context.Context, roomID int64) (*models.HistoryResponse, error) {
	var resp models.HistoryResponse
	if err := c.do(ctx, http.MethodGet, roomPath(roomID, "/messages"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateMessage(ctx context.Context, roomID int64, content, clientMsgID string) (*models.CreateMessageResponse, error) {
	var resp models.CreateMessageResponse
	req := models.CreateMessageRequest{Content: content, ClientMsgID: clientMsgID}
	if err := c.do(ctx, http.MethodPost, roomPath(roomID, "/messages"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MarkRead(ctx context.Context, roomID int64) (*models.MarkReadResponse, error) {
	var resp models.MarkReadResponse
	if err := c.do(ctx, http.MethodPost, roomPath(roomID, "/messages/read"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FetchRooms(ctx context.Context) ([]models.RoomSummary, error) {
	var resp models.RoomsResponse
	if err := c.do(ctx, http.MethodGet, "/chats", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Chats, nil
}

// InitiateRoom returns the room of the caller for listingID, creating it when needed.
// The seller of the listing gets ErrSelfConversation.
func (c *Client) InitiateRoom(ctx context.Context, listingID int64) (*models.InitiateRoomResponse, error) {
	var resp models.InitiateRoomResponse
	err := c.do(ctx, http.MethodPost, "/chats/initiate", models.InitiateRoomRequest{ListingID: listingID}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: %s", ErrSelfConversation, apiErr.Message)
		}
		return nil, err
	}
	return &resp, nil
}

func roomPath(roomID int64, suffix string) string {
	return "/chats/" + strconv.FormatInt(roomID, 10) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // .

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &errBody) != nil || errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
