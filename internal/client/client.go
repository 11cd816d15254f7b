package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
)

// DefaultTimeout bounds a single HTTP attempt.
const DefaultTimeout = 30 * time.Second

// userAgent identifies the client on the wire.
const userAgent = "hudsonbay-client/1.0"

// Config configures a Client.
type Config struct {
	// BaseURL is the outpost address, e.g. "http://localhost:8001".
	BaseURL string

	// Timeout bounds a single request attempt.
	Timeout time.Duration

	// Policy is the retry policy for the executor.
	Policy Policy

	// Logger is the structured logger.
	Logger logger.Logger
}

// Client is a typed HTTP client for one outpost node.
//
// Every request runs through the retrying executor; transient network
// and server faults are retried with deterministic backoff, everything
// else fails fast with a classified domain error.
type Client struct {
	baseURL string
	http    *http.Client
	exec    *Executor
	log     logger.Logger
}

// New creates a client for the outpost at cfg.BaseURL.
func New(cfg Config, opts ...ExecutorOption) *Client {
	baseURL := cfg.BaseURL
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		exec:    NewExecutor(cfg.Policy, log, opts...),
		log:     log,
	}
}

// BaseURL returns the outpost address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one JSON request with retry and decodes the response
// into out when non-nil.
func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return domain.ErrMalformedPayload.WithCause(err)
		}
		payload = data
	}

	op := method + " " + path
	return c.exec.Do(ctx, op, func(ctx context.Context) error {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return domain.ErrConnectionFailed.WithCause(err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return classifyTransportError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return faultFromResponse(resp)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return domain.ErrMalformedPayload.WithCause(err)
			}
		}
		return nil
	})
}

// classifyTransportError maps transport failures to domain faults.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrRequestTimeout.WithCause(err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.ErrConnectionFailed.WithCause(err)
}

// faultFromResponse builds a classified fault from an error response,
// folding in the server's error body when one is present.
func faultFromResponse(resp *http.Response) error {
	fault := domain.FromStatus(resp.StatusCode)

	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Message != "" {
		details := errBody.Message
		if errBody.Details != "" {
			details = fmt.Sprintf("%s: %s", errBody.Message, errBody.Details)
		}
		return fault.WithDetails(details)
	}
	return fault
}

// Health checks the outpost health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

// Status retrieves the outpost status.
func (c *Client) Status(ctx context.Context) (*domain.NodeStatus, error) {
	var status domain.NodeStatus
	if err := c.do(ctx, http.MethodGet, "/status", "", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	req := domain.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the session on the outpost.
func (c *Client) Logout(ctx context.Context, bearer string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", bearer, nil, nil)
}

// ListInventory retrieves all inventory records.
func (c *Client) ListInventory(ctx context.Context, bearer string) ([]domain.InventoryRecord, error) {
	var records []domain.InventoryRecord
	if err := c.do(ctx, http.MethodGet, "/inventory", bearer, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetRecord retrieves one inventory record.
func (c *Client) GetRecord(ctx context.Context, bearer, name, category string) (*domain.InventoryRecord, error) {
	var record domain.InventoryRecord
	path := fmt.Sprintf("/inventory/%s/%s", category, name)
	if err := c.do(ctx, http.MethodGet, path, bearer, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateRecord stores a new inventory record.
func (c *Client) CreateRecord(ctx context.Context, bearer string, record *domain.InventoryRecord) error {
	return c.do(ctx, http.MethodPost, "/inventory", bearer, record, nil)
}

// UpdateRecord overwrites an existing inventory record.
func (c *Client) UpdateRecord(ctx context.Context, bearer string, record *domain.InventoryRecord) error {
	path := fmt.Sprintf("/inventory/%s/%s", record.Category, record.Name)
	return c.do(ctx, http.MethodPut, path, bearer, record, nil)
}

// DeleteRecord removes an inventory record.
func (c *Client) DeleteRecord(ctx context.Context, bearer, name, category string) error {
	path := fmt.Sprintf("/inventory/%s/%s", category, name)
	return c.do(ctx, http.MethodDelete, path, bearer, nil, nil)
}

// ExportInventory asks the outpost for a sync payload.
func (c *Client) ExportInventory(ctx context.Context, bearer string) (*domain.SyncPayload, error) {
	var payload domain.SyncPayload
	if err := c.do(ctx, http.MethodPost, "/sync/export-inventory", bearer, nil, &payload); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ImportInventory submits a sync payload to the outpost.
func (c *Client) ImportInventory(ctx context.Context, bearer string, req *domain.ImportRequest) (*domain.ImportResponse, error) {
	var resp domain.ImportResponse
	if err := c.do(ctx, http.MethodPost, "/sync/import-inventory", bearer, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
