package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Session holds the authenticated upstream session state. The UID is what
// execute_kw calls are issued under.
type Session struct {
	UID           int
	Authenticated bool
}

// Client talks JSON-RPC to an upstream ERP instance. Authentication is lazy:
// the first model call authenticates, and a session rejected by the upstream
// is re-established once before the call fails.
type Client struct {
	client   *resty.Client
	baseURL  string
	database string
	username string
	password string
	logger   *zap.Logger

	mu      sync.Mutex
	session Session
	reqID   int
}

// NewClient creates a new ERP JSON-RPC client
func NewClient(cfg config.GatewayConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.Debug {
		client.SetDebug(true)
	}

	return &Client{
		client:   client,
		baseURL:  strings.TrimRight(cfg.UpstreamURL, "/"),
		database: cfg.Database,
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger,
	}
}

type rpcParams struct {
	Service string        `json:"service"`
	Method  string        `json:"method"`
	Args    []interface{} `json:"args"`
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int       `json:"id"`
}

// RPCError is the error object returned by the upstream JSON-RPC endpoint
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("erp rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// call performs one JSON-RPC round trip against /jsonrpc
func (c *Client) call(ctx context.Context, service, method string, args []interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	c.reqID++
	id := c.reqID
	c.mu.Unlock()

	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params: rpcParams{
			Service: service,
			Method:  method,
			Args:    args,
		},
		ID: id,
	}

	var res rpcResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&res).
		Post(c.baseURL + "/jsonrpc")
	if err != nil {
		return nil, fmt.Errorf("erp request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("erp returned status %d", resp.StatusCode())
	}
	if res.Error != nil {
		return nil, res.Error
	}

	return res.Result, nil
}

// Authenticate establishes the upstream session and caches the UID
func (c *Client) Authenticate(ctx context.Context) error {
	result, err := c.call(ctx, "common", "authenticate",
		[]interface{}{c.database, c.username, c.password, map[string]interface{}{}})
	if err != nil {
		return err
	}

	// A failed login returns false instead of a UID
	var uid int
	if err := json.Unmarshal(result, &uid); err != nil || uid == 0 {
		return fmt.Errorf("erp authentication failed for user %q", c.username)
	}

	c.mu.Lock()
	c.session = Session{UID: uid, Authenticated: true}
	c.mu.Unlock()

	c.logger.Info("erp session established", zap.Int("uid", uid))
	return nil
}

// CurrentSession returns a copy of the session state
func (c *Client) CurrentSession() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// isSessionError reports whether the upstream rejected our session
func isSessionError(err error) bool {
	rpcErr, ok := err.(*RPCError)
	if !ok {
		return false
	}
	msg := strings.ToLower(rpcErr.Message)
	return strings.Contains(msg, "session") || strings.Contains(msg, "access denied")
}

// ExecuteKw invokes a model method upstream, authenticating lazily and
// retrying once when the session has expired
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []interface{}, kwargs map[string]interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	authenticated := c.session.Authenticated
	c.mu.Unlock()

	if !authenticated {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	result, err := c.executeKwOnce(ctx, model, method, args, kwargs)
	if err != nil && isSessionError(err) {
		c.logger.Warn("erp session rejected, re-authenticating", zap.Error(err))
		if authErr := c.Authenticate(ctx); authErr != nil {
			return nil, authErr
		}
		return c.executeKwOnce(ctx, model, method, args, kwargs)
	}
	return result, err
}

func (c *Client) executeKwOnce(ctx context.Context, model, method string, args []interface{}, kwargs map[string]interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	uid := c.session.UID
	c.mu.Unlock()

	if kwargs == nil {
		kwargs = map[string]interface{}{}
	}

	return c.call(ctx, "object", "execute_kw",
		[]interface{}{c.database, uid, c.password, model, method, args, kwargs})
}

// Version asks the upstream for its version info, used by health checks
func (c *Client) Version(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, "common", "version", []interface{}{})
}

// SearchRead reads records matching a domain filter
func (c *Client) SearchRead(ctx context.Context, model string, domain []interface{}, fields []string, limit, offset int) ([]map[string]interface{}, error) {
	kwargs := map[string]interface{}{}
	if len(fields) > 0 {
		kwargs["fields"] = fields
	}
	if limit > 0 {
		kwargs["limit"] = limit
	}
	if offset > 0 {
		kwargs["offset"] = offset
	}

	result, err := c.ExecuteKw(ctx, model, "search_read", []interface{}{domain}, kwargs)
	if err != nil {
		return nil, err
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(result, &records); err != nil {
		return nil, fmt.Errorf("erp search_read returned malformed payload: %w", err)
	}
	return records, nil
}

// Read reads specific records by ID
func (c *Client) Read(ctx context.Context, model string, ids []int, fields []string) ([]map[string]interface{}, error) {
	kwargs := map[string]interface{}{}
	if len(fields) > 0 {
		kwargs["fields"] = fields
	}

	result, err := c.ExecuteKw(ctx, model, "read", []interface{}{ids}, kwargs)
	if err != nil {
		return nil, err
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(result, &records); err != nil {
		return nil, fmt.Errorf("erp read returned malformed payload: %w", err)
	}
	return records, nil
}

// Create creates a record and returns its upstream ID
func (c *Client) Create(ctx context.Context, model string, values map[string]interface{}) (int, error) {
	result, err := c.ExecuteKw(ctx, model, "create", []interface{}{values}, nil)
	if err != nil {
		return 0, err
	}

	var id int
	if err := json.Unmarshal(result, &id); err != nil {
		return 0, fmt.Errorf("erp create returned malformed payload: %w", err)
	}
	return id, nil
}

// Write updates records by ID
func (c *Client) Write(ctx context.Context, model string, ids []int, values map[string]interface{}) error {
	_, err := c.ExecuteKw(ctx, model, "write", []interface{}{ids, values}, nil)
	return err
}

// Unlink deletes records by ID
func (c *Client) Unlink(ctx context.Context, model string, ids []int) error {
	_, err := c.ExecuteKw(ctx, model, "unlink", []interface{}{ids}, nil)
	return err
}

// CallMethod invokes an arbitrary model method on records, such as the
// order lifecycle actions
func (c *Client) CallMethod(ctx context.Context, model, method string, ids []int) error {
	_, err := c.ExecuteKw(ctx, model, method, []interface{}{ids}, nil)
	return err
}

// ParseDomain decodes a JSON-encoded domain filter. Malformed input yields
// the empty filter rather than an error, matching the permissive behavior
// expected by API consumers.
func ParseDomain(raw string) []interface{} {
	if strings.TrimSpace(raw) == "" {
		return []interface{}{}
	}
	var domain []interface{}
	if err := json.Unmarshal([]byte(raw), &domain); err != nil {
		return []interface{}{}
	}
	return domain
}
