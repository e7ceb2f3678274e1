package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream is a minimal JSON-RPC endpoint standing in for the ERP server
type fakeUpstream struct {
	t         *testing.T
	authCalls int32
	handler   func(req rpcRequest) (interface{}, *RPCError)
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	require.Equal(f.t, "/jsonrpc", r.URL.Path)

	var req rpcRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))

	var res rpcResponse
	res.JSONRPC = "2.0"
	res.ID = req.ID

	if req.Params.Service == "common" && req.Params.Method == "authenticate" {
		atomic.AddInt32(&f.authCalls, 1)
		res.Result, _ = json.Marshal(7)
	} else {
		result, rpcErr := f.handler(req)
		if rpcErr != nil {
			res.Error = rpcErr
		} else {
			res.Result, _ = json.Marshal(result)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func newTestClient(t *testing.T, upstream *fakeUpstream) (*Client, *httptest.Server) {
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client := NewClient(config.GatewayConfig{
		UpstreamURL: server.URL,
		Database:    "odoo",
		Username:    "admin",
		Password:    "admin",
		Timeout:     5 * time.Second,
	}, nil)

	return client, server
}

func TestClient_Authenticate(t *testing.T) {
	upstream := &fakeUpstream{t: t}
	client, _ := newTestClient(t, upstream)

	err := client.Authenticate(context.Background())
	require.NoError(t, err)

	session := client.CurrentSession()
	assert.True(t, session.Authenticated)
	assert.Equal(t, 7, session.UID)
}

func TestClient_Authenticate_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		// Upstream signals bad credentials by returning false
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0", "id": req.ID, "result": false,
		})
	}))
	defer server.Close()

	client := NewClient(config.GatewayConfig{
		UpstreamURL: server.URL,
		Database:    "odoo",
		Username:    "admin",
		Password:    "wrong",
		Timeout:     5 * time.Second,
	}, nil)

	err := client.Authenticate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.False(t, client.CurrentSession().Authenticated)
}

func TestClient_ExecuteKw_LazyAuth(t *testing.T) {
	upstream := &fakeUpstream{t: t}
	upstream.handler = func(req rpcRequest) (interface{}, *RPCError) {
		require.Equal(t, "object", req.Params.Service)
		require.Equal(t, "execute_kw", req.Params.Method)
		// args: db, uid, password, model, method, args, kwargs
		require.Len(t, req.Params.Args, 7)
		assert.Equal(t, float64(7), req.Params.Args[1])
		return []map[string]interface{}{{"id": 1, "name": "SO001"}}, nil
	}
	client, _ := newTestClient(t, upstream)

	records, err := client.SearchRead(context.Background(), "sale.order",
		[]interface{}{}, []string{"name"}, 0, 0)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SO001", records[0]["name"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&upstream.authCalls))
}

func TestClient_ExecuteKw_ReauthenticatesOnExpiredSession(t *testing.T) {
	var modelCalls int32
	upstream := &fakeUpstream{t: t}
	upstream.handler = func(req rpcRequest) (interface{}, *RPCError) {
		if atomic.AddInt32(&modelCalls, 1) == 1 {
			return nil, &RPCError{Code: 100, Message: "Odoo Session Expired"}
		}
		return 42, nil
	}
	client, _ := newTestClient(t, upstream)

	id, err := client.Create(context.Background(), "sale.order",
		map[string]interface{}{"partner_id": 1})

	require.NoError(t, err)
	assert.Equal(t, 42, id)
	// one lazy auth plus one re-auth after the expiry error
	assert.Equal(t, int32(2), atomic.LoadInt32(&upstream.authCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&modelCalls))
}

func TestClient_ExecuteKw_PropagatesUpstreamErrors(t *testing.T) {
	upstream := &fakeUpstream{t: t}
	upstream.handler = func(req rpcRequest) (interface{}, *RPCError) {
		return nil, &RPCError{Code: 200, Message: "ValidationError: missing partner"}
	}
	client, _ := newTestClient(t, upstream)

	err := client.Write(context.Background(), "sale.order", []int{1},
		map[string]interface{}{"note": "x"})

	require.Error(t, err)
	rpcErr, ok := err.(*RPCError)
	require.True(t, ok)
	assert.Equal(t, 200, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "ValidationError")
}

func TestParseDomain(t *testing.T) {
	t.Run("parses a valid domain", func(t *testing.T) {
		domain := ParseDomain(`[["state","=","sale"]]`)
		require.Len(t, domain, 1)
	})

	t.Run("empty input yields empty filter", func(t *testing.T) {
		assert.Empty(t, ParseDomain(""))
		assert.Empty(t, ParseDomain("   "))
	})

	t.Run("malformed input yields empty filter", func(t *testing.T) {
		assert.Empty(t, ParseDomain(`[[not json`))
		assert.Empty(t, ParseDomain(`{"a":1}`))
	})
}
