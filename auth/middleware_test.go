package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonwraymond/nrcc-search/tool"
)

type captured struct {
	called   bool
	args     tool.Args
	identity *Identity
}

func (c *captured) fn(ctx context.Context, args tool.Args) (string, error) {
	c.called = true
	c.args = args
	c.identity = IdentityFromContext(ctx)
	return "ok", nil
}

func TestMiddleware_StripsCredentials(t *testing.T) {
	var c captured
	wrapped := Middleware(NewValidator(Config{APIKey: "K"}))(c.fn)

	args := tool.Args{"chemName": "benzene", "api_key": "K", "token": "ignored"}
	out, err := wrapped(context.Background(), args)
	if err != nil {
		t.Fatalf("call error = %v", err)
	}
	if out != "ok" {
		t.Errorf("out = %q, want ok", out)
	}
	if _, ok := c.args["api_key"]; ok {
		t.Error("api_key forwarded to operation")
	}
	if _, ok := c.args["token"]; ok {
		t.Error("token forwarded to operation")
	}
	if c.args.String("chemName") != "benzene" {
		t.Errorf("chemName = %q, want benzene", c.args.String("chemName"))
	}
	if _, ok := args["api_key"]; !ok {
		t.Error("caller's args should not be mutated")
	}
	if c.identity == nil || c.identity.Method != AuthMethodAPIKey {
		t.Errorf("identity = %+v, want api_key identity", c.identity)
	}
}

func TestMiddleware_RejectSkipsOperation(t *testing.T) {
	tests := []struct {
		name    string
		args    tool.Args
		wantErr error
	}{
		{name: "wrong key", args: tool.Args{"api_key": "wrong"}, wantErr: ErrInvalidAPIKey},
		{name: "no credential", args: tool.Args{}, wantErr: ErrAuthRequired},
		{name: "bad token", args: tool.Args{"token": "junk"}, wantErr: ErrAuthRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c captured
			wrapped := Middleware(NewValidator(Config{APIKey: "K"}))(c.fn)

			_, err := wrapped(context.Background(), tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			var authErr *AuthenticationError
			if !errors.As(err, &authErr) {
				t.Errorf("err = %T, want *AuthenticationError", err)
			}
			if c.called {
				t.Error("operation invoked on reject")
			}
		})
	}
}

func TestMiddleware_BypassAttachesAnonymous(t *testing.T) {
	var c captured
	wrapped := Middleware(NewValidator(Config{}))(c.fn)

	if _, err := wrapped(context.Background(), tool.Args{"api_key": "whatever"}); err != nil {
		t.Fatalf("call error = %v", err)
	}
	if !c.identity.IsAnonymous() {
		t.Errorf("identity = %+v, want anonymous", c.identity)
	}
	if _, ok := c.args["api_key"]; ok {
		t.Error("api_key forwarded in bypass mode")
	}
}

func TestMiddleware_HeaderFallback(t *testing.T) {
	token := mustIssue(t, "S", "alice", time.Hour)

	tests := []struct {
		name      string
		header    http.Header
		args      tool.Args
		wantErr   error
		principal string
	}{
		{
			name:      "bearer header",
			header:    http.Header{"Authorization": {"Bearer " + token}},
			args:      tool.Args{},
			principal: "alice",
		},
		{
			name:      "api key header",
			header:    http.Header{"X-Api-Key": {"K"}},
			args:      tool.Args{},
			principal: "api_key",
		},
		{
			name:    "arguments win over headers",
			header:  http.Header{"X-Api-Key": {"K"}},
			args:    tool.Args{"api_key": "wrong"},
			wantErr: ErrInvalidAPIKey,
		},
		{
			name:    "non bearer authorization ignored",
			header:  http.Header{"Authorization": {"Basic Zm9vOmJhcg=="}},
			args:    tool.Args{},
			wantErr: ErrAuthRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c captured
			wrapped := Middleware(NewValidator(Config{APIKey: "K", JWTSecret: "S"}))(c.fn)

			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			req.Header = tt.header
			ctx := ContextFromRequest(context.Background(), req)

			_, err := wrapped(ctx, tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("call error = %v", err)
			}
			if got := c.identity.Principal; got != tt.principal {
				t.Errorf("principal = %q, want %q", got, tt.principal)
			}
		})
	}
}
