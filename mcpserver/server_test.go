package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/nrcc-search/auth"
	"github.com/jonwraymond/nrcc-search/config"
	"github.com/jonwraymond/nrcc-search/observe"
	"github.com/jonwraymond/nrcc-search/resilience"
	"github.com/jonwraymond/nrcc-search/tool"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Searcher == nil {
		opts.Searcher = &fakeSearcher{list: benzene(), detail: benzene()}
	}
	s := New(opts)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	if len(r.Content) != 1 {
		t.Fatalf("content = %v, want one item", r.Content)
	}
	text, ok := r.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] = %T, want TextContent", r.Content[0])
	}
	return text.Text
}

func TestToolHandler(t *testing.T) {
	s := newTestServer(t, Options{
		Limiter:   resilience.NewRateLimiter(resilience.RateLimiterConfig{MaxCalls: 1, Window: time.Hour}),
		Validator: auth.NewValidator(auth.Config{APIKey: "K"}),
	})
	fn, ok := s.Tool(ToolChemicalsList)
	if !ok {
		t.Fatal("search_chemicals_list not registered")
	}
	handler := toolHandler(ToolChemicalsList, fn, observe.NopLogger())

	call := func(args map[string]any) *mcp.CallToolResult {
		req := mcp.CallToolRequest{}
		req.Params.Name = ToolChemicalsList
		req.Params.Arguments = args
		res, err := handler(context.Background(), req)
		if err != nil {
			t.Fatalf("handler error = %v", err)
		}
		return res
	}

	res := call(map[string]any{"chemName": "苯", "chemCas": "", "api_key": "K"})
	if res.IsError {
		t.Fatalf("first call failed: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), "化学品名称: 苯") {
		t.Errorf("text = %q", resultText(t, res))
	}

	res = call(map[string]any{"chemName": "苯", "chemCas": "", "api_key": "K"})
	if !res.IsError || resultText(t, res) != "rate limit exceeded for chemicals_list" {
		t.Errorf("second call = %v %q, want rate limit error", res.IsError, resultText(t, res))
	}
}

func TestToolHandler_LogLevels(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
	}{
		{name: "rate limited", err: &resilience.RateLimitError{Identifier: "chemicals_list"}, wantLevel: "info", wantMsg: "tool call rejected"},
		{name: "unauthenticated", err: &auth.AuthenticationError{Reason: auth.ErrInvalidAPIKey}, wantLevel: "info", wantMsg: "tool call rejected"},
		{name: "internal failure", err: errors.New("boom"), wantLevel: "error", wantMsg: "tool call failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			fn := func(context.Context, tool.Args) (string, error) { return "", tt.err }
			handler := toolHandler(ToolChemicalsList, fn, observe.NewLoggerWithWriter("debug", &buf))

			res, err := handler(context.Background(), mcp.CallToolRequest{})
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if !res.IsError || resultText(t, res) != tt.err.Error() {
				t.Errorf("result = %v %q, want error result %q", res.IsError, resultText(t, res), tt.err.Error())
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("log line %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.wantLevel || entry["msg"] != tt.wantMsg {
				t.Errorf("log = %v %v, want %s %s", entry["level"], entry["msg"], tt.wantLevel, tt.wantMsg)
			}
			if entry["tool"] != ToolChemicalsList {
				t.Errorf("tool = %v", entry["tool"])
			}
		})
	}
}

func TestServer_RegistersBothTools(t *testing.T) {
	s := newTestServer(t, Options{})
	for _, name := range []string{ToolChemicalsList, ToolChemicalDetail} {
		if _, ok := s.Tool(name); !ok {
			t.Errorf("%s not registered", name)
		}
	}
	if got := s.Health().CheckerNames(); len(got) != 2 {
		t.Errorf("health checkers = %v", got)
	}
}

type rpcClient struct {
	t       *testing.T
	url     string
	session string
	header  http.Header
	nextID  int
}

func (c *rpcClient) call(method string, params any) map[string]any {
	c.t.Helper()
	c.nextID++
	body, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      c.nextID,
		"method":  method,
		"params":  params,
	})

	req, _ := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if c.session != "" {
		req.Header.Set("Mcp-Session-Id", c.session)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s: %v", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		c.t.Fatalf("%s: status %d: %s", method, resp.StatusCode, data)
	}
	if id := resp.Header.Get("Mcp-Session-Id"); id != "" {
		c.session = id
	}

	payload := readPayload(c.t, resp)
	var msg map[string]any
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.t.Fatalf("%s: decode %q: %v", method, payload, err)
	}
	if msg["error"] != nil {
		c.t.Fatalf("%s: rpc error %v", method, msg["error"])
	}
	result, _ := msg["result"].(map[string]any)
	return result
}

// readPayload returns the JSON-RPC message from a JSON or SSE response.
func readPayload(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		data, _ := io.ReadAll(resp.Body)
		return data
	}
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if data, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
			return []byte(data)
		}
	}
	t.Fatal("no data event in stream")
	return nil
}

func toolCallText(t *testing.T, result map[string]any) (string, bool) {
	t.Helper()
	content, _ := result["content"].([]any)
	if len(content) == 0 {
		t.Fatalf("result has no content: %v", result)
	}
	item, _ := content[0].(map[string]any)
	isErr, _ := result["isError"].(bool)
	text, _ := item["text"].(string)
	return text, isErr
}

func TestServer_EndToEnd(t *testing.T) {
	s := newTestServer(t, Options{
		Version:   "test",
		Scope:     config.ScopeOperation,
		Limiter:   resilience.NewRateLimiter(resilience.RateLimiterConfig{MaxCalls: 2, Window: time.Hour}),
		Validator: auth.NewValidator(auth.Config{APIKey: "K"}),
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c := &rpcClient{t: t, url: ts.URL + EndpointPath}
	initResult := c.call("initialize", map[string]any{
		"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "1"},
	})
	if info, _ := initResult["serverInfo"].(map[string]any); info["name"] != ServerName {
		t.Errorf("serverInfo = %v", initResult["serverInfo"])
	}

	list := c.call("tools/list", map[string]any{})
	tools, _ := list["tools"].([]any)
	if len(tools) != 2 {
		t.Fatalf("tools/list returned %d tools", len(tools))
	}

	res := c.call("tools/call", map[string]any{
		"name":      ToolChemicalsList,
		"arguments": map[string]any{"chemName": "苯", "chemCas": "71-43-2"},
	})
	if text, isErr := toolCallText(t, res); !isErr || text != "authentication required" {
		t.Errorf("unauthenticated call = %q (error %v)", text, isErr)
	}

	res = c.call("tools/call", map[string]any{
		"name":      ToolChemicalsList,
		"arguments": map[string]any{"chemName": "苯", "chemCas": "71-43-2", "api_key": "K"},
	})
	if text, isErr := toolCallText(t, res); isErr || !strings.Contains(text, "idenDataId: A1") {
		t.Errorf("authenticated call = %q (error %v)", text, isErr)
	}

	res = c.call("tools/call", map[string]any{
		"name":      ToolChemicalsList,
		"arguments": map[string]any{"chemName": "苯", "chemCas": "71-43-2", "api_key": "K"},
	})
	if text, isErr := toolCallText(t, res); !isErr || text != "rate limit exceeded for chemicals_list" {
		t.Errorf("third call = %q (error %v)", text, isErr)
	}

	c.header = http.Header{"X-Api-Key": {"K"}}
	res = c.call("tools/call", map[string]any{
		"name":      ToolChemicalDetail,
		"arguments": map[string]any{"chemId": "A1"},
	})
	if text, isErr := toolCallText(t, res); isErr || !strings.Contains(text, "化学品名称: 苯") {
		t.Errorf("header-authenticated detail = %q (error %v)", text, isErr)
	}
}

func TestServer_Probes(t *testing.T) {
	s := newTestServer(t, Options{Validator: auth.NewValidator(auth.Config{})})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "DEGRADED" {
		t.Errorf("/readyz = %d %q, want degraded in bypass mode", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("/metrics without observer = %d, want 404", rec.Code)
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	obs, err := observe.NewObserver(context.Background(), observe.Config{
		ServiceName: "nrcc-search-test",
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	s := newTestServer(t, Options{
		Observer: obs,
		Limiter:  resilience.NewRateLimiter(resilience.RateLimiterConfig{MaxCalls: 1, Window: time.Hour}),
	})
	fn, _ := s.Tool(ToolChemicalDetail)
	_, _ = fn(context.Background(), map[string]any{"chemId": "A1"})
	_, _ = fn(context.Background(), map[string]any{"chemId": "A1"})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"nrcc_tool_calls", "nrcc_ratelimit_rejections", "nrcc_auth_decisions"} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %s", want)
		}
	}
}
