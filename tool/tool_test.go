package tool

import (
	"context"
	"strings"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next Func) Func {
			return func(ctx context.Context, args Args) (string, error) {
				trace = append(trace, name)
				return next(ctx, args)
			}
		}
	}

	fn := Chain(func(context.Context, Args) (string, error) {
		trace = append(trace, "core")
		return "ok", nil
	}, mark("outer"), nil, mark("inner"))

	got, err := fn(context.Background(), nil)
	if err != nil {
		t.Fatalf("fn() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("fn() = %q, want ok", got)
	}
	if strings.Join(trace, ",") != "outer,inner,core" {
		t.Errorf("trace = %v, want outer,inner,core", trace)
	}
}

func TestArgs_Without(t *testing.T) {
	args := Args{"chemName": "苯", "api_key": "k", "token": "t"}

	stripped := args.Without("api_key", "token")

	if len(stripped) != 1 || stripped.String("chemName") != "苯" {
		t.Errorf("Without() = %v", stripped)
	}
	if args.String("api_key") != "k" {
		t.Error("Without() modified the receiver")
	}
}

func TestArgs_String(t *testing.T) {
	args := Args{"n": 5, "s": "x"}

	if got := args.String("n"); got != "" {
		t.Errorf("String(n) = %q, want empty", got)
	}
	if got := args.String("s"); got != "x" {
		t.Errorf("String(s) = %q, want x", got)
	}
	var nilArgs Args
	if got := nilArgs.String("s"); got != "" {
		t.Errorf("nil String(s) = %q, want empty", got)
	}
}
