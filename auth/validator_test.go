package auth

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/nrcc-search/observe"
)

type authRecorder struct {
	mu        sync.Mutex
	decisions []string
}

func (r *authRecorder) RecordExecution(context.Context, observe.ToolMeta, time.Duration, error) {}
func (r *authRecorder) RecordRateLimit(context.Context, string, bool)                           {}

func (r *authRecorder) RecordAuth(_ context.Context, method, decision string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, method+":"+decision)
}

func mustIssue(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	token, err := IssueToken([]byte(secret), subject, ttl)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	return token
}

func TestValidator_Validate(t *testing.T) {
	expired := signToken(t, jwt.SigningMethodHS256, []byte("S"), jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	noExp := signToken(t, jwt.SigningMethodHS256, []byte("S"), jwt.RegisteredClaims{Subject: "alice"})

	tests := []struct {
		name       string
		config     Config
		creds      Credentials
		want       Decision
		wantMethod AuthMethod
		wantErr    error
	}{
		{
			name:       "no secrets bypasses without credentials",
			creds:      Credentials{},
			want:       Bypass,
			wantMethod: AuthMethodBypass,
		},
		{
			name:       "no secrets bypasses with garbage credentials",
			creds:      Credentials{APIKey: "anything", Token: "junk"},
			want:       Bypass,
			wantMethod: AuthMethodBypass,
		},
		{
			name:       "correct api key",
			config:     Config{APIKey: "K"},
			creds:      Credentials{APIKey: "K"},
			want:       Accept,
			wantMethod: AuthMethodAPIKey,
		},
		{
			name:       "wrong api key",
			config:     Config{APIKey: "K"},
			creds:      Credentials{APIKey: "wrong"},
			want:       Reject,
			wantMethod: AuthMethodAPIKey,
			wantErr:    ErrInvalidAPIKey,
		},
		{
			name:       "api key with surrounding whitespace",
			config:     Config{APIKey: "K"},
			creds:      Credentials{APIKey: "\tK\n"},
			want:       Reject,
			wantMethod: AuthMethodAPIKey,
			wantErr:    ErrInvalidAPIKey,
		},
		{
			name:       "whitespace-only api key",
			config:     Config{APIKey: "K"},
			creds:      Credentials{APIKey: "   "},
			want:       Reject,
			wantMethod: AuthMethodAPIKey,
			wantErr:    ErrInvalidAPIKey,
		},
		{
			name:       "api key configured, nothing presented",
			config:     Config{APIKey: "K"},
			want:       Reject,
			wantMethod: AuthMethodNone,
			wantErr:    ErrAuthRequired,
		},
		{
			name:       "valid token",
			config:     Config{JWTSecret: "S"},
			creds:      Credentials{Token: mustIssue(t, "S", "alice", time.Hour)},
			want:       Accept,
			wantMethod: AuthMethodJWT,
		},
		{
			name:       "token signed with other secret",
			config:     Config{JWTSecret: "S"},
			creds:      Credentials{Token: mustIssue(t, "other", "alice", time.Hour)},
			want:       Reject,
			wantMethod: AuthMethodJWT,
			wantErr:    ErrInvalidToken,
		},
		{
			name:       "expired token",
			config:     Config{JWTSecret: "S"},
			creds:      Credentials{Token: expired},
			want:       Reject,
			wantMethod: AuthMethodJWT,
			wantErr:    ErrInvalidToken,
		},
		{
			name:       "token without exp",
			config:     Config{JWTSecret: "S"},
			creds:      Credentials{Token: noExp},
			want:       Reject,
			wantMethod: AuthMethodJWT,
			wantErr:    ErrInvalidToken,
		},
		{
			name:       "api key presented but only jwt configured",
			config:     Config{JWTSecret: "S"},
			creds:      Credentials{APIKey: "K"},
			want:       Reject,
			wantMethod: AuthMethodNone,
			wantErr:    ErrAuthRequired,
		},
		{
			name:       "api key decides before token",
			config:     Config{APIKey: "K", JWTSecret: "S"},
			creds:      Credentials{APIKey: "wrong", Token: mustIssue(t, "S", "alice", time.Hour)},
			want:       Reject,
			wantMethod: AuthMethodAPIKey,
			wantErr:    ErrInvalidAPIKey,
		},
		{
			name:       "token accepted when both configured",
			config:     Config{APIKey: "K", JWTSecret: "S"},
			creds:      Credentials{Token: mustIssue(t, "S", "alice", time.Hour)},
			want:       Accept,
			wantMethod: AuthMethodJWT,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &authRecorder{}
			v := NewValidator(tt.config, WithMetrics(rec))

			got := v.Validate(context.Background(), tt.creds)
			if got.Decision != tt.want {
				t.Fatalf("Decision = %v, want %v (err %v)", got.Decision, tt.want, got.Err)
			}
			if got.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", got.Method, tt.wantMethod)
			}

			if tt.wantErr == nil {
				if got.Err != nil {
					t.Errorf("Err = %v, want nil", got.Err)
				}
				if got.Identity == nil {
					t.Error("Identity should be set")
				}
			} else {
				if !errors.Is(got.Err, tt.wantErr) {
					t.Errorf("Err = %v, want %v", got.Err, tt.wantErr)
				}
				if !IsAuthenticationError(got.Err) {
					t.Errorf("Err = %v, want an authentication error", got.Err)
				}
			}

			want := string(tt.wantMethod) + ":" + tt.want.String()
			if len(rec.decisions) != 1 || rec.decisions[0] != want {
				t.Errorf("recorded %v, want [%s]", rec.decisions, want)
			}
		})
	}
}

func TestValidator_ExposesSubject(t *testing.T) {
	v := NewValidator(Config{JWTSecret: "S"})
	got := v.Validate(context.Background(), Credentials{Token: mustIssue(t, "S", "alice", time.Hour)})
	if got.Identity == nil || got.Identity.Principal != "alice" {
		t.Fatalf("Identity = %+v, want principal alice", got.Identity)
	}
}

func TestValidator_LogsEveryBranchWithoutSecrets(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		creds   Credentials
		wantMsg string
	}{
		{name: "bypass", creds: Credentials{APIKey: "supersecret"}, wantMsg: "no authentication configured"},
		{name: "reject", config: Config{APIKey: "K"}, creds: Credentials{APIKey: "supersecret"}, wantMsg: "authentication failed"},
		{name: "accept", config: Config{APIKey: "supersecret"}, creds: Credentials{APIKey: "supersecret"}, wantMsg: "authentication successful"},
		{name: "required", config: Config{APIKey: "K"}, wantMsg: "authentication required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			v := NewValidator(tt.config, WithLogger(observe.NewLoggerWithWriter("debug", &buf)))
			v.Validate(context.Background(), tt.creds)

			out := buf.String()
			if !strings.Contains(out, tt.wantMsg) {
				t.Errorf("log %q does not contain %q", out, tt.wantMsg)
			}
			if strings.Contains(out, "supersecret") {
				t.Errorf("log leaked credential: %q", out)
			}
		})
	}
}

func TestValidator_Enabled(t *testing.T) {
	if NewValidator(Config{}).Enabled() {
		t.Error("validator without secrets should be disabled")
	}
	if !NewValidator(Config{APIKey: "K"}).Enabled() {
		t.Error("validator with api key should be enabled")
	}
	if !NewValidator(Config{JWTSecret: "S"}).Enabled() {
		t.Error("validator with jwt secret should be enabled")
	}
}

func TestDecision_String(t *testing.T) {
	tests := map[Decision]string{Accept: "accept", Reject: "reject", Bypass: "bypass"}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", d, got, want)
		}
	}
}
