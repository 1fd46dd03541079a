package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	raw, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return raw
}

func TestCredentialExpired(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"expired jwt", "", true},
		{"valid jwt", "", false},
		{"opaque token is never expired", "some-opaque-api-key", false},
		{"empty token", "", false},
	}
	tests[0].raw = signedToken(t, time.Now().Add(-time.Hour))
	tests[1].raw = signedToken(t, time.Now().Add(time.Hour))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CredentialExpired(tt.raw); got != tt.want {
				t.Errorf("CredentialExpired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContextTokenSource(t *testing.T) {
	ts := ContextTokenSource{Fallback: StaticTokenSource("fallback")}

	tok, err := ts.Token(context.Background())
	if err != nil || tok != "fallback" {
		t.Errorf("Token = %q, %v; want fallback", tok, err)
	}

	ctx := WithCredential(context.Background(), "caller")
	tok, err = ts.Token(ctx)
	if err != nil || tok != "caller" {
		t.Errorf("Token = %q, %v; want the context credential", tok, err)
	}

	bare := ContextTokenSource{}
	tok, err = bare.Token(context.Background())
	if err != nil || tok != "" {
		t.Errorf("Token = %q, %v; want empty with no fallback", tok, err)
	}
}

func TestRefreshingTokenSourceCachesUntilExpiry(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))
	refreshes := 0
	ts := &RefreshingTokenSource{Refresh: func(ctx context.Context) (string, error) {
		refreshes++
		return fresh, nil
	}}

	for i := 0; i < 3; i++ {
		tok, err := ts.Token(context.Background())
		if err != nil || tok != fresh {
			t.Fatalf("Token = %q, %v; want the refreshed credential", tok, err)
		}
	}
	if refreshes != 1 {
		t.Errorf("Refresh ran %d times, want 1 (cached while valid)", refreshes)
	}
}

func TestRefreshingTokenSourceReplacesExpired(t *testing.T) {
	expired := signedToken(t, time.Now().Add(-time.Hour))
	fresh := signedToken(t, time.Now().Add(time.Hour))
	refreshes := 0
	ts := &RefreshingTokenSource{Refresh: func(ctx context.Context) (string, error) {
		refreshes++
		if refreshes == 1 {
			return expired, nil
		}
		return fresh, nil
	}}

	if tok, _ := ts.Token(context.Background()); tok != expired {
		t.Fatalf("Token = %q, want first refresh result", tok)
	}
	if tok, _ := ts.Token(context.Background()); tok != fresh {
		t.Errorf("Token = %q, want replacement for expired credential", tok)
	}
	if refreshes != 2 {
		t.Errorf("Refresh ran %d times, want 2", refreshes)
	}
}
