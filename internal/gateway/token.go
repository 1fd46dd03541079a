package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the bearer credential attached to every backend call.
// The credential is owned by the authentication collaborator; the gateway
// only asks for it, immediately before each call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed credential.
type StaticTokenSource string

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

type credentialKey struct{}

// WithCredential stows a per-request credential in the context. The command
// surface uses this to forward the caller's own bearer token to the backend.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey{}, token)
}

func CredentialFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(credentialKey{}).(string)
	return tok
}

// ContextTokenSource prefers the credential carried by the call's context and
// falls back to an underlying source when there is none.
type ContextTokenSource struct {
	Fallback TokenSource
}

func (c ContextTokenSource) Token(ctx context.Context) (string, error) {
	if tok := CredentialFromContext(ctx); tok != "" {
		return tok, nil
	}
	if c.Fallback == nil {
		return "", nil
	}
	return c.Fallback.Token(ctx)
}

// RefreshingTokenSource caches a credential and re-invokes the refresh
// callback whenever the cached JWT has expired. Non-JWT credentials are
// treated as never expiring.
type RefreshingTokenSource struct {
	Refresh func(ctx context.Context) (string, error)

	mu      sync.Mutex
	current string
}

func (r *RefreshingTokenSource) Token(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != "" && !CredentialExpired(r.current) {
		return r.current, nil
	}

	tok, err := r.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh credential: %w", err)
	}
	r.current = tok
	return tok, nil
}

// CredentialExpired reports whether raw is a JWT whose exp claim has passed.
// Verification is the backend's job; we only screen the expiry so obviously
// dead tokens are replaced before a call is wasted on them.
func CredentialExpired(raw string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
