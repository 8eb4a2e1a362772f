// Package auth verifies Auth0-issued bearer tokens for the HTTP
// transport.
//
// This is boundary glue only: token verification gates every HTTP
// tool call, but the tool layer itself never sees identity. Tokens
// are RS256 JWTs validated against the tenant's JWKS, with issuer,
// audience, expiry and scope checks.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"

	"websmith/internal/log"
)

// RequiredScopes is the fixed scope set every caller must hold.
var RequiredScopes = []string{"openid", "profile", "email", "address", "phone"}

// jwksRefreshInterval is the minimum interval between JWKS refetches.
const jwksRefreshInterval = 15 * time.Minute

// Config describes the identity provider.
type Config struct {
	// Domain is the Auth0 tenant domain, e.g. "example.us.auth0.com".
	Domain string

	// Audience is the resource server URL the token must be issued for.
	Audience string

	// Issuer and JWKSURL are derived from Domain when empty. Set them
	// explicitly only for a non-Auth0 issuer or in tests.
	Issuer  string
	JWKSURL string
}

// Verifier validates bearer tokens against a cached JWKS.
type Verifier struct {
	issuer   string
	audience string
	jwksURL  string
	cache    *jwk.Cache
	logger   log.Logger
}

// NewVerifier creates a Verifier and registers the JWKS endpoint with
// a refreshing cache. The ctx bounds the cache's background refresh
// goroutine; cancel it on shutdown.
func NewVerifier(ctx context.Context, cfg Config, logger log.Logger) (*Verifier, error) {
	if cfg.Domain == "" && (cfg.Issuer == "" || cfg.JWKSURL == "") {
		return nil, fmt.Errorf("auth0 domain is required")
	}
	if cfg.Audience == "" {
		return nil, fmt.Errorf("audience is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "https://" + cfg.Domain + "/"
	}
	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = "https://" + cfg.Domain + "/.well-known/jwks.json"
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(jwksRefreshInterval)); err != nil {
		return nil, fmt.Errorf("registering JWKS endpoint: %w", err)
	}

	return &Verifier{
		issuer:   issuer,
		audience: cfg.Audience,
		jwksURL:  jwksURL,
		cache:    cache,
		logger:   logger,
	}, nil
}

// Verify implements the SDK's TokenVerifier signature. Invalid tokens
// are wrapped with auth.ErrInvalidToken so the bearer middleware
// answers 401 rather than 500.
func (v *Verifier) Verify(ctx context.Context, token string, _ *http.Request) (*sdkauth.TokenInfo, error) {
	keys, err := v.cache.Get(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("fetching JWKS: %w", err)
	}

	tok, err := jwt.Parse([]byte(token),
		jwt.WithKeySet(keys),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		v.logger.Debug("token rejected", "error", err)
		return nil, fmt.Errorf("%w: %v", sdkauth.ErrInvalidToken, err)
	}

	return &sdkauth.TokenInfo{
		Scopes:     tokenScopes(tok),
		Expiration: tok.Expiration(),
	}, nil
}

// tokenScopes splits the OAuth2 space-separated "scope" claim.
func tokenScopes(tok jwt.Token) []string {
	raw, ok := tok.Get("scope")
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	return strings.Fields(s)
}
