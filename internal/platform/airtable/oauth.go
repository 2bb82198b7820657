package airtable

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/oauth2"

	cfgpkg "github.com/dasgroupllc/archivebase/pkg/config"
	"github.com/dasgroupllc/archivebase/pkg/tool"
)

// Endpoint is Airtable's OAuth2 endpoint pair. Airtable wants client
// credentials in the Authorization header on the token exchange.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://airtable.com/oauth2/v1/authorize",
	TokenURL:  "https://airtable.com/oauth2/v1/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// Scopes the archiving extension needs.
var Scopes = []string{
	"data.records:read",
	"data.records:write",
	"schema.bases:read",
	"user.email:read",
}

// ErrInvalidState means the state token was never issued, already used,
// or older than StateTTL.
var ErrInvalidState = errors.New("invalid or expired oauth state")

// OAuth drives the authorization-code + PKCE flow against Airtable.
type OAuth struct {
	cfg    *oauth2.Config
	states *StateStore
}

func NewOAuth(cfg *cfgpkg.Config, states *StateStore) *OAuth {
	redirect := cfg.Airtable.RedirectURI
	if redirect == "" {
		redirect = strings.TrimSuffix(cfg.AppURL, "/") + "/api/auth/callback"
	}
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     cfg.Airtable.ClientID,
			ClientSecret: cfg.Airtable.ClientSecret,
			Endpoint:     Endpoint,
			RedirectURL:  redirect,
			Scopes:       Scopes,
		},
		states: states,
	}
}

// AuthorizationURL creates a fresh PKCE verifier and CSRF state, stores
// the verifier server-side and returns the provider URL to redirect to.
func (o *OAuth) AuthorizationURL() string {
	verifier := oauth2.GenerateVerifier()
	state := tool.GenerateStateToken()
	o.states.Save(state, verifier)
	return o.cfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange consumes the state token and trades the authorization code for
// tokens. The state is single-use: retrying a callback fails.
func (o *OAuth) Exchange(ctx context.Context, code, state string) (*oauth2.Token, error) {
	verifier, ok := o.states.Consume(state)
	if !ok {
		return nil, ErrInvalidState
	}
	return o.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
}
