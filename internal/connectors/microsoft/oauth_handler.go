package microsoft

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	msendpoints "golang.org/x/oauth2/microsoft"

	"github.com/custodia-labs/planner-api/internal/core/domain"
	"github.com/custodia-labs/planner-api/internal/core/ports/driven"
)

// Ensure OAuthHandler implements the interface.
var _ driven.IdentityProvider = (*OAuthHandler)(nil)

// OAuthConfig holds Entra ID application settings.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	// RedirectURL is this service's registered callback.
	RedirectURL string
	Scopes      []string
	// AuthURL and TokenURL override the tenant endpoints (for testing).
	AuthURL  string
	TokenURL string
}

// OAuthHandler implements the authorization-code flow against Entra ID.
// It holds no token cache; every exchange is independent.
type OAuthHandler struct {
	oauth      *oauth2.Config
	httpClient *http.Client
}

// NewOAuthHandler creates a new Microsoft OAuth handler.
func NewOAuthHandler(cfg OAuthConfig) *OAuthHandler {
	endpoint := msendpoints.AzureADEndpoint(cfg.TenantID)
	// client_secret_post. Auto-detection would resend a rejected code.
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	scopes := make([]string, len(cfg.Scopes))
	copy(scopes, cfg.Scopes)

	return &OAuthHandler{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
		},
		httpClient: NewHTTPClient(),
	}
}

// AuthCodeURL constructs the Microsoft OAuth authorization URL.
// Forces the account picker so a cached session cannot pick the wrong account.
func (h *OAuthHandler) AuthCodeURL(state string) string {
	return h.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("prompt", "select_account"),
		// Microsoft-specific: response_mode=query for easier code extraction
		oauth2.SetAuthURLParam("response_mode", "query"),
	)
}

// ExchangeCode exchanges an authorization code for an access token.
// The scopes and redirect URI sent match the authorize request.
func (h *OAuthHandler) ExchangeCode(ctx context.Context, code string) (*domain.TokenResult, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, h.httpClient)

	tok, err := h.oauth.Exchange(ctx, code,
		oauth2.SetAuthURLParam("scope", strings.Join(h.oauth.Scopes, " ")),
	)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, &domain.Error{
				Kind:   domain.KindProviderRejected,
				Op:     "exchange authorization code",
				Detail: re.ErrorDescription,
				Err:    err,
			}
		}
		if strings.Contains(err.Error(), "missing access_token") {
			return nil, domain.NewError(domain.KindProviderRejected, "exchange authorization code", err)
		}
		return nil, domain.NewError(domain.KindTokenExchange, "exchange authorization code", err)
	}

	if tok.AccessToken == "" {
		return nil, domain.NewError(domain.KindProviderRejected, "exchange authorization code",
			errors.New("response has no access token"))
	}

	return &domain.TokenResult{
		AccessToken: tok.AccessToken,
		ExpiresIn:   tok.ExpiresIn,
	}, nil
}

// SetupHint returns guidance for setting up the Entra ID application.
func (h *OAuthHandler) SetupHint() string {
	return "Register the app at portal.azure.com > App registrations and add " +
		h.oauth.RedirectURL + " as a Web redirect URI"
}
