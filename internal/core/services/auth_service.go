package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"

	"github.com/custodia-labs/planner-api/internal/core/domain"
	"github.com/custodia-labs/planner-api/internal/core/ports/driven"
	"github.com/custodia-labs/planner-api/internal/core/ports/driving"
	"github.com/custodia-labs/planner-api/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// errNoCode is sent to the front-end when the callback carries no code.
const errNoCode = "no_code"

var (
	errStateMissing  = errors.New("state or state cookie missing")
	errStateMismatch = errors.New("state does not match cookie")
)

// AuthService runs the authorization-code sign-in. Every outcome is a
// redirect to the front-end callback page.
type AuthService struct {
	provider    driven.IdentityProvider
	states      driven.StateIssuer
	callbackURL string
}

// NewAuthService creates an AuthService. frontendCallbackURL is where the
// browser lands with either token or error in the query.
func NewAuthService(
	provider driven.IdentityProvider,
	states driven.StateIssuer,
	frontendCallbackURL string,
) *AuthService {
	return &AuthService{
		provider:    provider,
		states:      states,
		callbackURL: frontendCallbackURL,
	}
}

// BeginLogin returns the authorize URL for a new login attempt.
func (s *AuthService) BeginLogin() domain.LoginRedirect {
	state, err := s.states.Generate()
	if err != nil {
		logger.Error("auth: generate state: %v", err)
		return domain.LoginRedirect{URL: s.frontend("error", domain.KindInternal.PublicMessage())}
	}

	return domain.LoginRedirect{
		URL:   s.provider.AuthCodeURL(state),
		State: state,
	}
}

// CompleteLogin redeems the callback code and returns the front-end URL.
// The state is checked only after a code is present.
func (s *AuthService) CompleteLogin(ctx context.Context, params domain.CallbackParams) string {
	if params.ProviderError != "" {
		logger.Warn("auth: provider returned %s: %s", params.ProviderError, params.ProviderErrorDescription)
	}

	if params.Code == "" {
		return s.frontend("error", errNoCode)
	}

	if err := s.checkState(params); err != nil {
		logger.Warn("auth: rejecting callback: %v", err)
		return s.frontend("error", domain.PublicMessage(err))
	}

	result, err := s.provider.ExchangeCode(ctx, params.Code)
	if err != nil {
		logger.Warn("auth: %v", err)
		return s.frontend("error", domain.PublicMessage(err))
	}

	logger.Debug("auth: token acquired, expires in %ds", result.ExpiresIn)
	return s.frontend("token", result.AccessToken)
}

// checkState requires the query state to match the cookie and verify.
func (s *AuthService) checkState(params domain.CallbackParams) error {
	const op = "check state"

	if params.State == "" || params.CookieState == "" {
		return domain.NewError(domain.KindInvalidState, op, errStateMissing)
	}
	if subtle.ConstantTimeCompare([]byte(params.State), []byte(params.CookieState)) != 1 {
		return domain.NewError(domain.KindInvalidState, op, errStateMismatch)
	}
	if err := s.states.Validate(params.State); err != nil {
		return domain.NewError(domain.KindInvalidState, op, err)
	}
	return nil
}

// frontend builds the front-end callback URL with one query parameter.
func (s *AuthService) frontend(key, value string) string {
	return s.callbackURL + "?" + url.Values{key: {value}}.Encode()
}
