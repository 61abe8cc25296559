package api

import (
	"net/http"
	"time"

	"github.com/custodia-labs/planner-api/internal/core/domain"
	"github.com/custodia-labs/planner-api/internal/core/ports/driving"
)

const (
	stateCookieName = "planner_oauth_state"
	callbackPath    = "/api/auth_callback"
)

// stateCookie writes the browser half of the login state.
type stateCookie struct {
	secure bool
	maxAge time.Duration
}

func (c stateCookie) set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     callbackPath,
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		// Lax lets the cookie ride the top-level redirect back from Entra ID.
		SameSite: http.SameSiteLaxMode,
	})
}

func (c stateCookie) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     callbackPath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login handles GET /api/login.
// It redirects the browser to the Entra ID authorize endpoint.
func Login(auth driving.AuthService, cookies stateCookie) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirect := auth.BeginLogin()
		if redirect.State != "" {
			cookies.set(w, redirect.State)
		}
		http.Redirect(w, r, redirect.URL, http.StatusFound)
	}
}

// Callback handles GET /api/auth_callback.
// It always answers with a single redirect to the front-end.
func Callback(auth driving.AuthService, cookies stateCookie) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := domain.CallbackParams{
			Code:                     q.Get("code"),
			State:                    q.Get("state"),
			ProviderError:            q.Get("error"),
			ProviderErrorDescription: q.Get("error_description"),
		}
		if c, err := r.Cookie(stateCookieName); err == nil {
			params.CookieState = c.Value
		}

		target := auth.CompleteLogin(r.Context(), params)

		cookies.clear(w)
		http.Redirect(w, r, target, http.StatusFound)
	}
}
