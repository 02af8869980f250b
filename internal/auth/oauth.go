// Package auth configures the social sign-in providers.
package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"lorve_back_end/internal/config"
	"lorve_back_end/internal/models"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

const sessionMaxAge = 86400 * 30

// CallbackURL is where a provider sends the user back after consent.
func CallbackURL(baseURL, provider string) string {
	return baseURL + "/api/auth/oauth/" + provider + "/callback"
}

// ProviderName reads the provider gothic should use from the query.
func ProviderName(req *http.Request) (string, error) {
	if provider := req.URL.Query().Get("provider"); provider != "" {
		return provider, nil
	}
	return "", errors.New("provider not found")
}

// Setup installs the gothic session store and registers the configured
// providers. It reports whether any provider is enabled.
func Setup(cfg config.Config) bool {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(sessionMaxAge)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.BaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store
	gothic.GetProviderName = ProviderName

	var providers []goth.Provider
	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		providers = append(providers, google.New(
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			CallbackURL(cfg.BaseURL, models.ProviderGoogle),
			"email", "profile",
		))
		log.Println("✅ Google OAuth enabled")
	}

	if len(providers) == 0 {
		log.Println("⚠️ No OAuth provider configured")
		return false
	}
	goth.UseProviders(providers...)
	return true
}
