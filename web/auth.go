package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/dumpersafety/dumperwatch/config"
	"github.com/lucsky/cuid"
	"golang.org/x/crypto/bcrypt"

	log "github.com/sirupsen/logrus"
)

const sessionCookieName = "dumperwatch_session"

/*
authenticator is the stubbed login check for the dashboard. It gates the UI
against casual access on a shared site office machine; it is not a security
boundary and doesn't pretend to be one. A configured bcrypt hash is used
when present, otherwise the plaintext password is compared directly.
*/
type authenticator struct {
	mu       sync.Mutex
	cfg      config.DashboardConfig
	sessions map[string]time.Time
}

func newAuthenticator(cfg config.DashboardConfig) *authenticator {
	return &authenticator{
		cfg:      cfg,
		sessions: map[string]time.Time{},
	}
}

// login validates the credentials and mints a session token on success.
func (a *authenticator) login(username, password string) (string, bool) {
	if username != a.cfg.Username {
		return "", false
	}
	if a.cfg.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(a.cfg.PasswordHash), []byte(password)) != nil {
			return "", false
		}
	} else if password != a.cfg.Password {
		return "", false
	}

	token := cuid.New()
	a.mu.Lock()
	a.sessions[token] = time.Now().UTC()
	a.mu.Unlock()
	return token, true
}

func (a *authenticator) logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

func (a *authenticator) authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	a.mu.Lock()
	_, ok := a.sessions[cookie.Value]
	a.mu.Unlock()
	return ok
}

func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.authenticated(r) {
			log.WithField("path", r.URL.Path).Debug("rejecting unauthenticated request")
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "not logged in"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
