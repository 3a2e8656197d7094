package http

import (
	"crypto/rand"
	"crypto/sha256"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/yanqian/faq-admin/internal/infra/config"
)

const sessionIDKey = "sid"

// sessionCookies binds a browser to its dashboard session id through a signed cookie.
type sessionCookies struct {
	store *sessions.CookieStore
	name  string
}

func newSessionCookies(cfg config.SessionConfig, logger *slog.Logger) *sessionCookies {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		logger.Warn("session.secret not set, using a random key; sessions will not survive restarts")
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
	}
	key := sha256.Sum256(secret)
	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionCookies{store: store, name: cfg.CookieName}
}

// id returns the session id carried by the request, issuing a new one when the
// cookie is absent or cannot be verified.
func (s *sessionCookies) id(c *gin.Context) (string, error) {
	sess, _ := s.store.Get(c.Request, s.name)
	if id, ok := sess.Values[sessionIDKey].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[sessionIDKey] = id
	if err := sess.Save(c.Request, c.Writer); err != nil {
		return "", err
	}
	return id, nil
}
