package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-admin/internal/domain/auth"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

// authMiddleware requires an admin bearer token when auth is enabled. With auth
// disabled every request runs as "anonymous".
func authMiddleware(svc auth.Service) gin.HandlerFunc {
	if svc == nil || !svc.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="faq-admin"`)
			abortWithError(c, err)
			return
		}
		claims, verr := svc.ValidateToken(c.Request.Context(), token)
		if verr != nil {
			if apperrors.IsCode(verr, "invalid_token") {
				c.Header("WWW-Authenticate", `Bearer realm="faq-admin", error="invalid_token"`)
			}
			abortWithError(c, domainError(verr, "auth_failed"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, *HTTPError) {
	if header == "" {
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil)
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil)
	}
	return token, nil
}
