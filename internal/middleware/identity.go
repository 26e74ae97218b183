package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/auth"
	"github.com/tanmay-j/cliqnotion/internal/identity"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"go.uber.org/zap"
)

const (
	// Header names Cliq sends with widget requests.
	headerUserID      = "X-Cliq-User-Id"
	headerDisplayName = "X-Cliq-Display-Name"
	headerEmail       = "X-Cliq-Email"

	// Demo fallback identity, used when no headers and no token are
	// present — the same behavior the hosted prototype shipped with.
	demoUserID      = "demo-user-001"
	demoDisplayName = "Demo User"

	contextKeyUser = "cliq_user"
)

// Identity returns a middleware that establishes who is calling and
// loads (or creates) their user row before any handler runs.
//
// Identity sources, strongest first:
//  1. A Bearer JWT signed with signingSecret (when configured). The
//     signature is what makes the identity trustworthy.
//  2. The X-Cliq-* headers. Fine for demo deployments where the
//     reverse proxy injects them.
//  3. The demo fallback user.
//
// The resolver handles the first-contact race; by the time a handler
// runs, a durable user row is guaranteed to be in the context.
func Identity(resolver *identity.Resolver, signingSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := identity.Identity{
			CliqUserID:  c.GetHeader(headerUserID),
			DisplayName: c.GetHeader(headerDisplayName),
			Email:       c.GetHeader(headerEmail),
		}

		if signingSecret != "" {
			if tokenString, ok := bearerToken(c); ok {
				claims, err := auth.ParseToken(tokenString, signingSecret)
				if err != nil {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
						"error": "invalid or expired token",
					})
					return
				}
				ident = identity.Identity{
					CliqUserID:  claims.CliqUserID,
					DisplayName: claims.DisplayName,
					Email:       claims.Email,
				}
			}
		}

		if ident.CliqUserID == "" {
			ident.CliqUserID = demoUserID
			if ident.DisplayName == "" {
				ident.DisplayName = demoDisplayName
			}
		}

		user, err := resolver.Resolve(c.Request.Context(), ident)
		if err != nil {
			logger.Error("failed to resolve caller identity",
				zap.String("cliq_user_id", ident.CliqUserID),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to resolve user",
			})
			return
		}

		c.Set(contextKeyUser, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// GetUser pulls the resolved user out of the request context. Handlers
// behind the Identity middleware can rely on a non-nil result.
func GetUser(c *gin.Context) *models.CliqUser {
	val, exists := c.Get(contextKeyUser)
	if !exists {
		return nil
	}
	user, ok := val.(*models.CliqUser)
	if !ok {
		return nil
	}
	return user
}
