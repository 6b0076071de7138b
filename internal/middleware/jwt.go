package middleware

import (
	"strings"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/response"
	"storefront_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthRequired valide le bearer token et place user_id, email, name et role dans le contexte gin.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			// le navigateur ne peut pas poser d'en-tête sur un WebSocket
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			response.Abort(c, errs.Rule(errs.ErrUnauthorized, "Token manquant"))
			return
		}

		claims, err := utils.ParseJWT(secret, tokenString)
		if err != nil {
			log.Ctx(c.Request.Context()).Debug().Err(err).Msg("❌ JWT refusé")
			response.Abort(c, errs.Rule(errs.ErrUnauthorized, "Token invalide"))
			return
		}

		role := claims.Role
		if role == "" {
			role = models.RoleUser
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Set("role", role)

		logger := log.Ctx(c.Request.Context()).With().Str("user_id", claims.UserID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// CurrentCustomer reconstruit l'acheteur à partir des claims.
func CurrentCustomer(c *gin.Context) models.Customer {
	return models.Customer{
		ID:    c.GetString("user_id"),
		Email: c.GetString("email"),
		Name:  c.GetString("name"),
	}
}
