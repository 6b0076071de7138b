package middleware

import (
	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
)

// RequireAdmin vérifie que l'utilisateur a le rôle "admin"
func RequireAdmin(c *gin.Context) {
	if c.GetString("role") != models.RoleAdmin {
		response.Abort(c, errs.Rule(errs.ErrForbidden, "Accès réservé aux administrateurs"))
		return
	}
	c.Next()
}
