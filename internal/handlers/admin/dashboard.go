package admin

import (
	"net/http"

	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
)

// 📊 GET /api/admin/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.catalog.Dashboard(c.Request.Context())
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	response.WriteSuccess(c, http.StatusOK, "Tableau de bord", dashboard)
}
