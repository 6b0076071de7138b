package admin

import (
	"net/http"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
)

var imageFolders = map[string]bool{"products": true, "categories": true}

// === POST /api/admin/images === (multipart : image, folder=products|categories)
func (h *Handler) UploadImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Status: "error", Message: "Stockage d'images indisponible"})
		return
	}

	folder := c.DefaultPostForm("folder", "products")
	if !imageFolders[folder] {
		response.WriteError(c, errs.Validation("Dossier inconnu : %s", folder), nil)
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.WriteError(c, errs.Validation("Aucun fichier reçu"), nil)
		return
	}

	key, err := h.images.Upload(c.Request.Context(), folder, fileHeader)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}
	url, err := h.images.SignedURL(c.Request.Context(), key)
	if err != nil {
		response.WriteError(c, err, nil)
		return
	}

	c.Set(middleware.AuditResourceIDKey, key)
	response.WriteSuccess(c, http.StatusCreated, "Image uploadée", gin.H{"image": key, "image_url": url})
}
