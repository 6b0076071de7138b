package handlers

import (
	"strconv"

	"storefront_back_end/internal/errs"

	"github.com/gin-gonic/gin"
)

// ParamID lit un identifiant numérique strictement positif dans l'URL.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation("Identifiant invalide : %s", c.Param(name))
	}
	return id, nil
}

func QueryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// QueryInt64 renvoie 0 si le paramètre est absent ou invalide.
func QueryInt64(c *gin.Context, name string) int64 {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
