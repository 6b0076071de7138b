package response

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"storefront_back_end/internal/errs"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

type DataWithPagination struct {
	Data       any `json:"data"`
	Pagination any `json:"pagination"`
}

func init() {
	// les erreurs de validation remontent le nom JSON des champs
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func WriteSuccess(c *gin.Context, code int, message string, data any) {
	c.JSON(code, SuccessResponse{Status: "success", Message: message, Data: data})
}

// WriteError choisit le code HTTP d'après la catégorie d'erreur ; seules les
// erreurs 5xx sont journalisées avec leur détail.
func WriteError(c *gin.Context, err error, details any) {
	code := errs.GetErrorStatusCode(err)
	if code >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("❌ Erreur serveur")
	}
	c.JSON(code, ErrorResponse{Status: "error", Message: errs.Public(err), Errors: details})
}

func Abort(c *gin.Context, err error) {
	WriteError(c, err, nil)
	c.Abort()
}

// WriteBindingError traduit une erreur de binding gin en 400 avec le détail par champ.
func WriteBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, ValidationError{Field: fe.Field(), Tag: fe.Tag()})
		}
		WriteError(c, errs.ErrValidation, fields)
		return
	}
	WriteError(c, errs.Validation("Corps de requête invalide"), nil)
}
