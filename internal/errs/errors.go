package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInternalServer      = errors.New("Erreur interne du serveur")
	ErrValidation          = errors.New("Données invalides")
	ErrUnauthorized        = errors.New("Non authentifié")
	ErrForbidden           = errors.New("Accès refusé")
	ErrNotFound            = errors.New("Ressource introuvable")
	ErrInsufficientStock   = errors.New("Stock insuffisant")
	ErrEmptyCart           = errors.New("Votre panier est vide")
	ErrConstraintViolation = errors.New("Opération refusée : contrainte d'intégrité")
	ErrInvalidTransition   = errors.New("Changement de statut non autorisé")
	ErrCheckoutFailed      = errors.New("La commande n'a pas pu être enregistrée")
	ErrConflict            = errors.New("Conflit avec une ressource existante")
	ErrTooManyRequests     = errors.New("Trop de requêtes, réessayez dans un instant")
)

var errorMap = map[error]int{
	ErrInternalServer:      http.StatusInternalServerError,
	ErrValidation:          http.StatusBadRequest,
	ErrUnauthorized:        http.StatusUnauthorized,
	ErrForbidden:           http.StatusForbidden,
	ErrNotFound:            http.StatusNotFound,
	ErrInsufficientStock:   http.StatusConflict,
	ErrEmptyCart:           http.StatusUnprocessableEntity,
	ErrConstraintViolation: http.StatusConflict,
	ErrInvalidTransition:   http.StatusUnprocessableEntity,
	ErrCheckoutFailed:      http.StatusInternalServerError,
	ErrConflict:            http.StatusConflict,
	ErrTooManyRequests:     http.StatusTooManyRequests,
}

// GetErrorStatusCode retrouve le code HTTP d'une erreur, même enveloppée.
func GetErrorStatusCode(err error) int {
	for target, code := range errorMap {
		if errors.Is(err, target) {
			return code
		}
	}
	return http.StatusInternalServerError
}

// StockError nomme le produit en rupture.
type StockError struct {
	ProductID int64
	Product   string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Stock insuffisant pour %s. Disponible : %d", e.Product, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

func InsufficientStock(id int64, name string, available, requested int) error {
	return &StockError{ProductID: id, Product: name, Available: available, Requested: requested}
}

// ruleError porte un message destiné au client et la catégorie d'erreur.
type ruleError struct {
	msg  string
	kind error
}

func (e *ruleError) Error() string { return e.msg }
func (e *ruleError) Unwrap() error { return e.kind }

// Rule crée une erreur métier de type kind avec un message explicite.
func Rule(kind error, format string, args ...any) error {
	return &ruleError{msg: fmt.Sprintf(format, args...), kind: kind}
}

func Validation(format string, args ...any) error {
	return Rule(ErrValidation, format, args...)
}

// Public renvoie un message sûr à exposer au client.
func Public(err error) string {
	var stockErr *StockError
	if errors.As(err, &stockErr) {
		return stockErr.Error()
	}
	var rule *ruleError
	if errors.As(err, &rule) {
		return rule.msg
	}
	for target, code := range errorMap {
		if errors.Is(err, target) && code < http.StatusInternalServerError {
			return target.Error()
		}
	}
	if errors.Is(err, ErrCheckoutFailed) {
		return ErrCheckoutFailed.Error()
	}
	return ErrInternalServer.Error()
}
