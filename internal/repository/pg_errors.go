package repository

import (
	"database/sql"
	stderrors "errors"

	"storefront_back_end/internal/errs"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
	pqCheckViolation      = "23514"
	pqInvalidText         = "22P02"
)

// translate convertit les erreurs du driver en erreurs métier, en gardant le contexte.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(errs.ErrNotFound, msg)
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return errors.Wrap(errs.ErrConstraintViolation, msg+": "+pqErr.Constraint)
		case pqUniqueViolation:
			return errors.Wrap(errs.ErrConflict, msg+": "+pqErr.Constraint)
		case pqCheckViolation:
			if pqErr.Constraint == "products_stock_check" {
				return errors.Wrap(errs.ErrInsufficientStock, msg)
			}
			return errors.Wrap(errs.ErrValidation, msg+": "+pqErr.Constraint)
		case pqInvalidText:
			return errors.Wrap(errs.ErrValidation, msg)
		}
	}

	return errors.Wrap(err, msg)
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, what)
	}
	if n == 0 {
		return errors.Wrap(errs.ErrNotFound, what)
	}
	return nil
}
