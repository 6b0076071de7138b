package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type dbtx interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

type RepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateRepository(db *sqlx.DB) Repository {
	return &RepositoryImpl{
		db: db,
	}
}

func (r *RepositoryImpl) conn() dbtx {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) (err error) {
	// Déjà dans une transaction : on la réutilise.
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		log.Error().Err(err).Str("component", "HandleTrx").Msg("")
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Str("component", "HandleTrx").Msg("rollback")
			}
		} else {
			err = errors.Wrap(tx.Commit(), "commit transaction")
		}
	}()

	txRepo := &RepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, txRepo)
	return err
}
