package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const txKey contextKey = "db_tx"

// TxFromContext returns the transaction carried by ctx, or nil.
// Repositories consult this so work enlisted by WithTx shares one transaction.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// WithTx runs fn inside a transaction with the given options. The transaction
// is injected into the context passed to fn; any repository call made with
// that context joins it. Commit on nil error, rollback otherwise.
func WithTx(ctx context.Context, pool *pgxpool.Pool, opts pgx.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Serializable is the isolation used for the booking transaction: the conflict
// check and the appointment insert must not interleave with a concurrent
// overlapping booking.
var Serializable = pgx.TxOptions{IsoLevel: pgx.Serializable}
