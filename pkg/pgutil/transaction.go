package pgutil

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions. *pgxpool.Pool and pgxmock satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Tx executes a function within a database transaction. If the function
// returns an error, the transaction is rolled back; otherwise it is
// committed.
//
// This is how multi-row writes stay atomic: bind a Repository to the tx
// and every operation inside fn becomes part of one unit of work.
//
//	err := pgutil.Tx(ctx, pool, func(tx pgx.Tx) error {
//		repo := pgutil.NewRepository[Dialogue](tx)
//		_, err := repo.Insert(ctx, dialogue)
//		return err
//	})
func Tx(ctx context.Context, db Beginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = fn(tx)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
