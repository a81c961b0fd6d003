package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// DestroyCredential removes the credential and every backup code in one
// transaction so a disable can never leave orphaned codes behind.
func (s *DB) DestroyCredential(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "DestroyCredential")
	defer func() { s.endSpan(span, err) }()

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if _, txErr := tx.Exec(ctx,
			`DELETE FROM twofactor_backup_codes WHERE user_id = $1`, userID,
		); txErr != nil {
			return txErr
		}

		_, txErr := tx.Exec(ctx,
			`DELETE FROM twofactor_credentials WHERE user_id = $1`, userID)
		return txErr
	})

	return s.mapError(err)
}
