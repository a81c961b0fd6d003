package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

// NewCredential inserts a pending credential plus its backup code set in one
// transaction. The unique user_id constraint turns a concurrent double
// enrollment into goerror.ErrConflict.
func (s *DB) NewCredential(ctx context.Context, cred entity.Credential, codes []entity.BackupCode) (err error) {
	ctx, span := s.startSpan(ctx, "NewCredential")
	defer func() { s.endSpan(span, err) }()

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		const query = `
			INSERT INTO twofactor_credentials
				(user_id, state, secret, key_version, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`

		if _, txErr := tx.Exec(ctx, query,
			cred.UserID, cred.State, cred.Secret, cred.KeyVersion,
			cred.Version, cred.CreatedAt, cred.UpdatedAt,
		); txErr != nil {
			return txErr
		}

		return insertBackupCodes(ctx, tx, codes)
	})

	return s.mapError(err)
}

func insertBackupCodes(ctx context.Context, tx pgx.Tx, codes []entity.BackupCode) error {
	rows := make([][]any, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, []any{code.ID, code.UserID, code.CodeHash, code.Used, code.CreatedAt})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"twofactor_backup_codes"},
		[]string{"id", "user_id", "code_hash", "used", "created_at"},
		pgx.CopyFromRows(rows),
	)
	return err
}
