package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

// ActivateCredential flips the credential to Enabled with an optimistic
// check on version. It returns false when no row matched, which means a
// concurrent request already changed the credential.
func (s *DB) ActivateCredential(ctx context.Context, userID, version int64, updatedAt time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ActivateCredential")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE twofactor_credentials
		SET state = $1, version = version + 1, updated_at = $2
		WHERE user_id = $3 AND version = $4 AND state IN ($5, $6)`

	tag, err := s.conn.Exec(ctx, query,
		entity.CredentialStateEnabled, updatedAt.UTC(), userID, version,
		entity.CredentialStatePendingActivation, entity.CredentialStateEnabled,
	)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkBackupCodeUsed flips used false→true exactly once. A false return
// means the code was already consumed by a concurrent request.
func (s *DB) MarkBackupCodeUsed(ctx context.Context, codeID, userID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkBackupCodeUsed")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE twofactor_backup_codes
		SET used = TRUE
		WHERE id = $1 AND user_id = $2 AND used = FALSE`

	tag, err := s.conn.Exec(ctx, query, codeID, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

// ReplaceBackupCodes swaps the entire backup code set in one transaction.
func (s *DB) ReplaceBackupCodes(ctx context.Context, userID int64, codes []entity.BackupCode) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceBackupCodes")
	defer func() { s.endSpan(span, err) }()

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if _, txErr := tx.Exec(ctx,
			`DELETE FROM twofactor_backup_codes WHERE user_id = $1`, userID,
		); txErr != nil {
			return txErr
		}

		return insertBackupCodes(ctx, tx, codes)
	})

	return s.mapError(err)
}
