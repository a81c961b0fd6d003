package db

import (
	"context"

	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

func (s *DB) GetUserCredentialInfo(ctx context.Context, id int64) (_ *entity.UserCredentialInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserCredentialInfo")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, email, status, password_hash
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	var user entity.UserCredentialInfo
	err = s.mapError(s.conn.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.Status, &user.Password))
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *DB) GetCredential(ctx context.Context, userID int64) (_ *entity.Credential, err error) {
	ctx, span := s.startSpan(ctx, "GetCredential")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT user_id, state, secret, key_version, version, created_at, updated_at
		FROM twofactor_credentials
		WHERE user_id = $1`

	var cred entity.Credential
	err = s.mapError(s.conn.QueryRow(ctx, query, userID).
		Scan(&cred.UserID, &cred.State, &cred.Secret, &cred.KeyVersion,
			&cred.Version, &cred.CreatedAt, &cred.UpdatedAt))
	if err != nil {
		return nil, err
	}

	return &cred, nil
}

func (s *DB) GetBackupCodes(ctx context.Context, userID int64) (_ []entity.BackupCode, err error) {
	ctx, span := s.startSpan(ctx, "GetBackupCodes")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, code_hash, used, created_at
		FROM twofactor_backup_codes
		WHERE user_id = $1
		ORDER BY id`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var codes []entity.BackupCode
	for rows.Next() {
		var code entity.BackupCode
		if err = rows.Scan(&code.ID, &code.UserID, &code.CodeHash, &code.Used, &code.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		codes = append(codes, code)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return codes, nil
}
