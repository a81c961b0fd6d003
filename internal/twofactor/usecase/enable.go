package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gomfa/internal/pkg/goerror"
	"github.com/shandysiswandi/gomfa/internal/pkg/mfa"
	"github.com/shandysiswandi/gomfa/internal/shared/event"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

type EnableOutput struct {
	Secret          string
	ProvisioningURI string
	BackupCodes     []string
}

// Enable begins two-factor enrollment: it provisions a TOTP secret and a
// fresh backup code set and moves the credential to PendingActivation. The
// plaintext secret, otpauth URI and backup codes are returned exactly once.
func (s *Usecase) Enable(ctx context.Context) (out *EnableOutput, err error) {
	ctx, span := s.startSpan(ctx, "Enable")
	defer span.End()

	user, err := s.authenticatedUser(ctx)
	if err != nil {
		return nil, err
	}

	err = s.withAccountLock(ctx, user.ID, func(ctx context.Context) error {
		cred, lerr := s.loadCredential(ctx, user.ID)
		if lerr != nil {
			return lerr
		}

		if gerr := runGuards(ctx,
			s.guardFeature(),
			s.guardEnableState(cred),
		); gerr != nil {
			return gerr
		}

		out, lerr = s.provisionCredential(ctx, user)
		return lerr
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "twofactor.enabled", func(ctx context.Context) error {
		return s.repoMessaging.PublishTwoFactorEnabled(ctx, event.TwoFactorEnabled{
			UserID: user.ID,
			Email:  user.Email,
		})
	})

	return out, nil
}

// guardEnableState allows enrollment only when no credential exists yet.
func (s *Usecase) guardEnableState(cred *entity.Credential) guard {
	return func(ctx context.Context) error {
		if cred == nil || cred.State.Ensure() == entity.CredentialStateDisabled {
			return nil
		}
		return goerror.NewBusiness("two-factor authentication is already enabled", goerror.CodeConflict)
	}
}

func (s *Usecase) provisionCredential(ctx context.Context, user *entity.UserCredentialInfo) (*EnableOutput, error) {
	secret, uri, err := s.totp.Generate(user.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	encryptedSecret, err := s.mfaEncryptor.Encrypt([]byte(secret), mfa.Scope{
		UserID:  user.ID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt totp secret", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	plainCodes, hashedCodes, err := s.generateBackupCodes(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	cred := entity.Credential{
		UserID:     user.ID,
		State:      entity.CredentialStatePendingActivation,
		Secret:     encryptedSecret,
		KeyVersion: 1,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.repoDB.NewCredential(ctx, cred, hashedCodes)
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("two-factor authentication is already enabled", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo new credential", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &EnableOutput{
		Secret:          secret,
		ProvisioningURI: uri,
		BackupCodes:     plainCodes,
	}, nil
}

// generateBackupCodes produces a fresh plaintext code set plus its argon2id
// hashes for storage.
func (s *Usecase) generateBackupCodes(ctx context.Context, userID int64) ([]string, []entity.BackupCode, error) {
	plainCodes, err := s.mfaRecovery.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate recovery codes", "user_id", userID, "error", err)
		return nil, nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	hashedCodes := make([]entity.BackupCode, 0, len(plainCodes))
	for _, code := range plainCodes {
		h, herr := s.argon2id.Hash(code)
		if herr != nil {
			slog.ErrorContext(ctx, "failed to hash recovery code", "user_id", userID, "error", herr)
			return nil, nil, goerror.NewServer(herr)
		}

		hashedCodes = append(hashedCodes, entity.BackupCode{
			ID:        s.uid.Generate(),
			UserID:    userID,
			CodeHash:  string(h),
			CreatedAt: now,
		})
	}

	return plainCodes, hashedCodes, nil
}
