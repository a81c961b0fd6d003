package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gomfa/internal/pkg/goerror"
	"github.com/shandysiswandi/gomfa/internal/shared/event"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

type RotateBackupCodesInput struct {
	OtpCode string `validate:"required,mfa_code"`
}

type RotateBackupCodesOutput struct {
	BackupCodes []string
}

// RotateBackupCodes replaces the backup code set with a fresh one. Every
// previously issued code stops working, including the one that authorized
// the rotation.
func (s *Usecase) RotateBackupCodes(ctx context.Context, in RotateBackupCodesInput) (out *RotateBackupCodesOutput, err error) {
	ctx, span := s.startSpan(ctx, "RotateBackupCodes")
	defer span.End()

	// the feature gate outranks everything, including input shape
	if err := runGuards(ctx, s.guardFeature()); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.authenticatedUser(ctx)
	if err != nil {
		return nil, err
	}

	err = s.withAccountLock(ctx, user.ID, func(ctx context.Context) error {
		cred, lerr := s.loadCredential(ctx, user.ID)
		if lerr != nil {
			return lerr
		}

		// the old set is replaced wholesale, so a matched backup code needs
		// no individual consumption
		if gerr := runGuards(ctx,
			s.guardCredentialState(cred, entity.CredentialStateEnabled),
			s.guardOTP(cred, in.OtpCode, nil),
		); gerr != nil {
			return gerr
		}

		plainCodes, hashedCodes, gerr := s.generateBackupCodes(ctx, user.ID)
		if gerr != nil {
			return gerr
		}

		if rerr := s.repoDB.ReplaceBackupCodes(ctx, user.ID, hashedCodes); rerr != nil {
			slog.ErrorContext(ctx, "failed to repo replace backup codes", "user_id", user.ID, "error", rerr)
			return goerror.NewServer(rerr)
		}

		out = &RotateBackupCodesOutput{BackupCodes: plainCodes}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "twofactor.backup_codes_rotated", func(ctx context.Context) error {
		return s.repoMessaging.PublishTwoFactorBackupCodesRotated(ctx, event.TwoFactorBackupCodesRotated{
			UserID: user.ID,
			Count:  len(out.BackupCodes),
		})
	})

	return out, nil
}
