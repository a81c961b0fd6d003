package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gomfa/internal/pkg/goerror"
	"github.com/shandysiswandi/gomfa/internal/shared/event"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

type DisableInput struct {
	OtpCode  string `validate:"required,mfa_code"`
	Password string `validate:"required,password"`
}

// Disable tears two-factor down: the credential and every backup code are
// destroyed together. The caller must present a valid code and their
// password; any guard failure leaves the enrollment untouched.
func (s *Usecase) Disable(ctx context.Context, in DisableInput) error {
	ctx, span := s.startSpan(ctx, "Disable")
	defer span.End()

	// the feature gate outranks everything, including input shape
	if err := runGuards(ctx, s.guardFeature()); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.authenticatedUser(ctx)
	if err != nil {
		return err
	}

	err = s.withAccountLock(ctx, user.ID, func(ctx context.Context) error {
		cred, lerr := s.loadCredential(ctx, user.ID)
		if lerr != nil {
			return lerr
		}

		// no backup code consumption here: on success the entire code set
		// is destroyed with the credential
		if gerr := runGuards(ctx,
			s.guardCredentialState(cred,
				entity.CredentialStatePendingActivation,
				entity.CredentialStateEnabled,
			),
			s.guardOTP(cred, in.OtpCode, nil),
			s.guardPassword(user, in.Password),
		); gerr != nil {
			return gerr
		}

		if derr := s.repoDB.DestroyCredential(ctx, user.ID); derr != nil {
			slog.ErrorContext(ctx, "failed to repo destroy credential", "user_id", user.ID, "error", derr)
			return goerror.NewServer(derr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, "twofactor.disabled", func(ctx context.Context) error {
		return s.repoMessaging.PublishTwoFactorDisabled(ctx, event.TwoFactorDisabled{
			UserID: user.ID,
			Email:  user.Email,
		})
	})

	return nil
}
