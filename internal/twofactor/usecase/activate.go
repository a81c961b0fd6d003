package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gomfa/internal/pkg/goerror"
	"github.com/shandysiswandi/gomfa/internal/shared/event"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

type ActivateInput struct {
	OtpCode string `validate:"required,mfa_code"`
}

// Activate proves possession of the authenticator and turns the pending
// credential on. Activating an already enabled credential succeeds without
// effect.
func (s *Usecase) Activate(ctx context.Context, in ActivateInput) error {
	ctx, span := s.startSpan(ctx, "Activate")
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

	var activated bool
	err = s.withAccountLock(ctx, user.ID, func(ctx context.Context) error {
		cred, lerr := s.loadCredential(ctx, user.ID)
		if lerr != nil {
			return lerr
		}

		var matched entity.BackupCode
		if gerr := runGuards(ctx,
			s.guardActivateState(cred),
			s.guardOTP(cred, in.OtpCode, &matched),
		); gerr != nil {
			return gerr
		}

		if matched.ID != 0 {
			if cerr := s.consumeBackupCode(ctx, matched); cerr != nil {
				return cerr
			}
		}

		if cred.IsEnabled() {
			return nil
		}

		ok, uerr := s.repoDB.ActivateCredential(ctx, user.ID, cred.Version, s.clock.Now())
		if uerr != nil {
			slog.ErrorContext(ctx, "failed to repo activate credential", "user_id", user.ID, "error", uerr)
			return goerror.NewServer(uerr)
		}
		if !ok {
			// a concurrent request changed the row; re-check the outcome
			fresh, ferr := s.loadCredential(ctx, user.ID)
			if ferr != nil {
				return ferr
			}
			if !fresh.IsEnabled() {
				return goerror.NewBusiness("two-factor authentication is not enabled", goerror.CodeConflict)
			}
			return nil
		}

		activated = true
		return nil
	})
	if err != nil {
		return err
	}

	if activated {
		s.publish(ctx, "twofactor.activated", func(ctx context.Context) error {
			return s.repoMessaging.PublishTwoFactorActivated(ctx, event.TwoFactorActivated{
				UserID: user.ID,
				Email:  user.Email,
			})
		})
	}

	return nil
}

// guardActivateState defers to the credential's own transition rule: a
// pending or enabled credential may take an activation attempt, anything
// else cannot.
func (s *Usecase) guardActivateState(cred *entity.Credential) guard {
	return func(ctx context.Context) error {
		if err := cred.CanActivate(); err != nil {
			return goerror.NewBusiness("two-factor authentication is not enabled", goerror.CodeConflict)
		}
		return nil
	}
}
