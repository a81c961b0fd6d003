package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/gomfa/internal/pkg/goerror"
	"github.com/shandysiswandi/gomfa/internal/pkg/jwt"
	"github.com/shandysiswandi/gomfa/internal/pkg/lock"
	"github.com/shandysiswandi/gomfa/internal/pkg/mfa"
	"github.com/shandysiswandi/gomfa/internal/shared/event"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

// encryptionKeySize is the AES-256 key length the feature gate requires.
const encryptionKeySize = 32

// guard is one predicate in an operation's ordered guard chain. The first
// guard to fail decides the operation's error; later guards never run.
type guard func(ctx context.Context) error

// runGuards evaluates guards in order, short-circuiting on the first failure.
func runGuards(ctx context.Context, guards ...guard) error {
	for _, g := range guards {
		if err := g(ctx); err != nil {
			return err
		}
	}
	return nil
}

// guardFeature checks the feature gate: two-factor is available only when a
// full-size encryption key is provisioned. The live config is consulted on
// every call so a hot-reloaded key takes effect without restart.
func (s *Usecase) guardFeature() guard {
	return func(ctx context.Context) error {
		key := s.cfg.GetBinary("mfa.encryption_key")
		if len(key) != encryptionKeySize {
			slog.WarnContext(ctx, "two-factor feature gate is off: encryption key not provisioned")
			return goerror.NewBusiness("two-factor authentication is not available", goerror.CodeForbidden)
		}
		return nil
	}
}

func (s *Usecase) guardCredentialState(cred *entity.Credential, allowed ...entity.CredentialState) guard {
	return func(ctx context.Context) error {
		state := entity.CredentialStateDisabled
		if cred != nil {
			state = cred.State.Ensure()
		}

		for _, a := range allowed {
			if state == a {
				return nil
			}
		}

		if state == entity.CredentialStateEnabled {
			return goerror.NewBusiness("two-factor authentication is already enabled", goerror.CodeConflict)
		}
		return goerror.NewBusiness("two-factor authentication is not enabled", goerror.CodeConflict)
	}
}

// guardOTP authenticates a submitted code against the credential: a valid
// TOTP code for the current time window, or an unused backup code. Matching
// is pure; the matched backup code (if any) is recorded on matched for the
// caller to consume after every guard has passed.
func (s *Usecase) guardOTP(cred *entity.Credential, code string, matched *entity.BackupCode) guard {
	return func(ctx context.Context) error {
		secret, err := s.mfaEncryptor.Decrypt(cred.Secret, mfa.Scope{
			UserID:  cred.UserID,
			Purpose: mfa.PurposeOTPSeed,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to decrypt totp secret", "user_id", cred.UserID, "error", err)
			return goerror.NewServer(err)
		}

		if s.totp.Validate(code, string(secret), s.clock.Now()) {
			return nil
		}

		codes, err := s.repoDB.GetBackupCodes(ctx, cred.UserID)
		if err != nil && !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get backup codes", "user_id", cred.UserID, "error", err)
			return goerror.NewServer(err)
		}

		for i := range codes {
			if codes[i].Used {
				continue
			}
			if s.argon2id.Verify(codes[i].CodeHash, code) {
				if matched != nil {
					*matched = codes[i]
				}
				return nil
			}
		}

		slog.WarnContext(ctx, "invalid two-factor code submitted", "user_id", cred.UserID)
		return goerror.NewBusiness("invalid two-factor authentication code", goerror.CodeUnauthorized)
	}
}

// guardPassword re-authenticates the user with their account password.
func (s *Usecase) guardPassword(user *entity.UserCredentialInfo, password string) guard {
	return func(ctx context.Context) error {
		if !s.bcrypt.Verify(user.Password, password) {
			slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
			return goerror.NewBusiness("invalid password", goerror.CodeUnauthorized)
		}
		return nil
	}
}

// authenticatedUser resolves the caller from the JWT claims and loads the
// user row, rejecting accounts that are not active.
func (s *Usecase) authenticatedUser(ctx context.Context) (*entity.UserCredentialInfo, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserCredentialInfo(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.UserID)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if user.Status.Ensure() != entity.UserStatusActive {
		slog.WarnContext(ctx, "user account is not active", "user_id", user.ID, "status", user.Status.String())
		return nil, goerror.NewBusiness("account is not active", goerror.CodeForbidden)
	}

	return user, nil
}

// loadCredential fetches the user's credential, mapping absence to nil.
func (s *Usecase) loadCredential(ctx context.Context, userID int64) (*entity.Credential, error) {
	cred, err := s.repoDB.GetCredential(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get credential", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}
	return cred, nil
}

// withAccountLock serializes the mutating lifecycle operations per account.
func (s *Usecase) withAccountLock(ctx context.Context, userID int64, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("twofactor:%d", userID)

	token, err := s.locker.Acquire(ctx, key, s.lockTTL())
	if errors.Is(err, lock.ErrNotAcquired) {
		slog.WarnContext(ctx, "two-factor operation already in progress", "user_id", userID)
		return goerror.NewBusiness("another two-factor operation is in progress", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire account lock", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	defer func() {
		if rerr := s.locker.Release(ctx, key, token); rerr != nil {
			slog.WarnContext(ctx, "failed to release account lock", "user_id", userID, "error", rerr)
		}
	}()

	return fn(ctx)
}

// consumeBackupCode marks a matched backup code as used and emits the
// corresponding event. Called only after every guard has passed.
func (s *Usecase) consumeBackupCode(ctx context.Context, matched entity.BackupCode) error {
	ok, err := s.repoDB.MarkBackupCodeUsed(ctx, matched.ID, matched.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark backup code used", "user_id", matched.UserID, "error", err)
		return goerror.NewServer(err)
	}
	if !ok {
		// lost the race with a concurrent consumption of the same code
		slog.WarnContext(ctx, "backup code already consumed", "user_id", matched.UserID)
		return goerror.NewBusiness("invalid two-factor authentication code", goerror.CodeUnauthorized)
	}

	s.publishBackupCodeUsed(ctx, matched.UserID)
	return nil
}

func (s *Usecase) publishBackupCodeUsed(ctx context.Context, userID int64) {
	remaining := 0
	codes, err := s.repoDB.GetBackupCodes(ctx, userID)
	if err == nil {
		for i := range codes {
			if !codes[i].Used {
				remaining++
			}
		}
	}

	s.publish(ctx, "twofactor.backup_code_used", func(ctx context.Context) error {
		return s.repoMessaging.PublishTwoFactorBackupCodeUsed(ctx, event.TwoFactorBackupCodeUsed{
			UserID:    userID,
			Remaining: remaining,
		})
	})
}

// publish runs the event publication in the background; failures are logged
// and never surfaced to the caller.
func (s *Usecase) publish(ctx context.Context, name string, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	s.goroutine.Go(name, func() error {
		if err := fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to publish lifecycle event", "event", name, "error", err)
		}
		return nil
	})
}
