// Package usecase implements the guarded two-factor lifecycle operations.
package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/gomfa/internal/pkg/clock"
	"github.com/shandysiswandi/gomfa/internal/pkg/config"
	"github.com/shandysiswandi/gomfa/internal/pkg/goroutine"
	"github.com/shandysiswandi/gomfa/internal/pkg/hash"
	"github.com/shandysiswandi/gomfa/internal/pkg/instrument"
	"github.com/shandysiswandi/gomfa/internal/pkg/lock"
	"github.com/shandysiswandi/gomfa/internal/pkg/mfa"
	"github.com/shandysiswandi/gomfa/internal/pkg/otp"
	"github.com/shandysiswandi/gomfa/internal/pkg/uid"
	"github.com/shandysiswandi/gomfa/internal/pkg/validator"
	"github.com/shandysiswandi/gomfa/internal/shared/event"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetUserCredentialInfo(ctx context.Context, id int64) (*entity.UserCredentialInfo, error)
	GetCredential(ctx context.Context, userID int64) (*entity.Credential, error)
	GetBackupCodes(ctx context.Context, userID int64) ([]entity.BackupCode, error)

	NewCredential(ctx context.Context, cred entity.Credential, codes []entity.BackupCode) error
	ActivateCredential(ctx context.Context, userID, version int64, updatedAt time.Time) (bool, error)
	ReplaceBackupCodes(ctx context.Context, userID int64, codes []entity.BackupCode) error
	MarkBackupCodeUsed(ctx context.Context, codeID, userID int64) (bool, error)
	DestroyCredential(ctx context.Context, userID int64) error
}

type repoMessaging interface {
	PublishTwoFactorEnabled(ctx context.Context, msg event.TwoFactorEnabled) error
	PublishTwoFactorActivated(ctx context.Context, msg event.TwoFactorActivated) error
	PublishTwoFactorDisabled(ctx context.Context, msg event.TwoFactorDisabled) error
	PublishTwoFactorBackupCodeUsed(ctx context.Context, msg event.TwoFactorBackupCodeUsed) error
	PublishTwoFactorBackupCodesRotated(ctx context.Context, msg event.TwoFactorBackupCodesRotated) error
}

// Usecase carries the two-factor lifecycle operations and their
// dependencies.
type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	argon2id      hash.Hash
	mfaEncryptor  mfa.Encryptor
	mfaRecovery   mfa.RecoveryCodeGenerator
	uid           uid.NumberID
	totp          otp.OTP
	clock         clock.Clocker
	locker        lock.Locker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

// Dependency lists everything a Usecase needs; all fields are required.
type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	Argon2ID      hash.Hash
	MFAEncryptor  mfa.Encryptor
	MFARecovery   mfa.RecoveryCodeGenerator
	UID           uid.NumberID
	Totp          otp.OTP
	Clock         clock.Clocker
	Locker        lock.Locker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		argon2id:      dep.Argon2ID,
		mfaEncryptor:  dep.MFAEncryptor,
		mfaRecovery:   dep.MFARecovery,
		uid:           dep.UID,
		totp:          dep.Totp,
		clock:         dep.Clock,
		locker:        dep.Locker,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("twofactor.usecase").Start(ctx, name)
}

func (s *Usecase) lockTTL() time.Duration {
	ttl := s.cfg.GetSecond("modules.twofactor.lock_ttl_seconds")
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return ttl
}
