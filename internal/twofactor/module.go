// Package twofactor wires the two-factor module: inbound HTTP endpoints,
// the lifecycle usecase and its outbound adapters.
package twofactor

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gomfa/internal/pkg/clock"
	"github.com/shandysiswandi/gomfa/internal/pkg/config"
	"github.com/shandysiswandi/gomfa/internal/pkg/goroutine"
	"github.com/shandysiswandi/gomfa/internal/pkg/hash"
	"github.com/shandysiswandi/gomfa/internal/pkg/instrument"
	"github.com/shandysiswandi/gomfa/internal/pkg/lock"
	"github.com/shandysiswandi/gomfa/internal/pkg/messaging"
	"github.com/shandysiswandi/gomfa/internal/pkg/mfa"
	"github.com/shandysiswandi/gomfa/internal/pkg/otp"
	"github.com/shandysiswandi/gomfa/internal/pkg/router"
	"github.com/shandysiswandi/gomfa/internal/pkg/uid"
	"github.com/shandysiswandi/gomfa/internal/pkg/validator"
	"github.com/shandysiswandi/gomfa/internal/twofactor/inbound"
	"github.com/shandysiswandi/gomfa/internal/twofactor/outbound/db"
	"github.com/shandysiswandi/gomfa/internal/twofactor/outbound/mq"
	"github.com/shandysiswandi/gomfa/internal/twofactor/usecase"
)

type Dependency struct {
	DBConn          *pgxpool.Pool              `validate:"required"`
	Goroutine       *goroutine.Manager         `validate:"required"`
	Router          *router.Router             `validate:"required"`
	Messaging       messaging.Messaging        `validate:"required"`
	Config          config.Config              `validate:"required"`
	Instrument      instrument.Instrumentation `validate:"required"`
	Locker          lock.Locker                `validate:"required"`
	UID             uid.NumberID               `validate:"required"`
	Bcrypt          hash.Hash                  `validate:"required"`
	Argon2ID        hash.Hash                  `validate:"required"`
	MFAEncryptor    mfa.Encryptor              `validate:"required"`
	MFARecoveryCode mfa.RecoveryCodeGenerator  `validate:"required"`
	Clock           clock.Clocker              `validate:"required"`
	Totp            otp.OTP                    `validate:"required"`
	Validator       validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		Argon2ID:      dep.Argon2ID,
		MFAEncryptor:  dep.MFAEncryptor,
		MFARecovery:   dep.MFARecoveryCode,
		UID:           dep.UID,
		Totp:          dep.Totp,
		Clock:         dep.Clock,
		Locker:        dep.Locker,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
