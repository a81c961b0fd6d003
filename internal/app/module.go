package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gomfa/internal/twofactor"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.twofactor.enabled") {
		if err := twofactor.New(twofactor.Dependency{
			DBConn:          a.dbConn,
			Goroutine:       a.goroutine,
			Router:          a.router,
			Messaging:       a.messaging,
			Config:          a.config,
			Instrument:      a.ins,
			Locker:          a.locker,
			UID:             a.uid,
			Bcrypt:          a.bcrypt,
			Argon2ID:        a.argon2id,
			MFAEncryptor:    a.mfaEncryptor,
			MFARecoveryCode: a.mfaRecoveryCode,
			Clock:           a.clock,
			Totp:            a.totp,
			Validator:       a.validator,
		}); err != nil {
			slog.Error("failed to init module twofactor", "error", err)
			os.Exit(1)
		}
	}
}
