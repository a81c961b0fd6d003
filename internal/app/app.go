// Package app wires dependencies and manages the service lifecycle.
package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gomfa/internal/pkg/clock"
	"github.com/shandysiswandi/gomfa/internal/pkg/config"
	"github.com/shandysiswandi/gomfa/internal/pkg/goroutine"
	"github.com/shandysiswandi/gomfa/internal/pkg/hash"
	"github.com/shandysiswandi/gomfa/internal/pkg/instrument"
	"github.com/shandysiswandi/gomfa/internal/pkg/jwt"
	"github.com/shandysiswandi/gomfa/internal/pkg/lock"
	"github.com/shandysiswandi/gomfa/internal/pkg/messaging"
	"github.com/shandysiswandi/gomfa/internal/pkg/mfa"
	"github.com/shandysiswandi/gomfa/internal/pkg/otp"
	"github.com/shandysiswandi/gomfa/internal/pkg/router"
	"github.com/shandysiswandi/gomfa/internal/pkg/uid"
	"github.com/shandysiswandi/gomfa/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine       *goroutine.Manager
	validator       validator.Validator
	clock           clock.Clocker
	argon2id        hash.Hash
	bcrypt          hash.Hash
	uid             uid.NumberID
	uuid            uid.StringID
	totp            otp.OTP
	jwt             jwt.JWT
	mfaEncryptor    mfa.Encryptor
	mfaRecoveryCode mfa.RecoveryCodeGenerator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	locker    lock.Locker
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
