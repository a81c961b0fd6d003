package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
	"github.com/shandysiswandi/gomfa/internal/pkg/config"
	"github.com/shandysiswandi/gomfa/internal/pkg/goerror"
	"github.com/shandysiswandi/gomfa/internal/pkg/goroutine"
	"github.com/shandysiswandi/gomfa/internal/pkg/hash"
	"github.com/shandysiswandi/gomfa/internal/pkg/instrument"
	"github.com/shandysiswandi/gomfa/internal/pkg/jwt"
	"github.com/shandysiswandi/gomfa/internal/pkg/lock"
	"github.com/shandysiswandi/gomfa/internal/pkg/mfa"
	"github.com/shandysiswandi/gomfa/internal/pkg/otp"
	"github.com/shandysiswandi/gomfa/internal/pkg/validator"
	"github.com/shandysiswandi/gomfa/internal/shared/event"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

const testUserID int64 = 7

var testKey = []byte("0123456789abcdef0123456789abcdef")

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type seqNumberID struct {
	next int64
}

func (s *seqNumberID) Generate() int64 {
	s.next++
	return s.next
}

type fakeRepo struct {
	users       map[int64]*entity.UserCredentialInfo
	credentials map[int64]*entity.Credential
	backupCodes map[int64][]entity.BackupCode

	failNext error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:       map[int64]*entity.UserCredentialInfo{},
		credentials: map[int64]*entity.Credential{},
		backupCodes: map[int64][]entity.BackupCode{},
	}
}

func (r *fakeRepo) GetUserCredentialInfo(_ context.Context, id int64) (*entity.UserCredentialInfo, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (r *fakeRepo) GetCredential(_ context.Context, userID int64) (*entity.Credential, error) {
	cred, ok := r.credentials[userID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	c := *cred
	return &c, nil
}

func (r *fakeRepo) GetBackupCodes(_ context.Context, userID int64) ([]entity.BackupCode, error) {
	return append([]entity.BackupCode{}, r.backupCodes[userID]...), nil
}

func (r *fakeRepo) NewCredential(_ context.Context, cred entity.Credential, codes []entity.BackupCode) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	if _, ok := r.credentials[cred.UserID]; ok {
		return goerror.ErrConflict
	}
	r.credentials[cred.UserID] = &cred
	r.backupCodes[cred.UserID] = append([]entity.BackupCode{}, codes...)
	return nil
}

func (r *fakeRepo) ActivateCredential(_ context.Context, userID, version int64, updatedAt time.Time) (bool, error) {
	cred, ok := r.credentials[userID]
	if !ok || cred.Version != version || cred.State == entity.CredentialStateDisabled {
		return false, nil
	}
	cred.State = entity.CredentialStateEnabled
	cred.Version++
	cred.UpdatedAt = updatedAt
	return true, nil
}

func (r *fakeRepo) ReplaceBackupCodes(_ context.Context, userID int64, codes []entity.BackupCode) error {
	r.backupCodes[userID] = append([]entity.BackupCode{}, codes...)
	return nil
}

func (r *fakeRepo) MarkBackupCodeUsed(_ context.Context, codeID, userID int64) (bool, error) {
	codes := r.backupCodes[userID]
	for i := range codes {
		if codes[i].ID == codeID && !codes[i].Used {
			codes[i].Used = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) DestroyCredential(_ context.Context, userID int64) error {
	delete(r.credentials, userID)
	delete(r.backupCodes, userID)
	return nil
}

type fakeMessaging struct {
	mu        sync.Mutex
	published []string
}

func (m *fakeMessaging) record(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, name)
	return nil
}

func (m *fakeMessaging) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.published...)
}

func (m *fakeMessaging) PublishTwoFactorEnabled(context.Context, event.TwoFactorEnabled) error {
	return m.record("enabled")
}

func (m *fakeMessaging) PublishTwoFactorActivated(context.Context, event.TwoFactorActivated) error {
	return m.record("activated")
}

func (m *fakeMessaging) PublishTwoFactorDisabled(context.Context, event.TwoFactorDisabled) error {
	return m.record("disabled")
}

func (m *fakeMessaging) PublishTwoFactorBackupCodeUsed(context.Context, event.TwoFactorBackupCodeUsed) error {
	return m.record("backup_code_used")
}

func (m *fakeMessaging) PublishTwoFactorBackupCodesRotated(context.Context, event.TwoFactorBackupCodesRotated) error {
	return m.record("backup_codes_rotated")
}

type fakeLocker struct {
	acquireErr error
	acquired   int
	released   int
}

func (l *fakeLocker) Acquire(context.Context, string, time.Duration) (string, error) {
	if l.acquireErr != nil {
		return "", l.acquireErr
	}
	l.acquired++
	return "token", nil
}

func (l *fakeLocker) Release(context.Context, string, string) error {
	l.released++
	return nil
}

type testEnv struct {
	uc     *Usecase
	repo   *fakeRepo
	msgs   *fakeMessaging
	locker *fakeLocker
	clock  *fixedClock
	totp   otp.OTP
	enc    mfa.Encryptor
	g      *goroutine.Manager
}

func newTestEnv(t *testing.T, gateOn bool) *testEnv {
	t.Helper()

	yaml := "mfa:\n  encryption_key: \"\"\n"
	if gateOn {
		yaml = "mfa:\n  encryption_key: " + base64.StdEncoding.EncodeToString(testKey) + "\n"
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	bcrypt := hash.NewBcrypt(4, "")
	passwordHash, err := bcrypt.Hash("correct-horse")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := newFakeRepo()
	repo.users[testUserID] = &entity.UserCredentialInfo{
		ID:       testUserID,
		Email:    "user@example.com",
		Status:   entity.UserStatusActive,
		Password: string(passwordHash),
	}

	msgs := &fakeMessaging{}
	locker := &fakeLocker{}
	clk := &fixedClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
	totp := otp.NewTOTP("gomfa", 30, 1, libOTP.DigitsSix)
	enc := mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: testKey})
	g := goroutine.NewManager(0)

	uc := New(Dependency{
		RepoDB:        repo,
		RepoMessaging: msgs,
		Validator:     v10,
		Config:        cfg,
		Bcrypt:        bcrypt,
		Argon2ID:      hash.NewArgon2id(""),
		MFAEncryptor:  enc,
		MFARecovery:   mfa.NewRecoveryCode(10),
		UID:           &seqNumberID{},
		Totp:          totp,
		Clock:         clk,
		Locker:        locker,
		Instrument:    instrument.NewNoop(),
		Goroutine:     g,
	})

	return &testEnv{
		uc:     uc,
		repo:   repo,
		msgs:   msgs,
		locker: locker,
		clock:  clk,
		totp:   totp,
		enc:    enc,
		g:      g,
	}
}

func authCtx() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		UserID:    testUserID,
		UserEmail: "user@example.com",
	})
}

// validCode derives the TOTP code the authenticator would show right now.
func (e *testEnv) validCode(t *testing.T) string {
	t.Helper()

	secret, err := e.enc.Decrypt(e.repo.credentials[testUserID].Secret, mfa.Scope{
		UserID:  testUserID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		t.Fatalf("failed to decrypt stored secret: %v", err)
	}

	code, err := e.totp.GenerateCode(string(secret), e.clock.now)
	if err != nil {
		t.Fatalf("failed to generate totp code: %v", err)
	}
	return code
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %v", err)
	}
	if gerr.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want.String(), gerr.Code().String(), err)
	}
}

func TestEnable(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)

	// Act
	out, err := env.uc.Enable(authCtx())

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Secret == "" || out.ProvisioningURI == "" {
		t.Fatalf("expected secret and provisioning uri, got %+v", out)
	}
	if len(out.BackupCodes) != 10 {
		t.Fatalf("expected 10 backup codes, got %d", len(out.BackupCodes))
	}

	seen := map[string]struct{}{}
	for _, code := range out.BackupCodes {
		if _, dup := seen[code]; dup {
			t.Fatalf("backup codes must be pairwise distinct, duplicate %q", code)
		}
		seen[code] = struct{}{}
	}

	cred := env.repo.credentials[testUserID]
	if cred == nil || cred.State != entity.CredentialStatePendingActivation {
		t.Fatalf("expected pending credential, got %+v", cred)
	}
	for _, stored := range env.repo.backupCodes[testUserID] {
		for _, plain := range out.BackupCodes {
			if stored.CodeHash == plain {
				t.Fatal("backup codes must be stored hashed, found plaintext")
			}
		}
	}

	if env.locker.acquired != 1 || env.locker.released != 1 {
		t.Fatalf("expected lock acquired and released once, got %d/%d", env.locker.acquired, env.locker.released)
	}
}

func TestEnableFeatureGateOff(t *testing.T) {
	// Arrange
	env := newTestEnv(t, false)

	// Act
	_, err := env.uc.Enable(authCtx())

	// Assert
	assertCode(t, err, goerror.CodeForbidden)
	if len(env.repo.credentials) != 0 {
		t.Fatal("feature gate failure must not create a credential")
	}
}

func TestEnableAlreadyEnabled(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	_, err := env.uc.Enable(authCtx())

	// Assert
	assertCode(t, err, goerror.CodeConflict)
}

func TestEnableFeatureGateBeforeStateGuard(t *testing.T) {
	// Arrange: enroll with the gate on, then drop the key
	env := newTestEnv(t, true)
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	envOff := newTestEnv(t, false)
	envOff.repo.credentials = env.repo.credentials
	envOff.repo.backupCodes = env.repo.backupCodes

	// Act
	_, err := envOff.uc.Enable(authCtx())

	// Assert: forbidden, not the state conflict
	assertCode(t, err, goerror.CodeForbidden)
}

func TestEnableLockContention(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	env.locker.acquireErr = lock.ErrNotAcquired

	// Act
	_, err := env.uc.Enable(authCtx())

	// Assert
	assertCode(t, err, goerror.CodeConflict)
}

func TestActivate(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: env.validCode(t)})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.repo.credentials[testUserID].State != entity.CredentialStateEnabled {
		t.Fatalf("expected enabled state, got %v", env.repo.credentials[testUserID].State)
	}
	if !env.repo.credentials[testUserID].UpdatedAt.Equal(env.clock.now) {
		t.Fatalf("expected updated_at from the injected clock, got %v", env.repo.credentials[testUserID].UpdatedAt)
	}

	if err := env.g.Wait(); err != nil {
		t.Fatalf("unexpected goroutine error: %v", err)
	}
	found := false
	for _, name := range env.msgs.names() {
		if name == "activated" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected activated event to be published")
	}
}

func TestFeatureGateOutranksInvalidInput(t *testing.T) {
	// Arrange: gate off and a code that would never pass validation
	env := newTestEnv(t, false)

	// Act & Assert: forbidden, not a validation error
	err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: "not-a-code"})
	assertCode(t, err, goerror.CodeForbidden)

	err = env.uc.Disable(authCtx(), DisableInput{OtpCode: "not-a-code", Password: "x"})
	assertCode(t, err, goerror.CodeForbidden)

	_, err = env.uc.RotateBackupCodes(authCtx(), RotateBackupCodesInput{OtpCode: "not-a-code"})
	assertCode(t, err, goerror.CodeForbidden)
}

func TestActivateInvalidCode(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: "000000"})

	// Assert
	assertCode(t, err, goerror.CodeUnauthorized)
	if env.repo.credentials[testUserID].State != entity.CredentialStatePendingActivation {
		t.Fatal("invalid code must not change credential state")
	}
}

func TestActivateStaleCode(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stale := env.validCode(t)
	env.clock.now = env.clock.now.Add(5 * time.Minute)

	// Act
	err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: stale})

	// Assert: outside the ±1 step window the code no longer verifies
	assertCode(t, err, goerror.CodeUnauthorized)
}

func TestActivateIdempotentFromEnabled(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: env.validCode(t)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: env.validCode(t)})

	// Assert
	if err != nil {
		t.Fatalf("expected idempotent activation, got %v", err)
	}
	if env.repo.credentials[testUserID].State != entity.CredentialStateEnabled {
		t.Fatal("credential must stay enabled")
	}
}

func TestActivateWithoutEnrollment(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)

	// Act
	err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: "123456"})

	// Assert
	assertCode(t, err, goerror.CodeConflict)
}

func TestActivateWithBackupCodeConsumesIt(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	out, err := env.uc.Enable(authCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	backupCode := out.BackupCodes[0]

	// Act
	if err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: backupCode}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Assert: the same code cannot authenticate a second operation
	_, err = env.uc.RotateBackupCodes(authCtx(), RotateBackupCodesInput{OtpCode: backupCode})
	assertCode(t, err, goerror.CodeUnauthorized)

	used := 0
	for _, code := range env.repo.backupCodes[testUserID] {
		if code.Used {
			used++
		}
	}
	if used != 1 {
		t.Fatalf("expected exactly one consumed backup code, got %d", used)
	}
}

func TestDisable(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: env.validCode(t)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code := env.validCode(t)

	// Act
	err := env.uc.Disable(authCtx(), DisableInput{OtpCode: code, Password: "correct-horse"})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := env.repo.credentials[testUserID]; ok {
		t.Fatal("credential must be destroyed")
	}
	if len(env.repo.backupCodes[testUserID]) != 0 {
		t.Fatal("backup codes must be destroyed with the credential")
	}
}

func TestDisableWrongPasswordKeepsEverything(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: env.validCode(t)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	err := env.uc.Disable(authCtx(), DisableInput{OtpCode: env.validCode(t), Password: "wrong-horse"})

	// Assert
	assertCode(t, err, goerror.CodeUnauthorized)
	if env.repo.credentials[testUserID].State != entity.CredentialStateEnabled {
		t.Fatal("wrong password must leave the credential enabled")
	}
	if len(env.repo.backupCodes[testUserID]) != 10 {
		t.Fatal("wrong password must leave backup codes untouched")
	}
}

func TestDisableNotEnabled(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)

	// Act
	err := env.uc.Disable(authCtx(), DisableInput{OtpCode: "123456", Password: "correct-horse"})

	// Assert
	assertCode(t, err, goerror.CodeConflict)
}

func TestRotateBackupCodesInvalidatesOldSet(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)
	out, err := env.uc.Enable(authCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: env.validCode(t)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	oldCode := out.BackupCodes[3]

	// Act
	rotated, err := env.uc.RotateBackupCodes(authCtx(), RotateBackupCodesInput{OtpCode: env.validCode(t)})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rotated.BackupCodes) != 10 {
		t.Fatalf("expected 10 fresh codes, got %d", len(rotated.BackupCodes))
	}

	err = env.uc.Disable(authCtx(), DisableInput{OtpCode: oldCode, Password: "correct-horse"})
	assertCode(t, err, goerror.CodeUnauthorized)

	if err := env.uc.Disable(authCtx(), DisableInput{
		OtpCode:  rotated.BackupCodes[0],
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("a fresh rotated code must authenticate, got %v", err)
	}
}

func TestRotateBackupCodesRequiresEnabled(t *testing.T) {
	// Arrange: pending activation only
	env := newTestEnv(t, true)
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	_, err := env.uc.RotateBackupCodes(authCtx(), RotateBackupCodesInput{OtpCode: env.validCode(t)})

	// Assert
	assertCode(t, err, goerror.CodeConflict)
}

func TestActivateValidationError(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)

	// Act
	err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: "not-a-code"})

	// Assert
	assertCode(t, err, goerror.CodeInvalidInput)
}

func TestStatus(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)

	// Act & Assert: no enrollment
	st, err := env.uc.Status(authCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Enabled || st.PendingActivation || st.BackupCodesRemaining != 0 {
		t.Fatalf("expected empty status, got %+v", st)
	}

	// Arrange: pending enrollment
	if _, err := env.uc.Enable(authCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err = env.uc.Status(authCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Enabled || !st.PendingActivation || st.BackupCodesRemaining != 10 {
		t.Fatalf("expected pending status with 10 codes, got %+v", st)
	}

	// Arrange: activated
	if err := env.uc.Activate(authCtx(), ActivateInput{OtpCode: env.validCode(t)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err = env.uc.Status(authCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Enabled || st.PendingActivation {
		t.Fatalf("expected enabled status, got %+v", st)
	}
}

func TestStatusUnauthenticated(t *testing.T) {
	// Arrange
	env := newTestEnv(t, true)

	// Act
	_, err := env.uc.Status(context.Background())

	// Assert
	assertCode(t, err, goerror.CodeUnauthorized)
}
