package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gomfa/internal/pkg/goerror"
	"github.com/shandysiswandi/gomfa/internal/twofactor/entity"
)

type StatusOutput struct {
	Enabled              bool
	PendingActivation    bool
	BackupCodesRemaining int
}

// Status reports the caller's two-factor state. It never exposes secret
// material and runs no lifecycle guards.
func (s *Usecase) Status(ctx context.Context) (*StatusOutput, error) {
	ctx, span := s.startSpan(ctx, "Status")
	defer span.End()

	user, err := s.authenticatedUser(ctx)
	if err != nil {
		return nil, err
	}

	cred, err := s.loadCredential(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	out := &StatusOutput{
		Enabled:           cred.IsEnabled(),
		PendingActivation: cred.IsPendingActivation(),
	}

	if cred == nil {
		return out, nil
	}

	codes, err := s.repoDB.GetBackupCodes(ctx, user.ID)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get backup codes", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	out.BackupCodesRemaining = lo.CountBy(codes, func(c entity.BackupCode) bool {
		return !c.Used
	})

	return out, nil
}
