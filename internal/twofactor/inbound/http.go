// Package inbound exposes the two-factor lifecycle over HTTP.
package inbound

import (
	"context"

	"github.com/shandysiswandi/gomfa/internal/pkg/router"
	"github.com/shandysiswandi/gomfa/internal/twofactor/usecase"
)

type uc interface {
	Status(ctx context.Context) (*usecase.StatusOutput, error)
	Enable(ctx context.Context) (*usecase.EnableOutput, error)
	Activate(ctx context.Context, in usecase.ActivateInput) error
	Disable(ctx context.Context, in usecase.DisableInput) error
	RotateBackupCodes(ctx context.Context, in usecase.RotateBackupCodesInput) (*usecase.RotateBackupCodesOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Two-factor lifecycle (need authenticated)
	r.GET("/api/v1/profile/mfa", end.Status)
	r.POST("/api/v1/profile/mfa", end.Enable)
	r.POST("/api/v1/profile/mfa/verify", end.Activate)
	r.DELETE("/api/v1/profile/mfa", end.Disable)
	r.POST("/api/v1/profile/mfa/backup_codes", end.RotateBackupCodes)
}
