package inbound

import (
	"github.com/shandysiswandi/gomfa/internal/pkg/router"
	"github.com/shandysiswandi/gomfa/internal/twofactor/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the two-factor lifecycle.
type HTTPEndpoint struct {
	uc uc
}

// Status reports the caller's two-factor state.
// @Summary Two-factor status
// @Description Returns whether two-factor is enabled or pending activation and how many backup codes remain.
// @Tags TwoFactor
// @Produce json
// @Success 200 {object} router.successResponse{data=StatusResponse} "Current state"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/profile/mfa [get]
func (h *HTTPEndpoint) Status(r *router.Request) (any, error) {
	resp, err := h.uc.Status(r.Context())
	if err != nil {
		return nil, err
	}

	return StatusResponse{
		Enabled:              resp.Enabled,
		PendingActivation:    resp.PendingActivation,
		BackupCodesRemaining: resp.BackupCodesRemaining,
	}, nil
}

// Enable begins two-factor enrollment.
// @Summary Enable two-factor
// @Description Provisions a TOTP secret and backup codes; the credential stays pending until verified.
// @Tags TwoFactor
// @Produce json
// @Success 200 {object} router.successResponse{data=EnableResponse} "Provisioning material"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Two-factor not available"
// @Failure 409 {object} router.errorResponse "Already enabled"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/profile/mfa [post]
func (h *HTTPEndpoint) Enable(r *router.Request) (any, error) {
	resp, err := h.uc.Enable(r.Context())
	if err != nil {
		return nil, err
	}

	return EnableResponse{
		Secret:          resp.Secret,
		ProvisioningURI: resp.ProvisioningURI,
		BackupCodes:     resp.BackupCodes,
	}, nil
}

// Activate verifies the authenticator and turns two-factor on.
// @Summary Verify two-factor enrollment
// @Description Confirms possession of the authenticator with a TOTP or backup code.
// @Tags TwoFactor
// @Accept json
// @Produce json
// @Param request body ActivateRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=ActivateResponse} "Enrollment confirmed"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid code"
// @Failure 409 {object} router.errorResponse "Not enabled"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/profile/mfa/verify [post]
func (h *HTTPEndpoint) Activate(r *router.Request) (any, error) {
	var req ActivateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Activate(r.Context(), usecase.ActivateInput{
		OtpCode: req.OtpCode,
	}); err != nil {
		return nil, err
	}

	return ActivateResponse{}, nil
}

// Disable tears two-factor down.
// @Summary Disable two-factor
// @Description Destroys the credential and all backup codes after re-authentication.
// @Tags TwoFactor
// @Accept json
// @Produce json
// @Param request body DisableRequest true "Re-authentication payload"
// @Success 200 {object} router.successResponse{data=DisableResponse} "Two-factor disabled"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid code or password"
// @Failure 409 {object} router.errorResponse "Not enabled"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/profile/mfa [delete]
func (h *HTTPEndpoint) Disable(r *router.Request) (any, error) {
	var req DisableRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Disable(r.Context(), usecase.DisableInput{
		OtpCode:  req.OtpCode,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return DisableResponse{}, nil
}

// RotateBackupCodes replaces the backup code set.
// @Summary Regenerate backup codes
// @Description Issues a fresh backup code set; all previous codes stop working.
// @Tags TwoFactor
// @Accept json
// @Produce json
// @Param request body RotateBackupCodesRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=RotateBackupCodesResponse} "New backup codes"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid code"
// @Failure 409 {object} router.errorResponse "Not enabled"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/profile/mfa/backup_codes [post]
func (h *HTTPEndpoint) RotateBackupCodes(r *router.Request) (any, error) {
	var req RotateBackupCodesRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RotateBackupCodes(r.Context(), usecase.RotateBackupCodesInput{
		OtpCode: req.OtpCode,
	})
	if err != nil {
		return nil, err
	}

	return RotateBackupCodesResponse{
		BackupCodes: resp.BackupCodes,
	}, nil
}
