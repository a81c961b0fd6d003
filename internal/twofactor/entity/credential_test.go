package entity

import (
	"errors"
	"testing"
)

func TestCredentialStateEnsure(t *testing.T) {
	tests := []struct {
		name string
		in   CredentialState
		want CredentialState
	}{
		{name: "disabled", in: CredentialStateDisabled, want: CredentialStateDisabled},
		{name: "pending", in: CredentialStatePendingActivation, want: CredentialStatePendingActivation},
		{name: "enabled", in: CredentialStateEnabled, want: CredentialStateEnabled},
		{name: "zero", in: CredentialState(0), want: CredentialStateUnknown},
		{name: "out of range", in: CredentialState(99), want: CredentialStateUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Ensure(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestUserStatusEnsure(t *testing.T) {
	// Arrange & Act & Assert
	if got := UserStatus(42).Ensure(); got != UserStatusUnknown {
		t.Fatalf("expected unknown, got %v", got)
	}
	if got := UserStatusActive.Ensure(); got != UserStatusActive {
		t.Fatalf("expected active, got %v", got)
	}
}

func TestCredentialLifecyclePredicates(t *testing.T) {
	// Arrange
	var missing *Credential
	pending := &Credential{State: CredentialStatePendingActivation}
	enabled := &Credential{State: CredentialStateEnabled}

	// Act & Assert
	if missing.IsEnabled() || missing.IsPendingActivation() {
		t.Fatal("nil credential must report neither enabled nor pending")
	}
	if !pending.IsPendingActivation() || pending.IsEnabled() {
		t.Fatal("pending credential must report pending only")
	}
	if !enabled.IsEnabled() || enabled.IsPendingActivation() {
		t.Fatal("enabled credential must report enabled only")
	}
}

func TestCredentialCanActivate(t *testing.T) {
	// Arrange
	var missing *Credential
	disabled := &Credential{State: CredentialStateDisabled}
	pending := &Credential{State: CredentialStatePendingActivation}
	enabled := &Credential{State: CredentialStateEnabled}

	// Act & Assert
	if err := missing.CanActivate(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for nil credential, got %v", err)
	}
	if err := disabled.CanActivate(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for disabled credential, got %v", err)
	}
	if err := pending.CanActivate(); err != nil {
		t.Fatalf("pending credential must be activatable, got %v", err)
	}
	if err := enabled.CanActivate(); err != nil {
		t.Fatalf("enabled credential activation is a no-op, got %v", err)
	}
}
