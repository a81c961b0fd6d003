// Package otp provides helpers for generating and validating one-time
// passwords (OTP), focused on TOTP (time-based OTP).
//
// The lifecycle service uses it twice: once to mint a fresh shared secret
// and provisioning URI during enrollment, and once to validate submitted
// codes against the stored secret with bounded clock-skew tolerance.
package otp
