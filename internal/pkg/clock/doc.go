// Package clock provides a tiny time abstraction.
//
// Business code should depend on the Clocker interface instead of calling
// time.Now() directly, so tests can substitute a deterministic clock. TOTP
// validation in particular only becomes testable with a pinned time source.
package clock
