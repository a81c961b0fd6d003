package config

import (
	"io"
	"time"
)

// Config defines the configuration getters this service depends on.
//
// Implementations should handle missing keys or bad conversions by returning
// zero values; callers treat absent configuration as "feature off" rather
// than an error.
type Config interface {
	io.Closer

	// GetBool retrieves the value for key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value for key as a string.
	GetString(key string) string

	// GetInt retrieves the value for key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value for key as an int32.
	GetInt32(key string) int32

	// GetUint retrieves the value for key as a uint.
	GetUint(key string) uint

	// GetFloat64 retrieves the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value for key as a duration in seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value for key as a duration in minutes.
	GetMinute(key string) time.Duration

	// GetBinary retrieves the value for key as raw bytes.
	// The configuration value is stored base64 encoded; invalid encoding
	// yields nil.
	GetBinary(key string) []byte

	// GetArray retrieves the value for key as a slice of strings.
	// The configuration value is stored as <element1>,<element2>,...
	GetArray(key string) []string
}
