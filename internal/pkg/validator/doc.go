// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface so validation rules stay
// shared and testable. The concrete implementation wraps
// go-playground/validator v10 with English translations.
package validator
