// Package jwt provides token generation and verification for the auth
// middleware, plus helpers to carry verified claims through the request
// context. Session issuance itself belongs to the identity service; this
// service only needs to resolve "who is the current user".
package jwt
