// Package auth provides the bearer token middleware guarding the api routes.
//
// Requests must carry "Authorization: Bearer <token>". The token is checked
// against the argon2id hash configured under Webserver.APITokenHash; the
// plain token itself is never stored.
//
// Usage:
//
//	api.Use(authmiddleware.New(verifier))
package auth
