// Package auth verifies the credentials presented with a tool call.
//
// Two strategies exist: a shared API key and an HS256-signed JWT. Which ones
// are active depends on which secrets are configured. With no secret at all
// the Validator runs in bypass mode and lets every call through, logging a
// warning, which is meant for local development only.
//
// Middleware strips the api_key and token arguments before the wrapped tool
// runs, so business operations never see credentials.
package auth
