// Package secret resolves secret references in configuration values.
//
// A value of the form
//
//	secretref:<provider>:<ref>
//
// is replaced by what the named Provider returns for ref. Every other value
// is returned unchanged, so literal secrets may contain any character.
//
// Two providers are built in:
//   - env:  secretref:env:NRCC_API_KEY reads another environment variable
//   - file: secretref:file:/run/secrets/jwt reads a mounted file, trimming
//     one trailing newline
package secret
