// Package jwt issues and verifies HS512 JSON Web Tokens.
//
// Every token carries a Purpose claim. An access token cannot be replayed as
// a password reset grant and the other way around.
package jwt
