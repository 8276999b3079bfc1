// Package google provides OAuth2 authentication and token management for the
// Google APIs driveclip depends on (Gmail and Drive).
//
// Tokens are cached on disk per account under the user cache directory, so a
// single installation can archive mail for several Google accounts.
package google
