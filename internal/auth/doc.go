// Package auth provides session authentication and authorisation for
// Storefront Core.
//
// It implements a three-role model (member → admin → super-admin) with:
//   - Argon2id password hashing
//   - Stateless HS256 access (15m) and refresh (7d) tokens signed with
//     independent secrets and tagged with their kind
//   - HttpOnly, SameSite=Strict session cookies
//   - An authentication state machine that transparently regenerates an
//     expired-away access token from a valid refresh token
//   - Role gates and a maintenance gate that staff bypass
//
// Tokens carry only the account ID. The role is read from the account
// directory on every request, so a demotion takes effect immediately.
// There is no server-side session record; logging out clears cookies only.
package auth
