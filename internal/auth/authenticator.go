package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// AccountDirectory resolves a token subject to an account.
// GetByID returns ErrUserNotFound when no account has the id.
type AccountDirectory interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// Outcome labels the path a request took through Authenticate.
type Outcome string

const (
	OutcomeAccessValid     Outcome = "access_valid"
	OutcomeRefreshed       Outcome = "refreshed"
	OutcomeNoRefresh       Outcome = "rejected_no_refresh"
	OutcomeRefreshInvalid  Outcome = "rejected_refresh_invalid"
	OutcomeAccessInvalid   Outcome = "rejected_access_invalid"
	OutcomeSubjectMismatch Outcome = "rejected_subject_mismatch"
	OutcomeUnknownAccount  Outcome = "rejected_unknown_account"
	OutcomeDirectoryFailed Outcome = "directory_error"
	OutcomeIssueFailed     Outcome = "issue_error"
)

// Result describes one authentication attempt. User is set only on success.
type Result struct {
	User    *User
	Outcome Outcome
}

// Authenticator establishes the principal for a request from its session
// cookies, minting a replacement access token when only the refresh token
// is present.
type Authenticator struct {
	tokens  *TokenService
	cookies *SessionCookies
	users   AccountDirectory
	logger  *slog.Logger
}

// NewAuthenticator wires the token service, cookie adapter and directory.
func NewAuthenticator(tokens *TokenService, cookies *SessionCookies, users AccountDirectory, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		tokens:  tokens,
		cookies: cookies,
		users:   users,
		logger:  logger,
	}
}

// Authenticate runs the session state machine:
//
//  1. No refresh token: reject.
//  2. Refresh token only: verify it, mint an access token, look up the
//     subject, and on a hit write the new access cookie.
//  3. Both tokens: verify the access token first. An invalid access token
//     is rejected without falling back to the refresh token. The refresh
//     token must still be valid and name the same subject, since a session
//     never outlives its refresh token.
//
// Every rejection clears both cookies and returns an error wrapping
// ErrUnauthorized. Directory and signing failures return other errors
// and leave cookies alone. The Result is always non-nil.
func (a *Authenticator) Authenticate(w http.ResponseWriter, r *http.Request) (*Result, error) {
	access, refresh := a.cookies.Read(r)

	switch {
	case refresh == "":
		return a.reject(w, OutcomeNoRefresh, nil)

	case access == "":
		claims, err := a.tokens.Verify(refresh, RefreshToken)
		if err != nil {
			return a.reject(w, OutcomeRefreshInvalid, err)
		}

		minted, err := a.tokens.IssueAccessToken(claims.Subject)
		if err != nil {
			return &Result{Outcome: OutcomeIssueFailed}, fmt.Errorf("minting access token: %w", err)
		}

		user, res, err := a.lookup(r.Context(), w, claims.Subject)
		if user == nil {
			return res, err
		}

		// Only the access cookie is rewritten; the refresh token keeps its
		// original expiry.
		a.cookies.Write(w, minted, "")
		a.logger.Debug("access token regenerated", "user_id", user.ID)
		return &Result{User: user, Outcome: OutcomeRefreshed}, nil

	case access != "" && refresh != "":
		claims, err := a.tokens.Verify(access, AccessToken)
		if err != nil {
			return a.reject(w, OutcomeAccessInvalid, err)
		}

		root, err := a.tokens.Verify(refresh, RefreshToken)
		if err != nil {
			return a.reject(w, OutcomeRefreshInvalid, err)
		}
		if root.Subject != claims.Subject {
			return a.reject(w, OutcomeSubjectMismatch, nil)
		}

		user, res, err := a.lookup(r.Context(), w, claims.Subject)
		if user == nil {
			return res, err
		}
		return &Result{User: user, Outcome: OutcomeAccessValid}, nil

	default:
		return a.reject(w, OutcomeNoRefresh, nil)
	}
}

// lookup resolves subject and strips the credential. On a miss it rejects;
// on any other directory failure it returns the error untouched.
func (a *Authenticator) lookup(ctx context.Context, w http.ResponseWriter, subject string) (*User, *Result, error) {
	user, err := a.users.GetByID(ctx, subject)
	switch {
	case errors.Is(err, ErrUserNotFound):
		res, rerr := a.reject(w, OutcomeUnknownAccount, err)
		return nil, res, rerr
	case err != nil:
		a.logger.Error("account lookup failed", "user_id", subject, "error", err)
		return nil, &Result{Outcome: OutcomeDirectoryFailed}, fmt.Errorf("looking up account: %w", err)
	case user == nil:
		res, rerr := a.reject(w, OutcomeUnknownAccount, ErrUserNotFound)
		return nil, res, rerr
	}
	return user.Principal(), nil, nil
}

func (a *Authenticator) reject(w http.ResponseWriter, outcome Outcome, cause error) (*Result, error) {
	a.cookies.Clear(w)
	if cause != nil {
		a.logger.Debug("authentication rejected", "outcome", string(outcome), "error", cause)
		return &Result{Outcome: outcome}, fmt.Errorf("%w: %w", ErrUnauthorized, cause)
	}
	a.logger.Debug("authentication rejected", "outcome", string(outcome))
	return &Result{Outcome: outcome}, ErrUnauthorized
}
