// Package middleware is the HTTP middleware chain shared by all services:
// ambient concerns (request id, recovery, logging, timeouts, client
// metadata, metrics) plus the authorization guard chain.
package middleware

import (
	"net/http"

	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/httpjson"
	"questify/pkg/requestcontext"
)

// Guard is a pure predicate over the attached current-user context. A nil
// user means no identity was attached. Guards perform no I/O and never
// mutate the context.
type Guard func(user *requestcontext.User) *apperrors.Error

// RequireAuth rejects anonymous requests and suspended accounts.
func RequireAuth(user *requestcontext.User) *apperrors.Error {
	if user == nil {
		return apperrors.NotAuthorized()
	}
	if user.Status == events.UserStatusSuspended {
		return apperrors.BadRequest("Your account has been suspended")
	}
	return nil
}

// RequireAdmin rejects anyone who is not an admin.
func RequireAdmin(user *requestcontext.User) *apperrors.Error {
	if user == nil || user.Role != events.RoleAdmin {
		return apperrors.NotAuthorized()
	}
	return nil
}

// RequireTeacher rejects anyone who is not a teacher or admin. Course
// authoring endpoints use this.
func RequireTeacher(user *requestcontext.User) *apperrors.Error {
	if user == nil || (user.Role != events.RoleTeacher && user.Role != events.RoleAdmin) {
		return apperrors.NotAuthorized()
	}
	return nil
}

// Require runs guards strictly in the order given, short-circuiting at the
// first failure. The handler never runs on rejection.
func Require(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var user *requestcontext.User
			if u, ok := requestcontext.CurrentUser(r.Context()); ok {
				user = &u
			}
			for _, guard := range guards {
				if err := guard(user); err != nil {
					httpjson.WriteError(w, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
