// Package auth implements the application's authentication stack:
// bcrypt credential verification, scs-backed cookie sessions, the
// per-route access guard middleware, and CSRF protection for form
// submissions.
//
// Every request first passes through SessionManager.SessionLoadSave
// (load session data into the request context), then Middleware.Handler
// (resolve the session to a user and attach it to the gin context).
// Routes that touch private data are additionally wrapped in
// Middleware.RequireAuth, which redirects anonymous requests to /login
// before the handler can run.
package auth
