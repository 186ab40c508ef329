// Package platform is the HTTP client for the development platform API.
//
// It covers the account operations the dev server needs: querying the
// current session, interactive sign-in and registration, sign-out, and
// sending a project link to an email address or phone number. The session
// secret is stored locally through config.SessionStore and attached to
// every authenticated request.
//
// Errors are returned as *APIError values which classify the failure
// (network, authentication, HTTP status, parse, validation) and record
// whether a retry may succeed.
package platform
