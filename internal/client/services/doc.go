// Package services holds the client's application logic on top of the REST
// API: the session state machine (SessionManager), per-quote optimistic
// reactions (Reconciler), and quote/user data access (QuoteService,
// UserService).
//
// Failures surfaced by these services are nil or *client.APIError, so views
// can always show Message and branch on StatusCode or errors.Is.
package services
