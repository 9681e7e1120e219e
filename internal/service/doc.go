// Package service contains the patron workflows of the gateway. Each
// workflow is a fixed sequence of ILS calls (login, fetch, apply, update,
// and so on) made through the PatronClient interface, which *ilsws.Client
// implements.
//
// Workflows stop at the first failing step. Writes already accepted by the
// ILS are not rolled back, so a failed registration with the language
// feature enabled can leave a patron without the default language set.
//
// Error handling:
//   - A rejected login surfaces as domain.ErrUnauthorized.
//   - Acquire surfaces domain.ErrNotImplemented once the login succeeds.
//   - Anything else is a *WorkflowError naming the operation and the step;
//     the cause is logged here with sensitive values redacted and is never
//     passed on to clients.
package service
