// Package ilsws is a client for the SirsiDynix ILS web service (ILSWS)
// patron endpoints used by the gateway.
//
// Every request carries the originating-application and client identifiers.
// Calls made on behalf of a logged-in patron add the session token header;
// calls that do not need a session (login, register, pin reset, pin change
// by reset token) are built without one. Each call is a single
// request/response with no retries.
package ilsws
