// Package api exposes the patron workflows over HTTP. Handlers decode and
// check the request, call the PatronService, and map the outcome onto the
// small set of responses clients rely on: 200 with a message or data, 400
// listing missing fields, 401 "login failed", 500 "internal server error"
// and 501 "not implemented yet".
package api
