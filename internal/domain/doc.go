// Package domain contains the patron entities shared by the gateway: the
// credentials and session used to talk to the ILS, the ILS patron record in
// its nested coded-field form, and the flat contact-info and registration
// shapes exposed to clients. It is independent of any transport.
package domain
