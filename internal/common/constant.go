// Package common contains shared constants, sentinel errors and small helpers
// used by both the TeamDeck client and the reference identity authority.
package common

// SessionHeaderName is the gRPC metadata key used to carry the session
// secret on outbound requests to the identity authority.
const SessionHeaderName = "x-session"

// CurrentSessionID is the session identifier that resolves to the session
// presented by the caller.
const CurrentSessionID = "current"
