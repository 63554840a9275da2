// Package authority is the client's view of the remote identity authority.
//
// # Overview
//
// The package provides:
//  1. The Authority interface: session create/get/delete, account lookup,
//     preference update, user creation and JWT minting.
//  2. GRPCClient, an implementation over the teamdeck.identity.v1.Identity
//     gRPC service. It remembers the current session secret and attaches it
//     to every outgoing call from a unary interceptor.
//
// # Error Handling
//
// Failures reported by the authority come back as *Error carrying an
// enumerated Kind, so callers switch on the kind instead of inspecting
// transport details:
//
//	var aerr *authority.Error
//	if errors.As(err, &aerr) && aerr.Kind == authority.KindUnauthorized { ... }
//
// Sentinels such as ErrUnauthorized and ErrUnavailable match by kind with
// errors.Is. Errors that never reached the authority (encoding, local
// cancellation) are returned as ordinary wrapped errors.
package authority
