package authority

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies a failure reported by the identity authority.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindNotFound
	KindConflict
	KindInvalidArgument
	KindRateLimited
	KindUnavailable
	KindInternal
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindUnauthorized:    "unauthorized",
	KindNotFound:        "not found",
	KindConflict:        "conflict",
	KindInvalidArgument: "invalid argument",
	KindRateLimited:     "rate limited",
	KindUnavailable:     "unavailable",
	KindInternal:        "internal",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is a failure that originated at the identity authority.
type Error struct {
	Kind    Kind
	Code    codes.Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "identity authority: " + e.Kind.String()
	}
	return "identity authority: " + e.Kind.String() + ": " + e.Message
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthorized    = &Error{Kind: KindUnauthorized}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrUnavailable     = &Error{Kind: KindUnavailable}
)

// AsError returns the authority error wrapped in err, if any.
func AsError(err error) (*Error, bool) {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr, true
	}
	return nil, false
}

// KindOf returns the Kind of an authority error, or KindUnknown.
func KindOf(err error) Kind {
	if aerr, ok := AsError(err); ok {
		return aerr.Kind
	}
	return KindUnknown
}

// mapError turns a gRPC failure into an *Error. Errors without a gRPC
// status, and local cancellations, did not come from the authority and are
// wrapped as plain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok || st.Code() == codes.Canceled {
		return fmt.Errorf("rpc error: %w", err)
	}

	var kind Kind
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		kind = KindUnauthorized
	case codes.NotFound:
		kind = KindNotFound
	case codes.AlreadyExists:
		kind = KindConflict
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		kind = KindInvalidArgument
	case codes.ResourceExhausted:
		kind = KindRateLimited
	case codes.Unavailable, codes.DeadlineExceeded:
		kind = KindUnavailable
	default:
		kind = KindInternal
	}
	return &Error{Kind: kind, Code: st.Code(), Message: st.Message()}
}
