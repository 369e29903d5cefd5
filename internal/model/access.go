package model

// DenyReason explains a denied capability check.
type DenyReason uint8

const (
	// ReasonNone is set on allowed decisions.
	ReasonNone DenyReason = iota
	// ReasonNotFound means the space does not exist.
	ReasonNotFound
	// ReasonNoGrant means the user holds no grant in the space.
	ReasonNoGrant
	// ReasonInsufficientCapability means the grant lacks the requested capability.
	ReasonInsufficientCapability
)

func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNotFound:
		return "not_found"
	case ReasonNoGrant:
		return "no_grant"
	case ReasonInsufficientCapability:
		return "insufficient_capability"
	default:
		return "unknown"
	}
}

// Decision is the result of an access check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true, Reason: ReasonNone}
}

// Deny returns a denying decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err converts a decision into the error a guarded operation returns.
// Missing spaces become ErrNotFound so callers can answer 404 instead of 403.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonNotFound {
		return ErrNotFound
	}
	return &AccessDeniedError{Reason: d.Reason}
}
