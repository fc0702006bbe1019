package lookup

import "fmt"

// Kind is one of the closed set of user-facing failure categories the shell
// selects an error view with.
type Kind string

const (
	// KindPermission means the backend answered with an HTML sign-in page
	// instead of JSON. The deployment requires authentication when it must
	// allow anonymous access.
	KindPermission Kind = "PERMISSION"
	// KindNetwork means the connection could not be established at all.
	KindNetwork Kind = "NETWORK"
	// KindInvalidResponse means the backend answered 2xx with a body that is
	// neither JSON nor a recognizable sign-in page.
	KindInvalidResponse Kind = "INVALID_RESPONSE"
	// KindServerError means the backend reported a failure, either as a non-2xx
	// status or as an explicit error string in the payload.
	KindServerError Kind = "SERVER_ERROR"
	// KindUnknown is the fallback for anything not matching the above.
	KindUnknown Kind = "UNKNOWN"
)

// Error is a classified lookup failure. Kind selects the error view, Detail is
// the human-readable diagnostic shown alongside it.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}
