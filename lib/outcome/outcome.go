// Package outcome distinguishes "the source confirmed there is no such
// thing" from "we could not find out" when a lookup comes back empty.
// Collapsing the two into a nil slice loses information the caller (and
// the tests) need.
package outcome

type State int

const (
	// the lookup succeeded and carries a value
	Found State = iota
	// the source was reachable and reported no match
	Absent
	// a fetch or parse failed somewhere in the chain; the value is
	// meaningless and the absence is not authoritative
	Unavailable
)

func (s State) String() string {
	switch s {
	case Found:
		return "found"
	case Absent:
		return "absent"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

type Value[T any] struct {
	State State
	Data  T
	// cause of an Unavailable state, nil otherwise
	Err error
}

func Ok[T any](data T) Value[T] {
	return Value[T]{State: Found, Data: data}
}

func NotFound[T any]() Value[T] {
	return Value[T]{State: Absent}
}

func Failed[T any](err error) Value[T] {
	return Value[T]{State: Unavailable, Err: err}
}

func (v Value[T]) IsFound() bool {
	return v.State == Found
}
