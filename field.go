package mtag

// State is the resolution of one field.
type State int

const (
	// StateAbsent leaves the field untouched.
	StateAbsent State = iota
	// StateClear removes the field and its fan-out group.
	StateClear
	// StateSet overwrites the field and its fan-out group.
	StateSet
)

func (s State) String() string {
	switch s {
	case StateClear:
		return "clear"
	case StateSet:
		return "set"
	default:
		return "absent"
	}
}

// FieldValue is the tri-state edit of a field carrying a payload of type T.
// The zero value is Absent.
type FieldValue[T any] struct {
	state State
	value T
}

// Absent returns a FieldValue that leaves the field untouched.
func Absent[T any]() FieldValue[T] {
	return FieldValue[T]{}
}

// Clear returns a FieldValue that removes the field.
func Clear[T any]() FieldValue[T] {
	return FieldValue[T]{state: StateClear}
}

// Set returns a FieldValue that overwrites the field with v.
func Set[T any](v T) FieldValue[T] {
	return FieldValue[T]{state: StateSet, value: v}
}

// State returns the resolution.
func (f FieldValue[T]) State() State {
	return f.state
}

// Value returns the payload. ok is false unless the state is StateSet.
func (f FieldValue[T]) Value() (v T, ok bool) {
	return f.value, f.state == StateSet
}
