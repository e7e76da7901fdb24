package controls

import "fmt"

// MissingArgumentError indicates a required command argument was not supplied
// (or was supplied empty).
type MissingArgumentError struct {
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.Argument)
}

// WrongTypeError indicates an argument was supplied with an unusable type.
type WrongTypeError struct {
	Argument string
	Want     string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("argument %s must be a %s", e.Argument, e.Want)
}

// NotFoundError indicates no discovered parameter matched the given name or id.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no sampler parameter matches %q", e.Name)
}

// NotFiniteError indicates the value supplied for a numeric parameter did not
// parse to a finite number.
type NotFiniteError struct {
	Input string
}

func (e *NotFiniteError) Error() string {
	return fmt.Sprintf("value %q is not a finite number", e.Input)
}
