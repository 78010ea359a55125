// Package guard provides the constructor-guard pattern used by commands,
// queries, and value objects to detect zero-value instances that bypassed
// their designated constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when a nil validation
// error is supplied, so that validation always fails with a meaningful
// message for improperly constructed objects.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures that a struct embedding it was created through its
// constructor function rather than as a zero value. The guard holds an
// internal flag that only the constructor path sets, letting Validate
// distinguish properly built objects from direct struct literals.
//
// Example:
//
//	var ErrNotConstructed = errors.New("Command must be created via NewCommand")
//
//	type Command struct {
//	    guard guard.ConstructorGuard
//	}
//
//	func NewCommand() Command {
//	    return Command{guard: guard.NewConstructorGuard()}
//	}
//
//	func (c Command) Validate() error {
//	    return c.guard.Validate(ErrNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the owning object as properly
// constructed. Call it from the object's constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the owning object was built via its constructor.
// For zero-value objects it returns validationError, or
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
