package kernel

// patchOp is the tri-state tag of a Patch.
type patchOp int

const (
	patchKeep patchOp = iota
	patchClear
	patchSet
)

// Patch is an explicit tri-state optional used by all partial updates in the
// lifecycle core. A field in a partial update is in exactly one of three
// states, and the distinction between "absent" and "explicit null" is part of
// the external contract:
//
//   - Keep:  the key was absent from the input; leave the field untouched
//   - Clear: the key was an explicit null; clear the field
//   - Set:   the key carried a value; replace the field
//
// Go's native pointer types cannot encode all three states on their own,
// which is why the tag is explicit.
//
// The zero value of Patch is Keep, so an untouched struct of Patch fields
// means "change nothing".
//
// Example:
//
//	patch := serviceorder.TimestampsPatch{
//	    ArrivedAt: kernel.Set(arrivedAt),
//	    CheckInAt: kernel.Clear[time.Time](),
//	}
type Patch[T any] struct {
	op    patchOp
	value T
}

// Keep returns a Patch that leaves the field untouched. Equivalent to the
// zero value; provided for symmetry and readable call sites.
func Keep[T any]() Patch[T] {
	return Patch[T]{op: patchKeep}
}

// Clear returns a Patch that clears the field (explicit null).
func Clear[T any]() Patch[T] {
	return Patch[T]{op: patchClear}
}

// Set returns a Patch that replaces the field with v.
func Set[T any](v T) Patch[T] {
	return Patch[T]{op: patchSet, value: v}
}

// IsKeep reports whether the patch leaves the field untouched.
func (p Patch[T]) IsKeep() bool {
	return p.op == patchKeep
}

// IsClear reports whether the patch clears the field.
func (p Patch[T]) IsClear() bool {
	return p.op == patchClear
}

// IsSet reports whether the patch replaces the field.
func (p Patch[T]) IsSet() bool {
	return p.op == patchSet
}

// Value returns the replacement value and true when the patch is Set.
func (p Patch[T]) Value() (T, bool) {
	if p.op != patchSet {
		var zero T
		return zero, false
	}
	return p.value, true
}

// Apply resolves the patch against the current pointer-shaped field value:
// Keep returns current, Clear returns nil, Set returns a pointer to the new
// value.
func (p Patch[T]) Apply(current *T) *T {
	switch p.op {
	case patchClear:
		return nil
	case patchSet:
		v := p.value
		return &v
	default:
		return current
	}
}
