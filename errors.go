package object

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-object/anyop"
	"github.com/goliatone/go-object/voc"
)

var (
	// ErrTypeMismatch is returned when a typed read finds a different type.
	ErrTypeMismatch = errors.New("object: type mismatch")
	// ErrIncompatibleAssignment is returned by checked assignment when the
	// value cannot be widened into the slot's type.
	ErrIncompatibleAssignment = errors.New("object: incompatible assignment")
	// ErrStaleObjectIdentity is returned when a transaction or history step
	// targets an object whose last counted handle was released.
	ErrStaleObjectIdentity = errors.New("object: stale object identity")
	// ErrTransactionClosed is returned when a committed or aborted
	// transaction is used again.
	ErrTransactionClosed = errors.New("object: transaction is not open")
	ErrNothingToUndo     = errors.New("object: nothing to undo")
	ErrNothingToRedo     = errors.New("object: nothing to redo")
	// ErrHistoryConflict is returned by Undo and Redo when an object was
	// committed outside the history since the step was recorded.
	ErrHistoryConflict = errors.New("object: object changed outside history")
)

// TypeMismatchError captures the expected and actual types of a failed read.
type TypeMismatchError struct {
	Name voc.Name
	Want anyop.TypeID
	Got  anyop.TypeID
}

func (e *TypeMismatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("object: type mismatch%s: want %s, got %s", describeName(e.Name), e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrTypeMismatch
}

// IncompatibleAssignmentError captures a rejected checked assignment.
type IncompatibleAssignmentError struct {
	Name  voc.Name
	Slot  anyop.TypeID
	Value anyop.TypeID
}

func (e *IncompatibleAssignmentError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("object: cannot assign %s into %s slot%s", e.Value, e.Slot, describeName(e.Name))
}

func (e *IncompatibleAssignmentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrIncompatibleAssignment
}

// StaleObjectError names the released object a transaction tried to touch.
type StaleObjectError struct {
	ObjectID uint64
	TxnID    uuid.UUID
}

func (e *StaleObjectError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.TxnID == uuid.Nil {
		return fmt.Sprintf("object: stale object identity id=%d", e.ObjectID)
	}
	return fmt.Sprintf("object: stale object identity id=%d txn=%s", e.ObjectID, e.TxnID)
}

func (e *StaleObjectError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrStaleObjectIdentity
}

func describeName(name voc.Name) string {
	if name.IsZero() {
		return ""
	}
	return fmt.Sprintf(" name=%q", name.String())
}

func withName(err error, name voc.Name) error {
	var mismatch *TypeMismatchError
	if errors.As(err, &mismatch) && mismatch.Name.IsZero() {
		mismatch.Name = name
	}
	return err
}
