package deployconfig

import (
	"errors"
	"fmt"
)

// Descriptor errors.
var (
	// ErrMissingSection reports a required descriptor section that is
	// absent or empty.
	ErrMissingSection = errors.New("missing required section")

	// ErrInconsistentDescriptor reports descriptor fields that contradict
	// each other or the application type's profile.
	ErrInconsistentDescriptor = errors.New("inconsistent descriptor")

	// ErrSerialization reports a descriptor that cannot be serialized or
	// does not survive a round trip through the parser.
	ErrSerialization = errors.New("serialization failed")

	// ErrInternalInconsistency reports builder input that request
	// validation should have rejected.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)

// DescriptorError is a single validation violation found in a descriptor,
// tagged with the section it belongs to.
type DescriptorError struct {
	Section string
	Message string
	Err     error
}

func (e *DescriptorError) Error() string {
	if e.Section == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Section, e.Message)
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// NewDescriptorError builds a DescriptorError wrapping the given sentinel.
func NewDescriptorError(section, message string, err error) *DescriptorError {
	return &DescriptorError{Section: section, Message: message, Err: err}
}
