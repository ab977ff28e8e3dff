package gnosis

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrFormat indicates a scalar literal could not be parsed.
	ErrFormat = errors.New("malformed literal")

	// ErrSchema indicates the document structurally violates the grammar.
	ErrSchema = errors.New("schema violation")

	// ErrUnknownClass indicates a PyObject names a class absent from the registry.
	ErrUnknownClass = errors.New("unknown class")

	// ErrUnknownFamily indicates a node's family could not be resolved.
	ErrUnknownFamily = errors.New("unknown family")

	// ErrDanglingRef indicates a refid with no prior id in the document.
	ErrDanglingRef = errors.New("dangling reference")

	// ErrUnsupportedType indicates the encoder was given a value it cannot
	// classify into any family.
	ErrUnsupportedType = errors.New("unsupported type")
)

// FormatError reports a scalar literal that matched no known form.
type FormatError struct {
	Literal string // the offending text, after whitespace/paren stripping
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed literal %q", e.Literal)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// SchemaError reports a structural violation of the document grammar.
type SchemaError struct {
	Element string // element where the violation was found, if known
	Attr    string // missing or offending attribute, if any
	Detail  string // free-form description
}

func (e *SchemaError) Error() string {
	switch {
	case e.Element != "" && e.Attr != "":
		return fmt.Sprintf("schema violation in <%s>: attribute %q %s", e.Element, e.Attr, detailOr(e.Detail, "missing or invalid"))
	case e.Element != "":
		return fmt.Sprintf("schema violation in <%s>: %s", e.Element, detailOr(e.Detail, "malformed element"))
	default:
		return fmt.Sprintf("schema violation: %s", detailOr(e.Detail, "malformed document"))
	}
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

func detailOr(detail, fallback string) string {
	if detail != "" {
		return detail
	}
	return fallback
}

// UnknownClassError reports a PyObject whose class has no registered factory.
type UnknownClassError struct {
	Module string
	Class  string
}

func (e *UnknownClassError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("unknown class %s.%s", e.Module, e.Class)
	}
	return fmt.Sprintf("unknown class %q", e.Class)
}

func (e *UnknownClassError) Unwrap() error {
	return ErrUnknownClass
}

// UnknownFamilyError reports a node whose family was neither given nor
// inferable from its type.
type UnknownFamilyError struct {
	Family string // the unrecognized family attribute, if one was present
	Type   string
}

func (e *UnknownFamilyError) Error() string {
	if e.Family != "" {
		return fmt.Sprintf("unknown family %q for type %q", e.Family, e.Type)
	}
	return fmt.Sprintf("family not inferable from type %q", e.Type)
}

func (e *UnknownFamilyError) Unwrap() error {
	return ErrUnknownFamily
}

// DanglingRefError reports a refid that references an id never registered.
type DanglingRefError struct {
	RefID string
}

func (e *DanglingRefError) Error() string {
	return fmt.Sprintf("dangling reference to id %q", e.RefID)
}

func (e *DanglingRefError) Unwrap() error {
	return ErrDanglingRef
}

// UnsupportedTypeError reports an encoder input that fits no family.
type UnsupportedTypeError struct {
	GoType string // the Go type of the offending value
	Detail string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unsupported type %s: %s", e.GoType, e.Detail)
	}
	return fmt.Sprintf("unsupported type %s", e.GoType)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}
