package gnosis

import (
	"errors"
	"testing"
)

func TestErrorSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		other    error
	}{
		{"format", &FormatError{Literal: "xyz"}, ErrFormat, ErrSchema},
		{"schema", &SchemaError{Element: "attr"}, ErrSchema, ErrFormat},
		{"unknown class", &UnknownClassError{Class: "Node"}, ErrUnknownClass, ErrSchema},
		{"unknown family", &UnknownFamilyError{Type: "blob"}, ErrUnknownFamily, ErrSchema},
		{"dangling ref", &DanglingRefError{RefID: "7"}, ErrDanglingRef, ErrSchema},
		{"unsupported type", &UnsupportedTypeError{GoType: "chan int"}, ErrUnsupportedType, ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("%v should unwrap to %v", tt.err, tt.sentinel)
			}
			if errors.Is(tt.err, tt.other) {
				t.Errorf("%v should not match %v", tt.err, tt.other)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "format",
			err:  &FormatError{Literal: "1..2"},
			want: `malformed literal "1..2"`,
		},
		{
			name: "schema missing attribute",
			err:  &SchemaError{Element: "attr", Attr: "name"},
			want: `schema violation in <attr>: attribute "name" missing or invalid`,
		},
		{
			name: "schema element",
			err:  &SchemaError{Element: "blob", Detail: "not in the grammar"},
			want: "schema violation in <blob>: not in the grammar",
		},
		{
			name: "schema bare",
			err:  &SchemaError{},
			want: "schema violation: malformed document",
		},
		{
			name: "unknown class with module",
			err:  &UnknownClassError{Module: "node", Class: "Node"},
			want: "unknown class node.Node",
		},
		{
			name: "unknown class bare",
			err:  &UnknownClassError{Class: "Node"},
			want: `unknown class "Node"`,
		},
		{
			name: "unknown family explicit",
			err:  &UnknownFamilyError{Family: "blob", Type: "thing"},
			want: `unknown family "blob" for type "thing"`,
		},
		{
			name: "unknown family inferred",
			err:  &UnknownFamilyError{Type: "thing"},
			want: `family not inferable from type "thing"`,
		},
		{
			name: "dangling ref",
			err:  &DanglingRefError{RefID: "42"},
			want: `dangling reference to id "42"`,
		},
		{
			name: "unsupported type",
			err:  &UnsupportedTypeError{GoType: "chan int"},
			want: "unsupported type chan int",
		},
		{
			name: "unsupported type with detail",
			err:  &UnsupportedTypeError{GoType: "gnosis.List", Detail: "root must be a class instance"},
			want: "unsupported type gnosis.List: root must be a class instance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
