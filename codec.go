package gnosis

import (
	"context"
	"reflect"
)

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// pickleCodec adapts the graph engine to the Codec seam.
type pickleCodec struct {
	opts []Option
}

// NewCodec returns a Codec backed by the reference-preserving XML pickler.
// Options apply to every Marshal and Unmarshal call made through it.
func NewCodec(opts ...Option) Codec {
	return &pickleCodec{opts: opts}
}

// ContentType returns the MIME type for the XML pickle dialect.
func (c *pickleCodec) ContentType() string {
	return "application/pyobjects+xml"
}

// Marshal encodes v as an XML pickle document.
func (c *pickleCodec) Marshal(v any) ([]byte, error) {
	return Marshal(context.Background(), v, c.opts...)
}

// Unmarshal decodes an XML pickle document into v, which must be a
// non-nil pointer whose element type can hold the decoded root.
func (c *pickleCodec) Unmarshal(data []byte, v any) error {
	root, err := Unmarshal(context.Background(), data, c.opts...)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &UnsupportedTypeError{GoType: typeName(v), Detail: "target must be a non-nil pointer"}
	}
	elem := rv.Elem()

	if root == nil {
		elem.Set(reflect.Zero(elem.Type()))
		return nil
	}
	s := reflect.ValueOf(root)
	if !s.Type().AssignableTo(elem.Type()) {
		return &UnsupportedTypeError{GoType: typeName(root), Detail: "decoded root does not fit target " + elem.Type().String()}
	}
	elem.Set(s)
	return nil
}
