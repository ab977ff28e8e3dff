// Package gnosis serializes arbitrary object graphs, including cyclic and
// shared references, into a self-describing XML dialect and reconstructs
// equivalent graphs from that XML.
//
// The package has no knowledge of any document domain. It tracks object
// identity so that shared sub-structures decode to shared instances and
// self-references never recurse forever, and it tags every node with a
// family/type pair so the format stays decodable as the host's type set
// evolves.
//
// # Families
//
// Every node belongs to one of seven structural families:
//
//   - none: absence of a value
//   - uniq: the type alone carries the value (booleans)
//   - atom: scalar with no sub-structure (number, text, byte-string)
//   - seq:  ordered sequence (list, tuple)
//   - map:  key/value association
//   - obj:  class instance with named attributes
//   - lang: host-language constructs; accepted in old documents, never produced
//
// # Basic Usage
//
//	type Node struct {
//	    Label string
//	    Next  any
//	}
//
//	gnosis.RegisterType[Node]("graph", "Node")
//
//	a := &Node{Label: "a"}
//	b := &Node{Label: "b", Next: a}
//	a.Next = b // two-node cycle
//
//	data, _ := gnosis.Marshal(ctx, a)
//	root, _ := gnosis.Unmarshal(ctx, data)
//	// root.(*Node).Next.(*Node).Next == root
//
// # Identity
//
// Compound values (sequences, mappings, instances) are assigned a logical
// id at their first occurrence, before their children are encoded; every
// later occurrence emits a back-reference to that id. The identity table
// is scoped to one call, so concurrent Marshal/Unmarshal calls are
// independent.
//
// # Classes
//
// The decoder never reflects on arbitrary types. Any class that may appear
// in a document must be registered first, either on the default registry
// or on an isolated one passed via WithRegistry:
//
//	gnosis.Register("graph", "Node", func() any { return new(Node) })
//
// Factories produce empty shells; the decoder populates fields afterward,
// which is what lets an instance's own attributes reference it.
//
// # Override Interfaces
//
// Plain struct pointers are encoded and decoded through reflection. Types
// can bypass reflection by implementing Picklable (encode), AttrSetter
// (decode), or ClassNamer (naming). Reflection-path field naming honors
// the pickle struct tag: `pickle:"field_name"` renames, `pickle:"-"` skips.
//
// # Codec Providers
//
// The engine also implements the Codec interface (NewCodec) for callers
// that plumb serialization through a content-type seam. The json, yaml and
// msgpack subpackages provide plain tree codecs behind the same interface;
// only the XML pickle codec preserves references.
package gnosis

import (
	"bytes"
	"context"
	"io"
	"time"
)

// Option configures one Marshal/Dump or Unmarshal/Load call.
type Option func(*options)

type options struct {
	omit     map[string]struct{}
	registry *Registry
}

// WithOmit names top-level fields of the root instance to skip when
// encoding, such as transient or cache fields.
func WithOmit(fields ...string) Option {
	return func(o *options) {
		if o.omit == nil {
			o.omit = make(map[string]struct{}, len(fields))
		}
		for _, f := range fields {
			o.omit[f] = struct{}{}
		}
	}
}

// WithRegistry decodes against an isolated class registry instead of the
// package default.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Marshal serializes a root instance into the XML dialect. The root must
// be a class instance: a Picklable value or a struct pointer.
//
// The context is used for signal correlation only; traversal is
// synchronous and is not cancelled mid-walk.
func Marshal(ctx context.Context, root any, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)

	start := time.Now()
	emitDumpStart(ctx, typeName(root))

	enc := newEncoder(o.omit)
	err := enc.encodeRoot(root)

	emitDumpComplete(ctx, typeName(root), enc.buf.Len(), time.Since(start), enc.tab.count(), err)
	if err != nil {
		return nil, err
	}
	return enc.buf.Bytes(), nil
}

// Dump serializes a root instance and writes the document to w. Nothing
// is written when encoding fails.
func Dump(ctx context.Context, w io.Writer, root any, opts ...Option) error {
	data, err := Marshal(ctx, root, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Unmarshal reconstructs the object graph encoded in data.
func Unmarshal(ctx context.Context, data []byte, opts ...Option) (any, error) {
	return Load(ctx, bytes.NewReader(data), opts...)
}

// Load reconstructs the object graph read from r. Every class named by a
// PyObject in the document must be registered before the call. A failed
// load returns no partial result; a half-built cyclic structure cannot be
// safely salvaged.
func Load(ctx context.Context, r io.Reader, opts ...Option) (any, error) {
	o := applyOptions(opts)
	reg := o.registry
	if reg == nil {
		reg = defaultRegistry
	}

	start := time.Now()
	emitLoadStart(ctx)

	var root any
	tree, err := parseDocument(r)
	var objects int
	if err == nil {
		dec := newDecoder(reg)
		root, err = dec.decodeRoot(tree)
		objects = dec.tab.count()
	}

	emitLoadComplete(ctx, typeName(root), time.Since(start), objects, err)
	if err != nil {
		return nil, err
	}
	return root, nil
}
