package gnosis

// Attr is one named field of an encoded instance.
type Attr struct {
	Name  string
	Value any
}

// Override interfaces allow types to bypass reflection-based field access.
// When a type implements one of these interfaces, the engine calls the
// interface method instead of scanning struct metadata.

// Picklable bypasses reflection for encoding. PickleAttrs returns the
// instance's named fields in a stable order; that order is the order they
// appear in the document.
type Picklable interface {
	PickleAttrs() []Attr
}

// AttrSetter bypasses reflection for decoding. SetAttr is called once per
// decoded attribute, possibly with a value that references the instance
// itself before it is fully populated.
type AttrSetter interface {
	SetAttr(name string, value any) error
}

// ClassNamer overrides the module and class names recorded for a value.
// Without it, names derive from the value's Go type and package.
type ClassNamer interface {
	PickleClass() (module, class string)
}

// List is a mutable ordered sequence. Sequences decode to *List so that a
// self-referential list resolves to the same instance it is an element of.
type List []any

// Tuple is a fixed-arity ordered sequence. Tuples are finalized after
// their items decode; self-referential tuples are not supported.
type Tuple []any
