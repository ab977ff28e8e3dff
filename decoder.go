package gnosis

import (
	"encoding/xml"
	"io"
	"reflect"
)

// element is one node of the parsed document tree. The tokenizer has
// already consumed the XML entity layer of attribute values and character
// data by the time they land here.
type element struct {
	name     string
	attrs    map[string]string
	text     string
	children []*element
}

func (el *element) attr(name string) (string, bool) {
	v, ok := el.attrs[name]
	return v, ok
}

// parseDocument reads the XML text into an element tree. The declaration,
// the PyObjects DOCTYPE, and comments are skipped.
func parseDocument(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	var root *element
	var stack []*element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SchemaError{Detail: err.Error()}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &SchemaError{Element: t.Name.Local, Detail: "multiple document roots"}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}

	if root == nil {
		return nil, &SchemaError{Detail: "empty document"}
	}
	return root, nil
}

// decoder reconstructs an object graph from a parsed element tree.
type decoder struct {
	tab *decodeTable
	reg *Registry
}

func newDecoder(reg *Registry) *decoder {
	return &decoder{tab: newDecodeTable(), reg: reg}
}

func (d *decoder) decodeRoot(root *element) (any, error) {
	if root.name != "PyObject" {
		return nil, &SchemaError{Element: root.name, Detail: "document root must be PyObject"}
	}
	return d.decodeInstance(root)
}

// decodeInstance materializes a class instance from a PyObject element or
// from a value node tagged family="obj". The empty shell registers under
// its id before any attribute decodes, so attributes may reference the
// instance itself.
func (d *decoder) decodeInstance(el *element) (any, error) {
	class, ok := el.attr("class")
	if !ok || class == "" {
		return nil, &SchemaError{Element: el.name, Attr: "class"}
	}
	module, _ := el.attr("module")

	factory, ok := d.reg.Lookup(module, class)
	if !ok {
		return nil, &UnknownClassError{Module: module, Class: class}
	}
	obj := factory()

	id, _ := el.attr("id")
	d.tab.register(id, obj)

	for _, child := range el.children {
		if child.name != "attr" {
			return nil, &SchemaError{Element: child.name, Detail: "instances hold only attr children"}
		}
		name, ok := child.attr("name")
		if !ok || name == "" {
			return nil, &SchemaError{Element: "attr", Attr: "name"}
		}
		val, err := d.decodeValue(child)
		if err != nil {
			return nil, err
		}
		if err := setAttr(obj, name, val); err != nil {
			return nil, err
		}
	}

	return obj, nil
}

// setAttr assigns a decoded attribute, preferring the AttrSetter override
// before the reflection path.
func setAttr(obj any, name string, val any) error {
	if s, ok := obj.(AttrSetter); ok {
		return s.SetAttr(name, val)
	}
	return setStructAttr(obj, name, val)
}

// decodeValue materializes the value carried by an attr, item, key or val
// node. The refid check runs before family resolution; old documents set
// type="ref" on back-references, which no family table can resolve.
func (d *decoder) decodeValue(el *element) (any, error) {
	if ref, ok := el.attr("refid"); ok && ref != "" {
		v, ok := d.tab.lookup(ref)
		if !ok {
			return nil, &DanglingRefError{RefID: ref}
		}
		return v, nil
	}

	typename, _ := el.attr("type")
	if typename == "" {
		// an embedded instance may arrive as a nested PyObject element
		if len(el.children) == 1 && el.children[0].name == "PyObject" {
			return d.decodeInstance(el.children[0])
		}
		return nil, &SchemaError{Element: el.name, Attr: "type"}
	}
	famname, _ := el.attr("family")
	family, err := resolveFamily(famname, typename)
	if err != nil {
		return nil, err
	}

	switch family {
	case FamilyNone:
		return nil, nil

	case FamilyUniq:
		switch typename {
		case "True":
			return true, nil
		case "False":
			return false, nil
		}
		return nil, &SchemaError{Element: el.name, Attr: "type", Detail: "unknown uniq type " + typename}

	case FamilyAtom:
		return d.decodeAtom(el, typename)

	case FamilySeq:
		return d.decodeSeq(el, typename)

	case FamilyMap:
		return d.decodeMap(el)

	case FamilyObj:
		return d.decodeInstance(el)

	case FamilyLang:
		// host-language constructs from old documents carry nothing
		// representable here; they decode to absence
		return nil, nil
	}

	return nil, &UnknownFamilyError{Family: famname, Type: typename}
}

func (d *decoder) decodeAtom(el *element, typename string) (any, error) {
	text, err := valueText(el)
	if err != nil {
		return nil, err
	}
	switch typename {
	case "numeric":
		return aton(text)
	case "string":
		return text, nil
	case "bytes":
		return []byte(text), nil
	}
	return nil, &SchemaError{Element: el.name, Attr: "type", Detail: "unknown atom type " + typename}
}

// decodeSeq materializes a sequence. A list shell registers under the
// node's id before items decode, which is mandatory for cyclic lists.
// Tuples only exist once finalized, so their id registers after the
// items; a tuple's reference to itself is therefore dangling.
func (d *decoder) decodeSeq(el *element, typename string) (any, error) {
	id, _ := el.attr("id")
	shell := new(List)
	if typename != "tuple" {
		d.tab.register(id, shell)
	}

	for _, child := range el.children {
		if child.name != "item" {
			return nil, &SchemaError{Element: child.name, Detail: "sequences hold only item children"}
		}
		v, err := d.decodeValue(child)
		if err != nil {
			return nil, err
		}
		*shell = append(*shell, v)
	}

	if typename == "tuple" {
		t := Tuple(*shell)
		d.tab.register(id, t)
		return t, nil
	}
	return shell, nil
}

// decodeMap materializes a mapping, registering the shell before entries
// decode. Keys must be comparable; the wire format permits compound keys
// but a Go map cannot hold them.
func (d *decoder) decodeMap(el *element) (any, error) {
	id, _ := el.attr("id")
	m := make(map[any]any, len(el.children))
	d.tab.register(id, m)

	for _, child := range el.children {
		if child.name != "entry" {
			return nil, &SchemaError{Element: child.name, Detail: "mappings hold only entry children"}
		}
		var keyEl, valEl *element
		for _, kv := range child.children {
			switch kv.name {
			case "key":
				keyEl = kv
			case "val":
				valEl = kv
			default:
				return nil, &SchemaError{Element: kv.name, Detail: "entries hold only key and val children"}
			}
		}
		if keyEl == nil || valEl == nil {
			return nil, &SchemaError{Element: "entry", Detail: "entry requires one key and one val"}
		}

		key, err := d.decodeValue(keyEl)
		if err != nil {
			return nil, err
		}
		val, err := d.decodeValue(valEl)
		if err != nil {
			return nil, err
		}
		if !comparableValue(key) {
			return nil, &SchemaError{Element: "key", Detail: "map key is not comparable"}
		}
		m[key] = val
	}

	return m, nil
}

// valueText locates a scalar's text: the value attribute when present,
// the element body otherwise. Both forms decode identically; only the
// attribute form carries the extra string-literal quoting layer.
func valueText(el *element) (string, error) {
	if v, ok := el.attr("value"); ok {
		return unquoteLiteral(v)
	}
	return el.text, nil
}

func comparableValue(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}
