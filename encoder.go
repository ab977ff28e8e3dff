package gnosis

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
)

// encoder walks an object graph and emits the tagged XML tree. Output is
// accumulated in a buffer so a classification failure never leaves partial
// text on the caller's writer.
type encoder struct {
	buf  *bytes.Buffer
	tab  *encodeTable
	omit map[string]struct{}
}

func newEncoder(omit map[string]struct{}) *encoder {
	return &encoder{buf: &bytes.Buffer{}, tab: newEncodeTable(), omit: omit}
}

func indent(level int) string {
	return strings.Repeat("  ", level)
}

// encodeRoot emits the document header and the root PyObject. The root
// must be a class instance; bare scalars and containers have no place to
// hang module/class names.
func (e *encoder) encodeRoot(root any) error {
	attrs, module, class, ok := instanceView(root)
	if !ok {
		return &UnsupportedTypeError{GoType: typeName(root), Detail: "root must be a class instance"}
	}
	if class == "" {
		return &UnsupportedTypeError{GoType: typeName(root), Detail: "root type has no class name"}
	}

	id, _ := e.tab.visit(root)

	e.buf.WriteString("<?xml version=\"1.0\"?>\n")
	e.buf.WriteString("<!DOCTYPE PyObject SYSTEM \"PyObjects.dtd\">\n")
	fmt.Fprintf(e.buf, "<PyObject module=\"%s\" class=\"%s\" id=\"%d\">\n",
		safeContent(module), safeContent(class), id)

	for _, attr := range attrs {
		if _, skip := e.omit[attr.Name]; skip {
			continue
		}
		if err := e.attrTag(attr.Name, attr.Value, 0); err != nil {
			return err
		}
	}

	e.buf.WriteString("</PyObject>\n")
	return nil
}

func (e *encoder) attrTag(name string, v any, level int) error {
	start := indent(level) + `<attr name="` + safeContent(name) + `" `
	closing := indent(level) + "</attr>\n"
	return e.tagValue(start, closing, v, level)
}

func (e *encoder) itemTag(v any, level int) error {
	start := indent(level) + "<item "
	closing := indent(level) + "</item>\n"
	return e.tagValue(start, closing, v, level)
}

func (e *encoder) entryTag(key, val any, level int) error {
	ind := indent(level)
	e.buf.WriteString(ind + "<entry>\n")
	if err := e.tagValue(ind+"  <key ", ind+"  </key>\n", key, level+1); err != nil {
		return err
	}
	if err := e.tagValue(ind+"  <val ", ind+"  </val>\n", val, level+1); err != nil {
		return err
	}
	e.buf.WriteString(ind + "</entry>\n")
	return nil
}

// tagValue classifies v into a family and completes the already-started
// tag. Scalars close inline; compounds either recurse into children under
// a fresh id or collapse to a refid when the identity table has seen them.
func (e *encoder) tagValue(start, closing string, v any, level int) error {
	if v == nil {
		e.noneTag(start)
		return nil
	}

	switch t := v.(type) {
	case bool:
		name := "False"
		if t {
			name = "True"
		}
		e.buf.WriteString(start + `type="` + name + `" value="" />` + "\n")
		return nil

	case string:
		e.buf.WriteString(start + `type="string" value="` + safeString(t) + `" />` + "\n")
		return nil

	case []byte:
		e.buf.WriteString(start + `type="bytes" value="` + safeString(string(t)) + `" />` + "\n")
		return nil

	case Tuple:
		return e.compound(start, closing, `type="tuple"`, v, level, func(lv int) error {
			return e.items([]any(t), lv)
		})

	case *List:
		if t == nil {
			e.noneTag(start)
			return nil
		}
		return e.compound(start, closing, `type="list"`, v, level, func(lv int) error {
			return e.items([]any(*t), lv)
		})

	case []any:
		return e.compound(start, closing, `type="list"`, v, level, func(lv int) error {
			return e.items(t, lv)
		})

	case map[any]any:
		if t == nil {
			e.noneTag(start)
			return nil
		}
		return e.compound(start, closing, `type="dict"`, v, level, func(lv int) error {
			for key, val := range t {
				if err := e.entryTag(key, val, lv); err != nil {
					return err
				}
			}
			return nil
		})
	}

	// a typed nil pointer or map is absence, exactly as an untyped nil
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Map) && rv.IsNil() {
		e.noneTag(start)
		return nil
	}

	if s, ok, err := numericText(v); err != nil {
		return err
	} else if ok {
		e.buf.WriteString(start + `type="numeric" value="` + s + `" />` + "\n")
		return nil
	}

	if attrs, module, class, ok := instanceView(v); ok {
		famtype := `family="obj" type="` + safeContent(class) +
			`" module="` + safeContent(module) + `" class="` + safeContent(class) + `"`
		return e.compound(start, closing, famtype, v, level, func(lv int) error {
			for _, attr := range attrs {
				if err := e.attrTag(attr.Name, attr.Value, lv); err != nil {
					return err
				}
			}
			return nil
		})
	}

	// named container types reach here through their reflect kind
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// a named byte-slice type is still a byte-string, not a sequence
			e.buf.WriteString(start + `type="bytes" value="` + safeString(string(rv.Bytes())) + `" />` + "\n")
			return nil
		}
		return e.compound(start, closing, `type="list"`, v, level, func(lv int) error {
			return e.reflectItems(rv, lv)
		})
	case reflect.Array:
		return e.compound(start, closing, `type="tuple"`, v, level, func(lv int) error {
			return e.reflectItems(rv, lv)
		})
	case reflect.Map:
		return e.compound(start, closing, `type="dict"`, v, level, func(lv int) error {
			iter := rv.MapRange()
			for iter.Next() {
				if err := e.entryTag(iter.Key().Interface(), iter.Value().Interface(), lv); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return &UnsupportedTypeError{GoType: typeName(v)}
}

// compound completes a container tag, honoring the identity table. The
// container registers before its children encode; a second sighting
// collapses to a self-closed refid tag.
func (e *encoder) compound(start, closing, famtype string, v any, level int, children func(int) error) error {
	id, seen := e.tab.visit(v)
	if seen {
		fmt.Fprintf(e.buf, "%s%s refid=\"%d\" />\n", start, famtype, id)
		return nil
	}
	fmt.Fprintf(e.buf, "%s%s id=\"%d\">\n", start, famtype, id)
	if err := children(level + 1); err != nil {
		return err
	}
	e.buf.WriteString(closing)
	return nil
}

func (e *encoder) noneTag(start string) {
	e.buf.WriteString(start + `type="None" />` + "\n")
}

func (e *encoder) items(items []any, level int) error {
	for _, item := range items {
		if err := e.itemTag(item, level); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) reflectItems(rv reflect.Value, level int) error {
	for i := 0; i < rv.Len(); i++ {
		if err := e.itemTag(rv.Index(i).Interface(), level); err != nil {
			return err
		}
	}
	return nil
}

// numericText formats v when it is any Go numeric kind, widening to the
// canonical int64/uint64/float64/complex128 forms first.
func numericText(v any) (string, bool, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s, err := ntoa(rv.Int())
		return s, true, err
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s, err := ntoa(rv.Uint())
		return s, true, err
	case reflect.Float32, reflect.Float64:
		s, err := ntoa(rv.Float())
		return s, true, err
	case reflect.Complex64, reflect.Complex128:
		s, err := ntoa(rv.Complex())
		return s, true, err
	}
	return "", false, nil
}
