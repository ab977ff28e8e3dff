package gnosis

import (
	"fmt"
	"path"
	"reflect"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Field naming and skip markers live in the pickle tag:
	//   Field string `pickle:"field_name"`
	//   Cache string `pickle:"-"`
	sentinel.Tag("pickle")
}

// instanceView resolves a value into an encodable instance: its ordered
// attributes plus module/class names. Picklable bypasses the reflection
// path; otherwise the value must be a non-nil pointer to a struct.
func instanceView(v any) (attrs []Attr, module, class string, ok bool) {
	if p, isP := v.(Picklable); isP {
		module, class = classNameOf(v)
		return p.PickleAttrs(), module, class, true
	}
	attrs, ok = structAttrs(v)
	if !ok {
		return nil, "", "", false
	}
	module, class = classNameOf(v)
	return attrs, module, class, true
}

// classNameOf derives module/class names for a value. ClassNamer wins;
// the fallback is the Go type name and the base of its package path.
func classNameOf(v any) (module, class string) {
	if n, ok := v.(ClassNamer); ok {
		return n.PickleClass()
	}
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if pkg := rt.PkgPath(); pkg != "" {
		module = path.Base(pkg)
	}
	return module, rt.Name()
}

// structAttrs returns the exported fields of a struct pointer as ordered
// attrs, honoring pickle tags.
func structAttrs(v any) ([]Attr, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, false
	}
	elem := rv.Elem()
	meta := scanStructType(elem.Type())
	attrs := make([]Attr, 0, len(meta.Fields))
	for _, field := range meta.Fields {
		name, skip := fieldName(field)
		if skip {
			continue
		}
		attrs = append(attrs, Attr{Name: name, Value: elem.FieldByIndex(field.Index).Interface()})
	}
	return attrs, true
}

// setStructAttr assigns a decoded value to the named field of a struct
// pointer, resolving pickle tag renames.
func setStructAttr(v any, name string, val any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &UnsupportedTypeError{GoType: typeName(v), Detail: "instance is not a struct pointer"}
	}
	elem := rv.Elem()
	meta := scanStructType(elem.Type())
	for _, field := range meta.Fields {
		fname, skip := fieldName(field)
		if skip || fname != name {
			continue
		}
		return assignField(elem.FieldByIndex(field.Index), name, val)
	}
	return &SchemaError{Element: "attr", Attr: "name", Detail: fmt.Sprintf("no field %q on %s", name, elem.Type())}
}

// assignField stores a decoded value into a struct field, converting
// between the decoder's canonical scalar types and narrower field types
// where the conversion is lossless in kind.
func assignField(field reflect.Value, name string, val any) error {
	if !field.CanSet() {
		return &SchemaError{Element: "attr", Attr: "name", Detail: fmt.Sprintf("field %q is not settable", name)}
	}
	if val == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	fv := reflect.ValueOf(val)
	ft := field.Type()

	if fv.Type().AssignableTo(ft) {
		field.Set(fv)
		return nil
	}

	// decoded numerics are int64/float64/complex128; allow narrowing into
	// the field's numeric kind
	if isNumericKind(fv.Kind()) && isNumericKind(ft.Kind()) {
		field.Set(fv.Convert(ft))
		return nil
	}

	// a decoded *List populates plain slice-typed fields
	if _, ok := val.(*List); ok && ft.Kind() == reflect.Slice {
		if fv.Elem().Type().AssignableTo(ft) {
			field.Set(fv.Elem())
			return nil
		}
	}

	return &UnsupportedTypeError{
		GoType: typeName(val),
		Detail: fmt.Sprintf("cannot assign to field %q of type %s", name, ft),
	}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// fieldName resolves the document name for a struct field, honoring the
// pickle tag. The second return reports whether the field is skipped.
func fieldName(field sentinel.FieldMetadata) (string, bool) {
	if tag, ok := field.Tags["pickle"]; ok {
		if tag == "-" {
			return "", true
		}
		if tag != "" {
			return tag, false
		}
	}
	return field.Name, false
}

// scanStructType returns sentinel metadata for a struct type, building it
// locally when the type has not been scanned through the generic path.
func scanStructType(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        pickleTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// pickleTags extracts pickle tags from a struct tag.
func pickleTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	if val, ok := tag.Lookup("pickle"); ok {
		tags["pickle"] = val
	}
	return tags
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
