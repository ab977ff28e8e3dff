package gnosis

import (
	"context"
	"strings"
	"testing"
)

type encSample struct {
	Name    string
	Count   int
	Ratio   float64
	Ok      bool
	Nothing any
	Items   *List
}

func TestEncodeDocumentLayout(t *testing.T) {
	root := &encSample{
		Name:  "demo",
		Count: 3,
		Ratio: 1.5,
		Ok:    true,
		Items: &List{int64(1), "two"},
	}

	data, err := Marshal(context.Background(), root)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `<?xml version="1.0"?>
<!DOCTYPE PyObject SYSTEM "PyObjects.dtd">
<PyObject module="gnosis" class="encSample" id="1">
<attr name="Name" type="string" value="demo" />
<attr name="Count" type="numeric" value="3" />
<attr name="Ratio" type="numeric" value="1.5" />
<attr name="Ok" type="True" value="" />
<attr name="Nothing" type="None" />
<attr name="Items" type="list" id="2">
  <item type="numeric" value="1" />
  <item type="string" value="two" />
</attr>
</PyObject>
`
	if string(data) != want {
		t.Errorf("document mismatch:\ngot:\n%s\nwant:\n%s", data, want)
	}
}

func TestEncodeMapEntries(t *testing.T) {
	type holder struct {
		Meta map[any]any
	}
	root := &holder{Meta: map[any]any{"k": int64(1)}}

	data, err := Marshal(context.Background(), root)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	wantBlock := `<attr name="Meta" type="dict" id="2">
  <entry>
    <key type="string" value="k" />
    <val type="numeric" value="1" />
  </entry>
</attr>
`
	if !strings.Contains(string(data), wantBlock) {
		t.Errorf("document missing entry block:\n%s", data)
	}
}

func TestEncodeSharedReference(t *testing.T) {
	type pair struct {
		A *List
		B *List
	}
	shared := &List{int64(7)}
	data, err := Marshal(context.Background(), &pair{A: shared, B: shared})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	doc := string(data)
	if !strings.Contains(doc, `<attr name="A" type="list" id="2">`) {
		t.Errorf("first occurrence missing id:\n%s", doc)
	}
	if !strings.Contains(doc, `<attr name="B" type="list" refid="2" />`) {
		t.Errorf("second occurrence missing refid:\n%s", doc)
	}
	if strings.Count(doc, `value="7"`) != 1 {
		t.Errorf("shared list encoded more than once:\n%s", doc)
	}
}

func TestEncodeSelfReferenceTerminates(t *testing.T) {
	type holder struct {
		Items *List
	}
	l := &List{}
	*l = append(*l, l)

	data, err := Marshal(context.Background(), &holder{Items: l})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), `<item type="list" refid="2" />`) {
		t.Errorf("self reference not collapsed:\n%s", data)
	}
}

func TestEncodeNestedInstance(t *testing.T) {
	type inner struct {
		N int
	}
	type outer struct {
		Child *inner
	}

	data, err := Marshal(context.Background(), &outer{Child: &inner{N: 9}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	doc := string(data)
	if !strings.Contains(doc, `<attr name="Child" family="obj" type="inner" module="gnosis" class="inner" id="2">`) {
		t.Errorf("embedded instance header missing:\n%s", doc)
	}
	if !strings.Contains(doc, `  <attr name="N" type="numeric" value="9" />`) {
		t.Errorf("embedded instance attribute missing:\n%s", doc)
	}
}

func TestEncodeOmitFields(t *testing.T) {
	root := &encSample{Name: "demo", Count: 1}

	data, err := Marshal(context.Background(), root, WithOmit("Count", "Items"))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	doc := string(data)
	if strings.Contains(doc, `name="Count"`) || strings.Contains(doc, `name="Items"`) {
		t.Errorf("omitted fields present:\n%s", doc)
	}
	if !strings.Contains(doc, `name="Name"`) {
		t.Errorf("surviving field missing:\n%s", doc)
	}
}

func TestEncodeNilContainerFields(t *testing.T) {
	type cell struct {
		Label string
		Next  *cell
	}
	type holder struct {
		Tags  *List
		Head  *cell
		Meta  map[any]any
		Table map[string]int
	}

	data, err := Marshal(context.Background(), &holder{})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	doc := string(data)
	for _, name := range []string{"Tags", "Head", "Meta", "Table"} {
		want := `<attr name="` + name + `" type="None" />`
		if !strings.Contains(doc, want) {
			t.Errorf("nil field %s not encoded as absence:\n%s", name, doc)
		}
	}
}

func TestEncodeNamedByteSlice(t *testing.T) {
	type blob []byte
	type holder struct {
		Data blob
	}

	data, err := Marshal(context.Background(), &holder{Data: blob("raw & bytes")})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	doc := string(data)
	if !strings.Contains(doc, `<attr name="Data" type="bytes" value="raw &amp; bytes" />`) {
		t.Errorf("named byte slice not encoded as bytes:\n%s", doc)
	}
	if strings.Contains(doc, `type="list"`) {
		t.Errorf("named byte slice leaked into the sequence form:\n%s", doc)
	}
}

func TestEncodeRejectsNonInstanceRoot(t *testing.T) {
	for _, root := range []any{nil, 42, "text", &List{1}, map[any]any{}} {
		if _, err := Marshal(context.Background(), root); err == nil {
			t.Errorf("Marshal(%T) should fail for non-instance root", root)
		}
	}
}

func TestEncodeRejectsUnclassifiableValue(t *testing.T) {
	type holder struct {
		Ch chan int
	}
	_, err := Marshal(context.Background(), &holder{Ch: make(chan int)})
	if err == nil {
		t.Fatal("Marshal() should fail for a channel field")
	}
}

func TestEncodeGoNativeContainers(t *testing.T) {
	type holder struct {
		Words []string
		Pair  [2]int
		Table map[string]int
	}
	root := &holder{
		Words: []string{"a", "b"},
		Pair:  [2]int{1, 2},
		Table: map[string]int{"x": 1},
	}

	data, err := Marshal(context.Background(), root)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	doc := string(data)
	if !strings.Contains(doc, `<attr name="Words" type="list" id="2">`) {
		t.Errorf("slice not encoded as list:\n%s", doc)
	}
	if !strings.Contains(doc, `<attr name="Pair" type="tuple" id="`) {
		t.Errorf("array not encoded as tuple:\n%s", doc)
	}
	if !strings.Contains(doc, `<attr name="Table" type="dict" id="`) {
		t.Errorf("map not encoded as dict:\n%s", doc)
	}
}

func TestEncodeEscapesStrings(t *testing.T) {
	type holder struct {
		S string
	}
	data, err := Marshal(context.Background(), &holder{S: `a & b < c "quoted"`})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	doc := string(data)
	if !strings.Contains(doc, `value="a &amp; b &lt; c &quot;quoted&quot;"`) {
		t.Errorf("metacharacters not escaped:\n%s", doc)
	}
}
