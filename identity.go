package gnosis

import "reflect"

// identKey identifies a compound value by its allocation. Slices carry
// their length so that two views over one backing array only alias when
// they describe the same range.
type identKey struct {
	ptr  uintptr
	len  int
	kind reflect.Kind
}

// identityOf derives an identity key for a compound value. Values without
// a stable allocation (nil pointers, zero-capacity slices) report no
// identity and are encoded fresh at every occurrence.
func identityOf(v any) (identKey, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		p := rv.Pointer()
		if p == 0 {
			return identKey{}, false
		}
		return identKey{ptr: p, kind: rv.Kind()}, true
	case reflect.Slice:
		if rv.Cap() == 0 {
			return identKey{}, false
		}
		return identKey{ptr: rv.Pointer(), len: rv.Len(), kind: reflect.Slice}, true
	}
	return identKey{}, false
}

// encodeTable assigns monotonically increasing logical ids to compound
// values for the duration of one dump. The original design kept a single
// process-wide table keyed by runtime addresses; a per-call table with
// logical ids removes both the concurrency hazard and the address-reuse
// collision risk.
type encodeTable struct {
	ids  map[identKey]uint64
	next uint64
	keep []any // pins visited values so their allocations outlive the call
}

func newEncodeTable() *encodeTable {
	return &encodeTable{ids: make(map[identKey]uint64), next: 1}
}

// visit registers v at first sight and reports whether it was already
// seen. Registration happens before the caller descends into children;
// that ordering is what makes cycles encodable in a single pass.
func (t *encodeTable) visit(v any) (id uint64, seen bool) {
	k, ok := identityOf(v)
	if !ok {
		id = t.next
		t.next++
		return id, false
	}
	if id, seen = t.ids[k]; seen {
		return id, true
	}
	id = t.next
	t.next++
	t.ids[k] = id
	t.keep = append(t.keep, v)
	return id, false
}

func (t *encodeTable) count() int {
	return len(t.ids)
}

func (t *encodeTable) reset() {
	t.ids = make(map[identKey]uint64)
	t.next = 1
	t.keep = nil
}

// decodeTable maps document ids to materialized values for the duration
// of one load. Shells are registered before their children decode so that
// self-references resolve to the shell rather than to a copy.
type decodeTable struct {
	values map[string]any
}

func newDecodeTable() *decodeTable {
	return &decodeTable{values: make(map[string]any)}
}

// register stores v under the given document id. An empty id means the
// node is not referenceable and registration is skipped.
func (t *decodeTable) register(id string, v any) {
	if id == "" {
		return
	}
	t.values[id] = v
}

func (t *decodeTable) lookup(id string) (any, bool) {
	v, ok := t.values[id]
	return v, ok
}

func (t *decodeTable) count() int {
	return len(t.values)
}

func (t *decodeTable) reset() {
	t.values = make(map[string]any)
}
