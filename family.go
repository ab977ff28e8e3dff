package gnosis

// Family classifies a value's structural category independent of its
// concrete type. The family set is closed; the type set within a family is
// open, which is what keeps old documents decodable as the host's class set
// evolves.
type Family int

const (
	// FamilyNone marks the absence of a value.
	FamilyNone Family = iota

	// FamilyUniq marks a value whose type alone determines its value
	// (booleans: the type name True or False carries everything).
	FamilyUniq

	// FamilyAtom marks a scalar with no sub-structure: number, text,
	// byte-string.
	FamilyAtom

	// FamilySeq marks an ordered sequence: list-like or fixed-arity
	// tuple-like.
	FamilySeq

	// FamilyMap marks a key/value associative structure.
	FamilyMap

	// FamilyObj marks a class instance with named attributes.
	FamilyObj

	// FamilyLang marks host-language-only constructs (functions, classes).
	// Accepted in old documents for compatibility, never produced.
	FamilyLang
)

func (f Family) String() string {
	switch f {
	case FamilyNone:
		return "none"
	case FamilyUniq:
		return "uniq"
	case FamilyAtom:
		return "atom"
	case FamilySeq:
		return "seq"
	case FamilyMap:
		return "map"
	case FamilyObj:
		return "obj"
	case FamilyLang:
		return "lang"
	}
	return "unknown"
}

// familyNames maps wire names to families.
var familyNames = map[string]Family{
	"none": FamilyNone,
	"uniq": FamilyUniq,
	"atom": FamilyAtom,
	"seq":  FamilySeq,
	"map":  FamilyMap,
	"obj":  FamilyObj,
	"lang": FamilyLang,
}

// builtinFamilies maps builtin type names to the family they imply.
// A family attribute is only mandatory for types outside this table.
var builtinFamilies = map[string]Family{
	"None":     FamilyNone,
	"dict":     FamilyMap,
	"list":     FamilySeq,
	"tuple":    FamilySeq,
	"numeric":  FamilyAtom,
	"string":   FamilyAtom,
	"bytes":    FamilyAtom,
	"PyObject": FamilyObj,
	"function": FamilyLang,
	"class":    FamilyLang,
	"True":     FamilyUniq,
	"False":    FamilyUniq,
}

// resolveFamily returns the explicit family when one is given, otherwise
// the family implied by a builtin type name.
func resolveFamily(family, typename string) (Family, error) {
	if family != "" {
		f, ok := familyNames[family]
		if !ok {
			return 0, &UnknownFamilyError{Family: family, Type: typename}
		}
		return f, nil
	}
	if f, ok := builtinFamilies[typename]; ok {
		return f, nil
	}
	return 0, &UnknownFamilyError{Type: typename}
}
