package gnosis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Literal grammar. Floats must carry a decimal point or an exponent; bare
// digit runs are integers. Plain integers may not start with a zero, which
// is what routes legacy zero-padded literals to the octal pattern.
const (
	patFloat = `[-+]?(((((\d+)?[.]\d+|\d+[.])|\d+)[eE][+-]?\d+)|((\d+)?[.]\d+|\d+[.]))`
	patInt   = `[-+]?[1-9]\d*`
	patFlint = `(` + patFloat + `|` + patInt + `)`
)

var (
	reZero     = regexp.MustCompile(`^[+-]?0$`)
	reFloat    = regexp.MustCompile(`^` + patFloat + `$`)
	reInt      = regexp.MustCompile(`^` + patInt + `$`)
	reLong     = regexp.MustCompile(`^[-+]?\d+[lL]$`)
	reHex      = regexp.MustCompile(`^([-+]?)(0[xX])([0-9a-fA-F]+)$`)
	reOct      = regexp.MustCompile(`^([-+]?)(0)([0-7]+)$`)
	reComplex  = regexp.MustCompile(`^(` + patFlint + `)?[-+]` + patFlint + `[jJ]$`)
	reComplex2 = regexp.MustCompile(`^(` + patFlint + `):(` + patFlint + `)$`)
)

// aton parses a numeric literal. It accepts everything ntoa produces plus
// the legacy forms: lone zeros, hex and octal integers with the sign applied
// after conversion, long-suffixed integers, and both complex spellings
// (a+bj and a:b). Patterns are tried in a fixed priority order; the first
// match wins.
func aton(s string) (any, error) {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return nil, &FormatError{Literal: s}
	}

	switch {
	case reZero.MatchString(s):
		return int64(0), nil

	case reFloat.MatchString(s):
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &FormatError{Literal: s}
		}
		return f, nil

	case reLong.MatchString(s):
		n, err := strconv.ParseInt(strings.TrimRight(s, "lL"), 10, 64)
		if err != nil {
			return nil, &FormatError{Literal: s}
		}
		return n, nil

	case reInt.MatchString(s):
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &FormatError{Literal: s}
		}
		return n, nil
	}

	if m := reHex.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[3], 16, 64)
		if err != nil {
			return nil, &FormatError{Literal: s}
		}
		if m[1] == "-" {
			n = -n
		}
		return n, nil
	}

	if m := reOct.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[3], 8, 64)
		if err != nil {
			return nil, &FormatError{Literal: s}
		}
		if m[1] == "-" {
			n = -n
		}
		return n, nil
	}

	if reComplex.MatchString(s) {
		// strconv understands the Go spelling: the imaginary marker is i,
		// and a negative imaginary part carries its sign alone rather than
		// the legacy +- pair
		c, err := strconv.ParseComplex(strings.ReplaceAll(s[:len(s)-1], "+-", "-")+"i", 128)
		if err != nil {
			return nil, &FormatError{Literal: s}
		}
		return c, nil
	}

	if m := reComplex2.FindStringSubmatch(s); m != nil {
		re, err1 := strconv.ParseFloat(m[1], 64)
		im, err2 := strconv.ParseFloat(m[10], 64)
		if err1 != nil || err2 != nil {
			return nil, &FormatError{Literal: s}
		}
		return complex(re, im), nil
	}

	return nil, &FormatError{Literal: s}
}

// ntoa formats a number with a contractual textual form. Integers render as
// plain decimal; floats use an explicit 17-significant-digit rule with a
// guaranteed decimal point or exponent; complex numbers render as
// real+imagj. Shortest-representation formatters are deliberately avoided:
// their output is not contractually stable.
func ntoa(v any) (string, error) {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case float64:
		return ftoa(n)
	case complex128:
		re, err := ftoa(real(n))
		if err != nil {
			return "", err
		}
		im, err := ftoa(imag(n))
		if err != nil {
			return "", err
		}
		sign := "+"
		if strings.HasPrefix(im, "-") {
			sign = ""
		}
		return re + sign + im + "j", nil
	}
	return "", &UnsupportedTypeError{GoType: typeName(v), Detail: "not a number"}
}

func ftoa(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", &UnsupportedTypeError{GoType: "float64", Detail: "non-finite values have no literal form"}
	}
	s := strconv.FormatFloat(f, 'g', 17, 64)
	mant, exp, hasExp := strings.Cut(s, "e")
	if strings.Contains(mant, ".") {
		mant = strings.TrimRight(mant, "0")
		if hasExp {
			mant = strings.TrimRight(mant, ".")
		}
	}
	if hasExp {
		return mant + "e" + exp, nil
	}
	if !strings.Contains(mant, ".") {
		mant += "."
	}
	return mant, nil
}

// The five XML metacharacters and their entity forms. The escaper runs a
// single left-to-right pass, so replacement text is never re-escaped.
var (
	entityEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	entityUnescaper = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
)

// safeString escapes a value for use inside an XML attribute: the entity
// pass first, then a string-literal quoting pass so backslashes and
// non-printable characters survive the round trip.
func safeString(s string) string {
	q := strconv.Quote(entityEscaper.Replace(s))
	return q[1 : len(q)-1]
}

// unsafeString is the exact inverse of safeString: the quoting pass is
// undone first, then the entity pass.
func unsafeString(s string) (string, error) {
	u, err := unquoteLiteral(s)
	if err != nil {
		return "", err
	}
	return entityUnescaper.Replace(u), nil
}

// safeContent escapes a value for use inside an XML element body. Bodies
// need no secondary quoting pass, only the entity substitution.
func safeContent(s string) string {
	return entityEscaper.Replace(s)
}

// unsafeContent is the exact inverse of safeContent.
func unsafeContent(s string) string {
	return entityUnescaper.Replace(s)
}

// unquoteLiteral undoes only the string-literal quoting layer of
// safeString. The XML tokenizer consumes the entity layer of attribute
// values before we ever see them, so the decoder calls this rather than
// unsafeString. Raw quote characters restored by that entity decode are
// literal text; they must not terminate the parser's own quoting.
func unquoteLiteral(s string) (string, error) {
	raw := s
	s = strings.ReplaceAll(s, `"`, `\"`)
	u, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return "", &FormatError{Literal: raw}
	}
	return u, nil
}
