package transform

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToJoined removes the first hyphen of name ("go-template" -> "gotemplate").
//
// Only the first hyphen is affected, so "foo-bar-baz" becomes "foobar-baz".
func ToJoined(name string) string {
	return strings.Replace(name, "-", "", 1)
}

// ToSnake replaces the first hyphen of name with an underscore.
//
// Only the first hyphen is affected, so "foo-bar-baz" becomes "foo_bar-baz".
func ToSnake(name string) string {
	return strings.Replace(name, "-", "_", 1)
}

// ToCamel converts a hyphenated name to camelCase ("foo-bar-baz" -> "fooBarBaz").
// The first token is kept as-is; empty tokens contribute nothing.
func ToCamel(name string) string {
	tokens := strings.Split(name, "-")

	var sb strings.Builder
	sb.Grow(len(name))
	sb.WriteString(tokens[0])
	for _, token := range tokens[1:] {
		sb.WriteString(upperFirst(token))
	}
	return sb.String()
}

// ToPascal converts a hyphenated name to PascalCase ("foo-bar-baz" -> "FooBarBaz").
func ToPascal(name string) string {
	return upperFirst(ToCamel(name))
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Conversion is a single substitution rule.
type Conversion struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Conversions is an ordered set of substitution rules. Later rules see the
// output of earlier ones.
type Conversions []Conversion

// CreateConversions derives the five rules for a name pair, in fixed order:
// literal, joined, snake, camel, pascal.
//
// Applying the set twice gives the same result as applying it once only when
// no rule's To contains a rule's From. See Conversions.Validate.
func CreateConversions(fromName, toName string) Conversions {
	return Conversions{
		{From: fromName, To: toName},
		{From: ToJoined(fromName), To: ToJoined(toName)},
		{From: ToSnake(fromName), To: ToSnake(toName)},
		{From: ToCamel(fromName), To: ToCamel(toName)},
		{From: ToPascal(fromName), To: ToPascal(toName)},
	}
}
