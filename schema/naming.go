package schema

import "strings"

// NamingStrategy derives a field's external (document) name from its
// declared identifier. Identifiers are assumed to be snake_case; a strategy
// only affects the rendered name, never token identity.
type NamingStrategy int

const (
	// AsDeclared uses the identifier verbatim. This is the default.
	AsDeclared NamingStrategy = iota
	// PascalCase converts snake_case to PascalCase ("zip_code" -> "ZipCode").
	PascalCase
	// CamelCase converts snake_case to camelCase ("zip_code" -> "zipCode").
	CamelCase
)

// String returns the strategy name as used in YAML schema documents.
func (s NamingStrategy) String() string {
	switch s {
	case AsDeclared:
		return "as_declared"
	case PascalCase:
		return "pascal_case"
	case CamelCase:
		return "camel_case"
	default:
		return "unknown"
	}
}

// Apply renders ident under the strategy.
func (s NamingStrategy) Apply(ident string) string {
	switch s {
	case PascalCase:
		return joinWords(ident, true)
	case CamelCase:
		return joinWords(ident, false)
	default:
		return ident
	}
}

func joinWords(ident string, upperFirst bool) string {
	parts := strings.Split(ident, "_")

	var b strings.Builder
	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first && !upperFirst {
			b.WriteString(part)
		} else {
			b.WriteString(strings.ToUpper(part[:1]))
			b.WriteString(part[1:])
		}
		first = false
	}
	return b.String()
}
