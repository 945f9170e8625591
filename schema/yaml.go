package schema

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlSchema mirrors the on-disk declaration format:
//
//	records:
//	  - name: Address
//	    field_naming: camel_case
//	    include_private: true
//	    fields:
//	      - ident: zip_code
//	        type: string
//	        rename: zip
//	      - ident: audit_token
//	        type: optional<string>
//	        private: true
type yamlSchema struct {
	Records []yamlRecord `yaml:"records"`
}

type yamlRecord struct {
	Name           string      `yaml:"name"`
	FieldNaming    string      `yaml:"field_naming"`
	IncludePrivate bool        `yaml:"include_private"`
	Fields         []yamlField `yaml:"fields"`
}

type yamlField struct {
	Ident   string `yaml:"ident"`
	Type    string `yaml:"type"`
	Rename  string `yaml:"rename"`
	Private bool   `yaml:"private"`
}

// LoadYAML declares records from a YAML document and returns them keyed by
// name. Record-typed fields reference other records in the same document by
// name (`record<Address>`); declaration order does not matter as long as
// references are acyclic. Each record goes through the same validation pass
// as Build.
func LoadYAML(r io.Reader) (map[string]*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schema: read YAML: %w", err)
	}

	var doc yamlSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse YAML: %w", err)
	}
	if len(doc.Records) == 0 {
		return nil, fmt.Errorf("schema: YAML document declares no records")
	}

	built := make(map[string]*Record)
	pending := doc.Records

	// Records may reference each other out of declaration order, so keep
	// building whichever records have all their references resolved until
	// a pass makes no progress.
	for len(pending) > 0 {
		var deferred []yamlRecord
		progressed := false

		for _, yr := range pending {
			if _, dup := built[yr.Name]; dup {
				return nil, fmt.Errorf("schema: duplicate record %q in YAML document", yr.Name)
			}
			rec, err := buildYAMLRecord(yr, built)
			if err != nil {
				var unresolved *unresolvedRecordError
				if errors.As(err, &unresolved) {
					deferred = append(deferred, yr)
					continue
				}
				return nil, err
			}
			built[yr.Name] = rec
			progressed = true
		}

		if !progressed {
			names := make([]string, 0, len(deferred))
			for _, yr := range deferred {
				names = append(names, yr.Name)
			}
			return nil, fmt.Errorf("schema: unresolved or cyclic record references in: %s",
				strings.Join(names, ", "))
		}
		pending = deferred
	}

	return built, nil
}

func buildYAMLRecord(yr yamlRecord, known map[string]*Record) (*Record, error) {
	strategy, err := parseNaming(yr.FieldNaming)
	if err != nil {
		return nil, fmt.Errorf("schema: record %q: %w", yr.Name, err)
	}

	opts := []Option{WithFieldNaming(strategy)}
	if yr.IncludePrivate {
		opts = append(opts, WithPrivateFields())
	}

	rb := NewRecord(yr.Name, opts...)
	for _, yf := range yr.Fields {
		t, err := ParseType(yf.Type, known)
		if err != nil {
			var unresolved *unresolvedRecordError
			if errors.As(err, &unresolved) {
				return nil, err
			}
			return nil, fmt.Errorf("schema: record %q, field %q: %w", yr.Name, yf.Ident, err)
		}
		switch {
		case yf.Private:
			rb.PrivateField(yf.Ident, t)
		case yf.Rename != "":
			rb.FieldNamed(yf.Ident, yf.Rename, t)
		default:
			rb.Field(yf.Ident, t)
		}
	}
	return rb.Build()
}

func parseNaming(name string) (NamingStrategy, error) {
	switch name {
	case "", "as_declared":
		return AsDeclared, nil
	case "pascal_case":
		return PascalCase, nil
	case "camel_case":
		return CamelCase, nil
	default:
		return AsDeclared, fmt.Errorf("unknown field_naming %q", name)
	}
}

type unresolvedRecordError struct {
	name string
}

func (e *unresolvedRecordError) Error() string {
	return fmt.Sprintf("record %q is not declared", e.name)
}

// ParseType parses the textual type syntax used in YAML declarations:
// a kind name, optionally with one angle-bracketed element type, e.g.
// "int64", "list<string>", "optional<record<Address>>". Record references
// resolve against known.
func ParseType(s string, known map[string]*Record) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Type{}, fmt.Errorf("empty type")
	}

	head, inner, wrapped := splitGeneric(s)
	if !wrapped {
		switch head {
		case "bool":
			return Bool(), nil
		case "int16":
			return Int16(), nil
		case "int32":
			return Int32(), nil
		case "int64":
			return Int64(), nil
		case "float32":
			return Float32(), nil
		case "float64":
			return Float64(), nil
		case "char":
			return Char(), nil
		case "string":
			return String(), nil
		case "datetime":
			return DateTime(), nil
		}
		return Type{}, fmt.Errorf("unknown type %q", s)
	}

	if head == "record" {
		rec, ok := known[inner]
		if !ok {
			return Type{}, &unresolvedRecordError{name: inner}
		}
		return RecordOf(rec), nil
	}

	elem, err := ParseType(inner, known)
	if err != nil {
		return Type{}, err
	}
	switch head {
	case "list":
		return ListOf(elem), nil
	case "set":
		return SetOf(elem), nil
	case "ordered_set":
		return OrderedSetOf(elem), nil
	case "deque":
		return DequeOf(elem), nil
	case "priority_queue":
		return PriorityQueueOf(elem), nil
	case "map":
		return MapOf(elem), nil
	case "optional":
		return OptionalOf(elem), nil
	default:
		return Type{}, fmt.Errorf("unknown container type %q", head)
	}
}

func splitGeneric(s string) (head, inner string, ok bool) {
	open := strings.IndexByte(s, '<')
	if open < 0 {
		return s, "", false
	}
	if !strings.HasSuffix(s, ">") {
		return s, "", false
	}
	return s[:open], strings.TrimSpace(s[open+1 : len(s)-1]), true
}
