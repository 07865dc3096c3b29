package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"portfolio/internal/apperrors"
)

// FieldKind is the value type of an editable field.
type FieldKind string

const (
	KindString   FieldKind = "string"
	KindText     FieldKind = "text"
	KindInt      FieldKind = "int" // 32-bit range
	KindBool     FieldKind = "bool"
	KindTime     FieldKind = "time"
	KindPassword FieldKind = "password" // write-only, never decoded into the record
)

// Field describes one editable column. Name is both the JSON key and the
// column name.
type Field struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Unique   bool      `json:"unique"`
}

// Schema lists the editable fields of an admin entity.
type Schema struct {
	Entity string  `json:"entity"`
	Label  string  `json:"label"`
	Fields []Field `json:"fields"`
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Values is the raw input of a create or update, from JSON or a form.
type Values map[string]any

// normalized is Values after schema coercion. Record holds decodable
// fields, Secrets holds password fields.
type normalized struct {
	Record  map[string]any
	Secrets map[string]string
}

// timeLayouts are accepted for time fields, most specific first.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04", // HTML datetime-local
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// normalize coerces values to the schema's kinds. Unknown fields are
// rejected; the id key is ignored. On create, required password fields
// must be present.
func (s Schema) normalize(values Values, creating bool) (*normalized, error) {
	out := &normalized{Record: map[string]any{}, Secrets: map[string]string{}}
	errs := apperrors.FieldErrors{}

	for name, raw := range values {
		if name == "id" {
			continue
		}
		f, ok := s.Field(name)
		if !ok {
			errs[name] = "unknown field"
			continue
		}
		v, err := coerce(f, raw)
		if err != nil {
			errs[name] = err.Error()
			continue
		}
		if f.Kind == KindPassword {
			if str, _ := v.(string); str != "" {
				out.Secrets[name] = str
			}
			continue
		}
		out.Record[name] = v
	}

	if creating {
		for _, f := range s.Fields {
			if f.Kind == KindPassword && f.Required && out.Secrets[f.Name] == "" {
				if _, seen := errs[f.Name]; !seen {
					errs[f.Name] = "required"
				}
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func coerce(f Field, raw any) (any, error) {
	switch f.Kind {
	case KindString, KindText, KindPassword:
		switch v := raw.(type) {
		case nil:
			return "", nil
		case string:
			if f.Kind == KindString {
				return strings.TrimSpace(v), nil
			}
			return v, nil
		default:
			return nil, fmt.Errorf("must be a string")
		}
	case KindInt:
		switch v := raw.(type) {
		case nil:
			return nil, nil
		case float64:
			if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
				return nil, fmt.Errorf("must be an integer")
			}
			return int(v), nil
		case int:
			if v > math.MaxInt32 || v < math.MinInt32 {
				return nil, fmt.Errorf("must be an integer")
			}
			return v, nil
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				return nil, nil
			}
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("must be an integer")
			}
			return int(n), nil
		default:
			return nil, fmt.Errorf("must be an integer")
		}
	case KindBool:
		switch v := raw.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "", "0", "false", "off", "no":
				return false, nil
			case "1", "true", "on", "yes", "y":
				return true, nil
			}
			return nil, fmt.Errorf("must be a boolean")
		default:
			return nil, fmt.Errorf("must be a boolean")
		}
	case KindTime:
		switch v := raw.(type) {
		case nil:
			return nil, nil
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				return nil, nil
			}
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t.UTC(), nil
				}
			}
			return nil, fmt.Errorf("must be a timestamp")
		default:
			return nil, fmt.Errorf("must be a timestamp")
		}
	}
	return nil, fmt.Errorf("unsupported field kind %q", f.Kind)
}
