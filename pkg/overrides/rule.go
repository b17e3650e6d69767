package overrides

import (
	"encoding/json"
	"errors"
	"fmt"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
)

const actionOmit = "omit"

var (
	// ErrInvalidRule indicates a rule that is structurally invalid.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrInvalidAction indicates an unknown matchSuccess value.
	ErrInvalidAction = errors.New("invalid action")
)

// Document is the serialized form of a rule set.
type Document struct {
	PropertyRules []Rule `json:"propertyRules,omitempty" jsonschema:"description=Rules evaluated against every property"`
}

// Rule is an uncompiled property rule.
type Rule struct {
	// MatchSchema optionally constrains the property's schema.
	MatchSchema *SchemaMatch `json:"matchSchema,omitempty" jsonschema:"description=Schema the property must match"`
	// MatchName lists name matchers; one of them must match. An empty list
	// matches every name.
	MatchName []NameMatch `json:"matchName,omitempty" jsonschema:"description=Name matchers; any one must match"`
	// MatchSuccess is applied when the rule matches.
	MatchSuccess Action `json:"matchSuccess"`
}

// NameMatch matches a property name. Exactly one field must be set.
type NameMatch struct {
	Exact *string `json:"exact,omitempty" jsonschema:"description=Match this name exactly"`
	Regex *string `json:"regex,omitempty" jsonschema:"description=Match names against this regular expression"`
}

// Exact returns a [NameMatch] for the exact name s.
func Exact(s string) NameMatch {
	return NameMatch{Exact: &s}
}

// Regex returns a [NameMatch] for the regular expression s.
func Regex(s string) NameMatch {
	return NameMatch{Regex: &s}
}

func (n NameMatch) validate() error {
	if (n.Exact == nil) == (n.Regex == nil) {
		return fmt.Errorf("%w: matchName entries need exactly one of exact or regex", ErrInvalidRule)
	}

	return nil
}

// SchemaMatch constrains a property's schema. Exactly one field must be set.
type SchemaMatch struct {
	Subset     *apiextensionsv1.JSONSchemaProps `json:"subset,omitempty" jsonschema:"description=The property schema contains at least these fields"`
	Exhaustive *apiextensionsv1.JSONSchemaProps `json:"exhaustive,omitempty" jsonschema:"description=The property schema has exactly these fields"`
}

// Action is the outcome of a matching rule: either Replace is set, or Omit
// is true.
type Action struct {
	// Replace is a type name used verbatim instead of the inferred type.
	Replace string
	// Omit drops the property.
	Omit bool
}

// Replace returns an [Action] replacing the property type with name.
func Replace(name string) Action {
	return Action{Replace: name}
}

// Omit returns an [Action] omitting the property.
func Omit() Action {
	return Action{Omit: true}
}

// String implements [fmt.Stringer].
func (a Action) String() string {
	if a.Omit {
		return actionOmit
	}

	return "replace(" + a.Replace + ")"
}

type replaceAction struct {
	Replace string `json:"replace"`
}

// MarshalJSON encodes an [Action] as "omit" or {"replace": name}.
func (a Action) MarshalJSON() ([]byte, error) {
	if a.Omit {
		b, err := json.Marshal(actionOmit)
		if err != nil {
			return nil, fmt.Errorf("marshal action: %w", err)
		}

		return b, nil
	}

	b, err := json.Marshal(replaceAction{Replace: a.Replace})
	if err != nil {
		return nil, fmt.Errorf("marshal action: %w", err)
	}

	return b, nil
}

// UnmarshalJSON decodes "omit" or {"replace": name}.
func (a *Action) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != actionOmit {
			return fmt.Errorf("%w: %q", ErrInvalidAction, s)
		}

		*a = Omit()

		return nil
	}

	var r map[string]string
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	name, ok := r["replace"]
	if !ok || len(r) != 1 || name == "" {
		return fmt.Errorf("%w: expected {replace: <type>} or omit", ErrInvalidAction)
	}

	*a = Replace(name)

	return nil
}
