package overrides

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/macropower/crdtypes/pkg/schema"
)

// ErrPatternCompile indicates one or more rules could not be compiled.
var ErrPatternCompile = errors.New("failed to compile property rules")

type matchMode uint8

const (
	matchSubset matchMode = iota
	matchExhaustive
)

type compiledRule struct {
	// names is the alternation of the rule's regular expressions, or nil.
	names  *regexp.Regexp
	schema *schema.Node
	action Action
	// patterns are the source expressions of names.
	patterns []string
	mode     matchMode
}

// matchesName reports whether name matches the rule's regular expressions.
// Exact names are not consulted; they live in the index.
func (r *compiledRule) matchesName(name string) bool {
	return r.names == nil || r.names.MatchString(name)
}

func (r *compiledRule) matchesSchema(node *schema.Node) bool {
	if r.schema == nil {
		return true
	}

	if r.mode == matchExhaustive {
		return exhaustive(r.schema, node)
	}

	return subset(r.schema, node)
}

func (r *compiledRule) equal(o *compiledRule) bool {
	return r.mode == o.mode &&
		r.action == o.action &&
		reflect.DeepEqual(r.patterns, o.patterns) &&
		reflect.DeepEqual(r.schema, o.schema)
}

// Overrides is a compiled rule set. The zero value and nil have no rules.
type Overrides struct {
	// index holds rules by exact name, in rule order.
	index map[string][]*compiledRule
	// scan holds rules with regular expressions or without any names.
	scan []*compiledRule
}

// New compiles rules. Every rule is compiled even after a failure, so the
// returned error lists every broken rule; on error no rules are usable.
func New(rules ...Rule) (*Overrides, error) {
	o := &Overrides{index: map[string][]*compiledRule{}}

	var merr error

	for i, rule := range rules {
		cr, exact, err := compile(rule)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("propertyRules[%d]: %w", i, err))

			continue
		}

		for _, name := range exact {
			o.index[name] = append(o.index[name], cr)
		}

		if len(exact) == 0 || cr.names != nil {
			o.scan = append(o.scan, cr)
		}
	}

	if merr != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatternCompile, merr)
	}

	return o, nil
}

func compile(rule Rule) (*compiledRule, []string, error) {
	var (
		merr  error
		exact []string
	)

	cr := &compiledRule{action: rule.MatchSuccess}

	if !rule.MatchSuccess.Omit && rule.MatchSuccess.Replace == "" {
		merr = multierror.Append(merr, fmt.Errorf("%w: matchSuccess is required", ErrInvalidAction))
	}

	for _, n := range rule.MatchName {
		if err := n.validate(); err != nil {
			merr = multierror.Append(merr, err)

			continue
		}

		if n.Exact != nil {
			if !slices.Contains(exact, *n.Exact) {
				exact = append(exact, *n.Exact)
			}

			continue
		}

		if _, err := regexp.Compile(*n.Regex); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("regex %q: %w", *n.Regex, err))

			continue
		}

		cr.patterns = append(cr.patterns, *n.Regex)
	}

	if len(cr.patterns) > 0 && merr == nil {
		alts := make([]string, 0, len(cr.patterns))
		for _, p := range cr.patterns {
			alts = append(alts, "(?:"+p+")")
		}

		re, err := regexp.Compile(strings.Join(alts, "|"))
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("regex set: %w", err))
		}

		cr.names = re
	}

	if m := rule.MatchSchema; m != nil {
		switch {
		case m.Subset != nil && m.Exhaustive != nil:
			merr = multierror.Append(merr, fmt.Errorf("%w: matchSchema needs one of subset or exhaustive", ErrInvalidRule))
		case m.Subset != nil:
			cr.mode = matchSubset

			n, err := schema.FromJSONSchemaProps(m.Subset)
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("matchSchema.subset: %w", err))
			}

			cr.schema = n
		case m.Exhaustive != nil:
			cr.mode = matchExhaustive

			n, err := schema.FromJSONSchemaProps(m.Exhaustive)
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("matchSchema.exhaustive: %w", err))
			}

			cr.schema = n
		}
	}

	if merr != nil {
		return nil, nil, merr
	}

	return cr, exact, nil
}

// Action returns the action of the first rule matching the property name
// and schema. Rules indexed under the exact name are tried first, in order,
// followed by the ordered scan list.
func (o *Overrides) Action(name string, node *schema.Node) (Action, bool) {
	if o == nil {
		return Action{}, false
	}

	for _, r := range o.index[name] {
		if r.matchesSchema(node) {
			return r.action, true
		}
	}

	for _, r := range o.scan {
		if r.matchesName(name) && r.matchesSchema(node) {
			return r.action, true
		}
	}

	return Action{}, false
}

// Merge appends the rules of others. Index buckets for the same name are
// concatenated. The scan list is concatenated and duplicates are removed,
// keeping the first occurrence.
func (o *Overrides) Merge(others ...*Overrides) {
	if o.index == nil {
		o.index = map[string][]*compiledRule{}
	}

	for _, other := range others {
		if other == nil {
			continue
		}

		for name, rules := range other.index {
			o.index[name] = append(o.index[name], rules...)
		}

		for _, r := range other.scan {
			if !o.scanContains(r) {
				o.scan = append(o.scan, r)
			}
		}
	}
}

// Len returns the number of distinct compiled rules.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}

	seen := map[*compiledRule]bool{}
	for _, rules := range o.index {
		for _, r := range rules {
			seen[r] = true
		}
	}

	for _, r := range o.scan {
		seen[r] = true
	}

	return len(seen)
}

func (o *Overrides) scanContains(r *compiledRule) bool {
	for _, existing := range o.scan {
		if existing.equal(r) {
			return true
		}
	}

	return false
}
