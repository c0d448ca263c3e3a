package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldError describes one failed field check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Result aggregates the outcome of running a rule set against a payload.
type Result struct {
	Errors []FieldError
}

func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// IntRange bounds an integer field, inclusive on both ends. A zero Max
// leaves the field unbounded above.
type IntRange struct {
	Min     int
	Max     int
	Message string
}

// ArrayRule bounds a string-array field and the length of each element.
type ArrayRule struct {
	MinItems    int
	MaxItems    int
	ElemMinLen  int
	ElemMaxLen  int
	Message     string
	ElemMessage string
}

// Rule is one field constraint. Checks run in declaration order and stop at
// the first failure for the field, so a violating field contributes exactly
// one error entry. Every rule also declares the sanitization policy applied
// to the field after the whole set passes.
type Rule struct {
	Field           string
	Required        bool
	RequiredMessage string

	MinLen        int
	MaxLen        int
	LengthMessage string

	Pattern        *regexp.Regexp
	PatternMessage string

	Rejected        map[string]struct{}
	RejectedMessage string

	Custom func(value string) string

	Int      *IntRange
	Bool     bool
	BoolMsg  string
	Array    *ArrayRule
	ObjectID bool
	IDMsg    string

	Sanitize Policy
}

// RuleSet is a named, static collection of field rules.
type RuleSet struct {
	Name  string
	Rules []Rule
}

// Validate runs every rule against data. Rules evaluate independently and all
// failures are collected; nothing short-circuits across fields.
func (rs *RuleSet) Validate(data map[string]any) *Result {
	res := &Result{}
	for i := range rs.Rules {
		rule := &rs.Rules[i]
		value, present := data[rule.Field]
		if !present || value == nil {
			if rule.Required {
				res.Errors = append(res.Errors, FieldError{Field: rule.Field, Message: rule.RequiredMessage})
			}
			continue
		}
		if msg := rule.check(value); msg != "" {
			res.Errors = append(res.Errors, FieldError{Field: rule.Field, Message: msg, Value: value})
		}
	}
	return res
}

// Sanitize rewrites every string value in data through its field's policy.
// Ruled fields use the declared policy; any other key falls back to the name
// heuristic. Non-string values pass through unchanged.
func (rs *RuleSet) Sanitize(data map[string]any) {
	policies := make(map[string]Policy, len(rs.Rules))
	for i := range rs.Rules {
		policies[rs.Rules[i].Field] = rs.Rules[i].Sanitize
	}

	for key, value := range data {
		s, ok := value.(string)
		if !ok {
			continue
		}
		policy, ruled := policies[key]
		if !ruled {
			policy = PolicyFor(key)
		}
		data[key] = Apply(policy, s)
	}
}

func (r *Rule) check(value any) string {
	switch {
	case r.Int != nil:
		return r.checkInt(value)
	case r.Bool:
		return r.checkBool(value)
	case r.Array != nil:
		return r.checkArray(value)
	}
	return r.checkString(value)
}

func (r *Rule) checkString(value any) string {
	s, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%s must be a string", r.Field)
	}
	if r.Required && strings.TrimSpace(s) == "" {
		return r.RequiredMessage
	}
	length := utf8.RuneCountInString(s)
	if (r.MinLen > 0 && length < r.MinLen) || (r.MaxLen > 0 && length > r.MaxLen) {
		return r.LengthMessage
	}
	if r.Pattern != nil && !r.Pattern.MatchString(s) {
		return r.PatternMessage
	}
	if r.ObjectID && !PatternObjectID.MatchString(s) {
		return r.IDMsg
	}
	if r.Rejected != nil {
		if _, hit := r.Rejected[strings.ToLower(s)]; hit {
			return r.RejectedMessage
		}
	}
	if r.Custom != nil {
		return r.Custom(s)
	}
	return ""
}

func (r *Rule) checkInt(value any) string {
	var n int
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return r.Int.Message
		}
		n = int(v)
	case int:
		n = v
	default:
		return r.Int.Message
	}
	if n < r.Int.Min || (r.Int.Max > 0 && n > r.Int.Max) {
		return r.Int.Message
	}
	return ""
}

func (r *Rule) checkBool(value any) string {
	if _, ok := value.(bool); !ok {
		return r.BoolMsg
	}
	return ""
}

func (r *Rule) checkArray(value any) string {
	items, ok := value.([]any)
	if !ok {
		return r.Array.Message
	}
	if len(items) < r.Array.MinItems || len(items) > r.Array.MaxItems {
		return r.Array.Message
	}
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return r.Array.ElemMessage
		}
		length := utf8.RuneCountInString(s)
		if length < r.Array.ElemMinLen || (r.Array.ElemMaxLen > 0 && length > r.Array.ElemMaxLen) {
			return r.Array.ElemMessage
		}
	}
	return ""
}
