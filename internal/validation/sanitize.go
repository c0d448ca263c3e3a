package validation

import (
	"regexp"
	"strings"
)

// Policy names the sanitization chain applied to a string field. Rules declare
// their policy explicitly; PolicyFor is the name-heuristic fallback for fields
// that arrive in a payload without a rule.
type Policy int

const (
	// PolicyText strips HTML and collapses whitespace.
	PolicyText Policy = iota
	// PolicyEmail additionally lowercases the value.
	PolicyEmail
	// PolicyUsername additionally lowercases the value. Also used for slugs.
	PolicyUsername
	// PolicyName strips HTML and collapses whitespace, preserving case.
	PolicyName
	// PolicyPassword only trims surrounding whitespace. The verbatim bytes are
	// what gets hashed, so no escaping or case folding is allowed.
	PolicyPassword
)

var (
	scriptBlockRe  = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	htmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	jsProtocolRe   = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRe = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Apply runs the policy's transform chain. Every chain is idempotent: applying
// it to already-sanitized input returns the input unchanged.
func Apply(p Policy, s string) string {
	if p == PolicyPassword {
		return strings.TrimSpace(s)
	}

	out := stripHTML(s)
	// tag removal can leave runs of spaces behind, so collapsing runs last
	out = strings.TrimSpace(whitespaceRe.ReplaceAllString(out, " "))
	if p == PolicyEmail || p == PolicyUsername {
		out = strings.ToLower(out)
	}
	return out
}

// stripHTML removes script blocks, tags, javascript: schemes and inline event
// handler fragments, iterating to a fixed point so that removals cannot
// reassemble a new dangerous substring.
func stripHTML(s string) string {
	for {
		out := scriptBlockRe.ReplaceAllString(s, "")
		out = htmlTagRe.ReplaceAllString(out, "")
		out = jsProtocolRe.ReplaceAllString(out, "")
		out = eventHandlerRe.ReplaceAllString(out, "")
		if out == s {
			return out
		}
		s = out
	}
}

// PolicyFor picks a policy by substring match on the field name. It exists
// only as the fallback for unruled fields; ruled fields carry their policy
// explicitly.
func PolicyFor(field string) Policy {
	name := strings.ToLower(field)
	switch {
	case strings.Contains(name, "email"):
		return PolicyEmail
	case strings.Contains(name, "username"), strings.Contains(name, "slug"):
		return PolicyUsername
	case strings.Contains(name, "password"):
		return PolicyPassword
	case strings.Contains(name, "name"), strings.Contains(name, "title"):
		return PolicyName
	default:
		return PolicyText
	}
}

// SanitizeValue sanitizes a single string with the fallback heuristic policy.
// Used for path params and query strings where no rule set applies.
func SanitizeValue(field, value string) string {
	return Apply(PolicyFor(field), value)
}
