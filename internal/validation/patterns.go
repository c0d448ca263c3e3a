package validation

import "regexp"

// Field patterns shared across rule sets.
var (
	PatternEmail        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	PatternUsername     = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,20}$`)
	PatternPasswordSet  = regexp.MustCompile(`^[a-zA-Z\d@$!%*?&]{8,}$`)
	PatternPhone        = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	PatternAlphanumeric = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)
	PatternAlphabetic   = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	PatternNumeric      = regexp.MustCompile(`^\d+$`)
	PatternSlug         = regexp.MustCompile(`^[a-z0-9-]+$`)
	PatternObjectID     = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)
)

// Input length limits.
const (
	MinUsernameLen     = 3
	MaxUsernameLen     = 20
	MinPasswordLen     = 8
	MaxPasswordLen     = 128
	MinFullNameLen     = 2
	MaxFullNameLen     = 50
	MaxEmailLen        = 254
	MinPhoneLen        = 10
	MaxPhoneLen        = 20
	MinExamTitleLen    = 3
	MaxExamTitleLen    = 100
	MinQuestionTextLen = 10
	MaxQuestionTextLen = 1000
	MinOptionTextLen   = 1
	MaxOptionTextLen   = 200
	MaxDescriptionLen  = 500
)

// reservedUsernames can never be registered regardless of pattern validity.
var reservedUsernames = map[string]struct{}{
	"admin":         {},
	"administrator": {},
	"root":          {},
	"superadmin":    {},
	"system":        {},
	"test":          {},
	"user":          {},
	"guest":         {},
}

// weakPasswords are rejected even when they satisfy the password pattern.
var weakPasswords = map[string]struct{}{
	"password":    {},
	"123456":      {},
	"123456789":   {},
	"qwerty":      {},
	"abc123":      {},
	"password123": {},
	"admin":       {},
	"letmein":     {},
}
