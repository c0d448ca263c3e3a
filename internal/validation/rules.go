package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var doubleSpaceRe = regexp.MustCompile(`\s{2,}`)

// hasPasswordClasses enforces the character-class requirements that the
// pattern alone cannot express.
func hasPasswordClasses(s string) string {
	var lower, upper, digit bool
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	}
	return ""
}

// UserRegistration guards POST /api/auth/register.
var UserRegistration = RuleSet{
	Name: "user registration",
	Rules: []Rule{
		{
			Field:           "username",
			Required:        true,
			RequiredMessage: "Username is required",
			MinLen:          MinUsernameLen,
			MaxLen:          MaxUsernameLen,
			LengthMessage:   fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLen, MaxUsernameLen),
			Pattern:         PatternUsername,
			PatternMessage:  "Username can only contain letters, numbers, dots, underscores, and hyphens",
			Rejected:        reservedUsernames,
			RejectedMessage: "This username is reserved and cannot be used",
			Sanitize:        PolicyUsername,
		},
		{
			Field:           "password",
			Required:        true,
			RequiredMessage: "Password is required",
			MinLen:          MinPasswordLen,
			MaxLen:          MaxPasswordLen,
			LengthMessage:   fmt.Sprintf("Password must be between %d and %d characters", MinPasswordLen, MaxPasswordLen),
			Pattern:         PatternPasswordSet,
			PatternMessage:  "Password must contain at least one uppercase letter, one lowercase letter, and one number",
			Rejected:        weakPasswords,
			RejectedMessage: "This password is too common. Please choose a stronger password",
			Custom:          hasPasswordClasses,
			Sanitize:        PolicyPassword,
		},
		{
			Field:           "fullName",
			Required:        true,
			RequiredMessage: "Full name is required",
			MinLen:          MinFullNameLen,
			MaxLen:          MaxFullNameLen,
			LengthMessage:   fmt.Sprintf("Full name must be between %d and %d characters", MinFullNameLen, MaxFullNameLen),
			Pattern:         PatternAlphabetic,
			PatternMessage:  "Full name can only contain letters and spaces",
			Custom: func(s string) string {
				if doubleSpaceRe.MatchString(s) {
					return "Full name cannot contain multiple consecutive spaces"
				}
				return ""
			},
			Sanitize: PolicyName,
		},
		{
			Field:           "email",
			Required:        true,
			RequiredMessage: "Email is required",
			MaxLen:          MaxEmailLen,
			LengthMessage:   fmt.Sprintf("Email must be no more than %d characters", MaxEmailLen),
			Pattern:         PatternEmail,
			PatternMessage:  "Please enter a valid email address",
			Sanitize:        PolicyEmail,
		},
		{
			Field:          "phone",
			MinLen:         MinPhoneLen,
			MaxLen:         MaxPhoneLen,
			LengthMessage:  fmt.Sprintf("Phone number must be between %d and %d characters", MinPhoneLen, MaxPhoneLen),
			Pattern:        PatternPhone,
			PatternMessage: "Please enter a valid phone number",
			Sanitize:       PolicyText,
		},
		{
			Field:           "tenant_slug",
			Required:        true,
			RequiredMessage: "Tenant slug is required",
			Pattern:         PatternSlug,
			PatternMessage:  "Tenant slug can only contain lowercase letters, numbers, and hyphens",
			Sanitize:        PolicyUsername,
		},
		{
			Field: "role",
			Custom: func(s string) string {
				switch s {
				case "", "student", "teacher", "admin":
					return ""
				}
				return "Role must be one of student, teacher, or admin"
			},
			Sanitize: PolicyUsername,
		},
	},
}

// UserLogin guards POST /api/auth/login. Deliberately loose: login accepts a
// username or an email in the username field.
var UserLogin = RuleSet{
	Name: "user login",
	Rules: []Rule{
		{
			Field:           "username",
			Required:        true,
			RequiredMessage: "Username is required",
			MinLen:          1,
			MaxLen:          50,
			LengthMessage:   "Username must be between 1 and 50 characters",
			Sanitize:        PolicyUsername,
		},
		{
			Field:           "password",
			Required:        true,
			RequiredMessage: "Password is required",
			MinLen:          1,
			MaxLen:          MaxPasswordLen,
			LengthMessage:   fmt.Sprintf("Password must be between 1 and %d characters", MaxPasswordLen),
			Sanitize:        PolicyPassword,
		},
		{
			Field:          "tenant_slug",
			Pattern:        PatternSlug,
			PatternMessage: "Tenant slug can only contain lowercase letters, numbers, and hyphens",
			Sanitize:       PolicyUsername,
		},
	},
}

// ExamCreation guards POST /api/exams.
var ExamCreation = RuleSet{
	Name: "exam creation",
	Rules: []Rule{
		{
			Field:           "title",
			Required:        true,
			RequiredMessage: "Exam title is required",
			MinLen:          MinExamTitleLen,
			MaxLen:          MaxExamTitleLen,
			LengthMessage:   fmt.Sprintf("Exam title must be between %d and %d characters", MinExamTitleLen, MaxExamTitleLen),
			Pattern:         PatternAlphanumeric,
			PatternMessage:  "Exam title can only contain letters, numbers, and spaces",
			Sanitize:        PolicyName,
		},
		{
			Field:         "description",
			MaxLen:        MaxDescriptionLen,
			LengthMessage: fmt.Sprintf("Description must be no more than %d characters", MaxDescriptionLen),
			Sanitize:      PolicyText,
		},
		{
			Field: "duration",
			Int:   &IntRange{Min: 1, Max: 480, Message: "Duration must be between 1 and 480 minutes"},
		},
		{
			Field:   "isActive",
			Bool:    true,
			BoolMsg: "isActive must be a boolean value",
		},
	},
}

// QuestionCreation guards POST /api/questions.
var QuestionCreation = RuleSet{
	Name: "question creation",
	Rules: []Rule{
		{
			Field:           "text",
			Required:        true,
			RequiredMessage: "Question text is required",
			MinLen:          MinQuestionTextLen,
			MaxLen:          MaxQuestionTextLen,
			LengthMessage:   fmt.Sprintf("Question text must be between %d and %d characters", MinQuestionTextLen, MaxQuestionTextLen),
			Sanitize:        PolicyText,
		},
		{
			Field: "options",
			Array: &ArrayRule{
				MinItems:    2,
				MaxItems:    10,
				ElemMinLen:  MinOptionTextLen,
				ElemMaxLen:  MaxOptionTextLen,
				Message:     "Question must have between 2 and 10 options",
				ElemMessage: fmt.Sprintf("Each option must be between %d and %d characters", MinOptionTextLen, MaxOptionTextLen),
			},
			Required:        true,
			RequiredMessage: "Question must have between 2 and 10 options",
		},
		{
			Field: "correctAnswer",
			Int:   &IntRange{Min: 0, Max: 9, Message: "Correct answer must be a valid option index (0-9)"},
		},
		{
			Field:           "examId",
			Required:        true,
			RequiredMessage: "Exam ID is required",
			ObjectID:        true,
			IDMsg:           "Invalid exam ID format",
			Sanitize:        PolicyText,
		},
	},
}

// Pagination guards the page/limit query values on the list routes. Both are
// optional; handlers fall back to their defaults when a value is absent.
var Pagination = RuleSet{
	Name: "pagination",
	Rules: []Rule{
		{
			Field: "page",
			Int:   &IntRange{Min: 1, Message: "Page must be a positive integer"},
		},
		{
			Field: "limit",
			Int:   &IntRange{Min: 1, Max: 100, Message: "Limit must be between 1 and 100"},
		},
	},
}

// ValidateID checks a path parameter for document-id shape.
func ValidateID(id string) bool {
	return PatternObjectID.MatchString(strings.TrimSpace(id))
}
