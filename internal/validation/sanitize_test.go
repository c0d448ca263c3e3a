package validation

import "testing"

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"  Hello   <b>World</b>  ",
		"<script>alert('x')</script>Name",
		"a <br> b <br> c",
		"JAVAjavascript:script:alert(1)",
		`<img src=x onerror=alert(1)>`,
		"plain text",
		"  spaced\tout\nvalue ",
	}
	policies := []Policy{PolicyText, PolicyEmail, PolicyUsername, PolicyName, PolicyPassword}

	for _, p := range policies {
		for _, in := range inputs {
			once := Apply(p, in)
			twice := Apply(p, once)
			if once != twice {
				t.Fatalf("policy %d not idempotent on %q: first %q second %q", p, in, once, twice)
			}
		}
	}
}

func TestApply_PasswordExemption(t *testing.T) {
	t.Parallel()

	in := "  My<b>Pass</b>WORD&123  "
	got := Apply(PolicyPassword, in)
	want := "My<b>Pass</b>WORD&123"
	if got != want {
		t.Fatalf("password policy altered content: got %q want %q", got, want)
	}
}

func TestApply_StripsDangerousFragments(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"<script>alert('x')</script>John", "John"},
		{"Jo<b>hn</b> Doe", "John Doe"},
		{"click javascript:alert(1)", "click alert(1)"},
		{"a onclick= b", "a b"},
		{"many    spaces   here", "many spaces here"},
	}
	for _, tc := range cases {
		if got := Apply(PolicyText, tc.in); got != tc.want {
			t.Fatalf("Apply(PolicyText, %q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestApply_CaseFolding(t *testing.T) {
	t.Parallel()

	if got := Apply(PolicyEmail, " John.Doe@Example.COM "); got != "john.doe@example.com" {
		t.Fatalf("email policy: got %q", got)
	}
	if got := Apply(PolicyUsername, "JDoe_99"); got != "jdoe_99" {
		t.Fatalf("username policy: got %q", got)
	}
	if got := Apply(PolicyName, "John Doe"); got != "John Doe" {
		t.Fatalf("name policy must preserve case: got %q", got)
	}
}

func TestPolicyFor_Heuristic(t *testing.T) {
	t.Parallel()

	cases := map[string]Policy{
		"email":         PolicyEmail,
		"contactEmail":  PolicyEmail,
		"username":      PolicyUsername,
		"tenant_slug":   PolicyUsername,
		"password":      PolicyPassword,
		"fullName":      PolicyName,
		"examTitle":     PolicyName,
		"description":   PolicyText,
		"randomField":   PolicyText,
		"correctAnswer": PolicyText,
	}
	for field, want := range cases {
		if got := PolicyFor(field); got != want {
			t.Fatalf("PolicyFor(%q) = %d, want %d", field, got, want)
		}
	}
}
