package redact

import (
	"strings"
	"testing"
)

func TestRedactTextSharedCounter(t *testing.T) {
	r := New()
	out := r.RedactText("Email rajesh@example.com and contact Mr. Rajesh Kumar", false)
	if !strings.Contains(out, "[EMAIL_1]") {
		t.Fatalf("expected [EMAIL_1], got %q", out)
	}
	if !strings.Contains(out, "[PERSON_2]") {
		t.Fatalf("expected [PERSON_2] to continue the shared counter, got %q", out)
	}
	if strings.Contains(out, "rajesh@example.com") || strings.Contains(out, "Rajesh Kumar") {
		t.Fatalf("PII leaked through: %q", out)
	}
}

func TestRedactTextCounterRestartsPerCall(t *testing.T) {
	r := New()
	first := r.RedactText("reach me at a@b.com", false)
	second := r.RedactText("reach me at c@d.org", false)
	if !strings.Contains(first, "[EMAIL_1]") || !strings.Contains(second, "[EMAIL_1]") {
		t.Fatalf("counter should restart each call, got %q then %q", first, second)
	}
}

func TestRedactTextIdempotent(t *testing.T) {
	r := New()
	once := r.RedactText("PAN ABCDE1234F belongs to Mr. Sharma", false)
	twice := r.RedactText(once, false)
	if once != twice {
		t.Fatalf("redaction not idempotent: %q vs %q", once, twice)
	}
}

func TestRedactTextPreservesAmounts(t *testing.T) {
	r := New()
	text := "Dispute with vendor over Rs. 50,000 unpaid invoice"

	kept := r.RedactText(text, true)
	if !strings.Contains(kept, "Rs. 50,000") {
		t.Fatalf("amount should be preserved, got %q", kept)
	}

	redacted := r.RedactText(text, false)
	if !strings.Contains(redacted, "[AMOUNT_1]") {
		t.Fatalf("amount should be redacted, got %q", redacted)
	}
}

func TestRedactTextPhoneNumbers(t *testing.T) {
	r := New()
	out := r.RedactText("call 9876543210 today", false)
	if strings.Contains(out, "9876543210") {
		t.Fatalf("phone number leaked through: %q", out)
	}
}

func TestValidateSafeText(t *testing.T) {
	r := New()

	ok, issues := r.ValidateSafeText("a perfectly ordinary sentence")
	if !ok || len(issues) != 0 {
		t.Fatalf("expected clean text to pass, got %v", issues)
	}

	ok, issues = r.ValidateSafeText("mail test@example.com or dial 987-654-3210")
	if ok {
		t.Fatalf("expected validation failure")
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues (email, phone), got %v", issues)
	}
	if !strings.Contains(issues[0], "email") {
		t.Fatalf("expected email issue first, got %v", issues)
	}
}

func TestValidateSafeTextDoesNotMutate(t *testing.T) {
	r := New()
	text := "mail test@example.com"
	_, _ = r.ValidateSafeText(text)
	if text != "mail test@example.com" {
		t.Fatalf("input mutated")
	}
}
