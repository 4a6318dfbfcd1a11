package redact

import (
	"fmt"
	"regexp"
)

// Redactor substitutes sequentially numbered placeholders for PII spans.
// Category order is fixed: later patterns see text already rewritten by
// earlier ones, and a single counter is shared across all categories within
// one RedactText call. The counter is call-local, so one Redactor is safe
// for concurrent requests.
type Redactor struct{}

type pattern struct {
	category string
	tag      string
	re       *regexp.Regexp
}

var patterns = []pattern{
	{"email", "EMAIL", regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{"phone", "PHONE", regexp.MustCompile(`(?:\+91[-.\s]?)?(?:\d{2,4}[-.\s]?)?(?:\d{3,4}[-.\s]?\d{3,4}|\d{10})\b`)},
	{"pan", "PAN", regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`)},
	{"aadhaar", "AADHAAR", regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\b`)},
	{"credit_card", "CARD", regexp.MustCompile(`\b(?:\d{4}[-.\s]?){3}\d{4}\b`)},
	{"bank_account", "ACCOUNT", regexp.MustCompile(`\b\d{8,18}\b`)},
	{"common_names", "PERSON", regexp.MustCompile(`\b(?:Mr\.?|Mrs\.?|Ms\.?|Dr\.?)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)},
	{"address", "ADDRESS", regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z\s]+(?:Street|St|Road|Rd|Avenue|Ave|Lane|Ln|Drive|Dr|Colony|Nagar)\b`)},
	{"amounts", "AMOUNT", regexp.MustCompile(`(?i)(?:Rs\.?|INR|₹)\s*[\d,]+(?:\.\d{2})?`)},
}

func New() *Redactor {
	return &Redactor{}
}

// RedactText replaces every non-overlapping PII match with a [TAG_n]
// placeholder. The counter restarts at zero on each call, so the function is
// stateless across invocations. When preserveAmounts is true the currency
// category is skipped entirely.
func (r *Redactor) RedactText(text string, preserveAmounts bool) string {
	counter := 0
	out := text
	for _, p := range patterns {
		if p.category == "amounts" && preserveAmounts {
			continue
		}
		out = p.re.ReplaceAllStringFunc(out, func(string) string {
			counter++
			return fmt.Sprintf("[%s_%d]", p.tag, counter)
		})
	}
	return out
}

// ValidateSafeText runs every pattern read-only and reports match counts per
// category. It never mutates text and is a guard, not a redaction step.
func (r *Redactor) ValidateSafeText(text string) (bool, []string) {
	var issues []string
	for _, p := range patterns {
		if n := len(p.re.FindAllString(text, -1)); n > 0 {
			issues = append(issues, fmt.Sprintf("Potential %s found: %d instances", p.category, n))
		}
	}
	return len(issues) == 0, issues
}
