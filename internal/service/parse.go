package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrBadProviderJSON marks a provider response that is not valid JSON or is
// missing required fields. Services always surface it typed; the HTTP
// boundary decides whether to substitute a default.
var ErrBadProviderJSON = errors.New("malformed provider response")

// stripJSONFence removes an optional leading ```json and trailing ``` the
// models sometimes wrap around their output.
func stripJSONFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}
	if strings.HasSuffix(content, "```") {
		content = content[:len(content)-len("```")]
	}
	return strings.TrimSpace(content)
}

// decodeEnvelope parses the fenced-or-bare JSON content and checks that
// every required top-level key is present.
func decodeEnvelope(content string, required ...string) (map[string]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripJSONFence(content)), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadProviderJSON, err)
	}
	for _, key := range required {
		if _, ok := envelope[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q field", ErrBadProviderJSON, key)
		}
	}
	return envelope, nil
}
