package logging

import (
	"regexp"
	"strings"

	"mercator-hq/meter/pkg/config"
)

// Redactor masks credentials in log messages and attribute values.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternOpenAIKey    = "openai_key"
	PatternAnthropicKey = "anthropic_key"
	PatternGoogleKey    = "google_key"
	PatternBearerToken  = "bearer_token"
	PatternKeyParam     = "key_param"
)

// defaultPatterns are applied in order; the Anthropic pattern must run
// before the generic sk- pattern.
var defaultPatterns = []config.RedactPattern{
	{Name: PatternAnthropicKey, Pattern: `sk-ant-[A-Za-z0-9_\-]+`, Replacement: "sk-ant-***"},
	{Name: PatternOpenAIKey, Pattern: `sk-[A-Za-z0-9_\-]{8,}`, Replacement: "sk-***"},
	{Name: PatternGoogleKey, Pattern: `AIza[0-9A-Za-z_\-]{20,}`, Replacement: "AIza***"},
	{Name: PatternBearerToken, Pattern: `Bearer\s+[A-Za-z0-9\-._~+/]+=*`, Replacement: "Bearer ***"},
	{Name: PatternKeyParam, Pattern: `([?&](?:key|api-key|api_key)=)[^&\s"]+`, Replacement: "${1}***"},
}

// sensitiveKeys are attribute names whose values are always masked.
var sensitiveKeys = []string{
	"api_key", "apikey", "api-key",
	"authorization", "token", "secret", "password",
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// customPatterns. Invalid custom patterns are skipped; config validation
// rejects them earlier.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}
	for _, p := range append(append([]config.RedactPattern{}, defaultPatterns...), customPatterns...) {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}
	return r
}

// RedactString masks every credential found in value.
func (r *Redactor) RedactString(value string) string {
	if r == nil || value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// IsSensitiveKey reports whether an attribute name indicates a credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// RedactAPIKey redacts an API key, keeping only a prefix.
func RedactAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "***"
}
