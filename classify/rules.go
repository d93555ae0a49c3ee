// Copyright 2025 Sefirot Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package classify

import (
	"regexp"

	"github.com/sefirot-labs/sefirot/core"
)

// RuleSet is a versioned, pre-compiled collection of tier detection
// patterns. All patterns are evaluated case-insensitively. Patterns are
// compiled with Go's RE2 engine, so matching is linear in the input and a
// pathological document cannot hang classification.
type RuleSet struct {
	Version  string
	personal []*regexp.Regexp
	business []*regexp.Regexp
}

// DefaultRuleSet returns the built-in detection rules.
//
// Personal patterns cover structured personal identifiers: national-ID and
// payment-card shaped digit sequences, email addresses, credential phrases,
// and phone numbers. Business patterns cover confidentiality markers,
// credential-key tokens, commercial-relationship terms, and contract terms.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Version: "2025-08",
		personal: compileAll(
			`\b\d{3}-\d{2}-\d{4}\b`,
			`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
			`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`,
			`\b(password|passwd|secret key|private key|credentials)\b`,
			`\bphone\b.{0,20}\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`,
		),
		business: compileAll(
			`\b(confidential|proprietary|internal only)\b`,
			`\bapi[_\s]?key\b`,
			`\baccess[_\s]?token\b`,
			`\b(client|customer|revenue|profit)\b`,
			`\b(contract|agreement|deal)\b`,
		),
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		compiled[i] = regexp.MustCompile(`(?is)` + pattern)
	}
	return compiled
}

// MatchTier returns the most sensitive tier whose pattern set matches the
// text, or (0, false) when no pattern matches. Personal patterns always
// outrank Business patterns regardless of where matches occur in the input.
func (r *RuleSet) MatchTier(text string) (core.PrivacyTier, bool) {
	for _, pattern := range r.personal {
		if pattern.MatchString(text) {
			return core.TierPersonal, true
		}
	}
	for _, pattern := range r.business {
		if pattern.MatchString(text) {
			return core.TierBusiness, true
		}
	}
	return 0, false
}
