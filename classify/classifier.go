package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sefirot-labs/sefirot/ai"
	"github.com/sefirot-labs/sefirot/core"
)

const (
	// DefaultEntityThreshold is the sensitive-entity count a document must
	// strictly exceed to be classified Business by density alone.
	DefaultEntityThreshold = 5

	// DefaultPrefixCap bounds how much text is handed to the entity
	// extractor during classification, independent of document length.
	DefaultPrefixCap = 1000
)

// SensitiveCategories are the entity categories that count toward the
// density fallback.
var SensitiveCategories = map[string]bool{
	ai.CategoryPerson:       true,
	ai.CategoryOrganization: true,
	ai.CategoryLocation:     true,
	ai.CategoryMoney:        true,
	ai.CategoryDate:         true,
}

// Classifier assigns a privacy tier to text from pattern and entity-density
// signals. It is deterministic for a given rule set and extractor.
type Classifier struct {
	rules           *RuleSet
	extractor       ai.EntityExtractor
	entityThreshold int
	prefixCap       int
	logger          *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRuleSet replaces the default detection rules.
func WithRuleSet(rules *RuleSet) Option {
	return func(c *Classifier) {
		if rules != nil {
			c.rules = rules
		}
	}
}

// WithEntityThreshold sets the sensitive-entity count that must be strictly
// exceeded for the density fallback to return TierBusiness.
func WithEntityThreshold(threshold int) Option {
	return func(c *Classifier) {
		if threshold >= 0 {
			c.entityThreshold = threshold
		}
	}
}

// WithPrefixCap sets the number of leading characters passed to the entity
// extractor during classification.
func WithPrefixCap(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.prefixCap = n
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Classifier. The extractor is only consulted when no pattern
// matches. A nil extractor disables the density fallback entirely, so
// unmatched text classifies as TierPublic even when it is dense with
// sensitive entities; pass one whenever entity signals should count.
func New(extractor ai.EntityExtractor, opts ...Option) *Classifier {
	c := &Classifier{
		rules:           DefaultRuleSet(),
		extractor:       extractor,
		entityThreshold: DefaultEntityThreshold,
		prefixCap:       DefaultPrefixCap,
		logger:          slog.Default().With("component", "classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns the active rule set.
func (c *Classifier) Rules() *RuleSet {
	return c.rules
}

// Classify assigns a privacy tier to the text.
//
// Priority order: Personal patterns, then Business patterns, then the
// entity-density fallback, then TierPublic. Empty text classifies as
// TierPublic without consulting the extractor. A failing extractor surfaces
// as an error rather than a guessed tier.
func (c *Classifier) Classify(ctx context.Context, text string) (core.PrivacyTier, error) {
	if text == "" {
		return core.TierPublic, nil
	}

	if tier, ok := c.rules.MatchTier(text); ok {
		c.logger.Debug("pattern match", "tier", tier)
		return tier, nil
	}

	if c.extractor == nil {
		return core.TierPublic, nil
	}

	entities, err := c.extractor.ExtractEntities(ctx, core.RunePrefix(text, c.prefixCap))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrEntityExtractionFailed, err)
	}

	count := 0
	for category, surfaces := range entities {
		if SensitiveCategories[category] {
			count += len(surfaces)
		}
	}

	if count > c.entityThreshold {
		c.logger.Debug("entity density match", "entities", count, "threshold", c.entityThreshold)
		return core.TierBusiness, nil
	}

	return core.TierPublic, nil
}
