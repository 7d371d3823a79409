package headmeta

import "fmt"

// Rule is one metadata generator. Apply must only read the Context and only
// touch the head through Head.
type Rule struct {
	Name string

	// Reads lists the Context fields the rule depends on.
	Reads []string

	// Target is the unique node a single-node rule maintains. It is zero for
	// rules that append one node per value.
	Target Selector

	// After names a rule whose node this rule relies on having been created.
	After string

	Apply func(c *Context, h *Head)
}

// Multi reports whether the rule appends a node per value instead of
// maintaining a single node.
func (r Rule) Multi() bool {
	return r.Target.IsZero()
}

// DefaultRules returns the generator pipeline in execution order. The order
// fixes the order of the generated nodes.
func DefaultRules() []Rule {
	return []Rule{
		titleRule,
		canonicalRule,
		descriptionRule,
		keywordsRule,
		authorRule,
		copyrightRule,
		themeColorRule,
		ogTypeRule,
		ogSiteNameRule,
		ogURLRule,
		ogTitleRule,
		ogDescriptionRule,
		ogImageRule,
		ogArticlePublishedTimeRule,
		ogArticleModifiedTimeRule,
		ogArticleAuthorRule,
		ogArticleSectionRule,
		ogArticleTagRule,
		twitterCardRule,
		twitterImageRule,
		twitterSiteRule,
		twitterCreatorRule,
	}
}

// ValidateRules checks that rule names are unique, every rule has an Apply
// function and every After dependency runs earlier.
func ValidateRules(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return fmt.Errorf("rule %d has no name", i)
		}
		if r.Apply == nil {
			return fmt.Errorf("rule %q has no apply function", r.Name)
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate rule %q", r.Name)
		}
		if r.After != "" && !seen[r.After] {
			return fmt.Errorf("rule %q must run after %q", r.Name, r.After)
		}
		seen[r.Name] = true
	}
	return nil
}
