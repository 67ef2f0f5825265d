package review

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

//go:embed rulepack.yaml
var defaultRulepack []byte

// ContentPolicy decides whether review text is abusive or spam.
// A rejection is a *domain.ConflictError with rule domain.RuleAbuse.
type ContentPolicy interface {
	Check(title, content string) error
}

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

type rawRulepack struct {
	MaxURLs int       `yaml:"max_urls"`
	Rules   []rawRule `yaml:"rules"`
}

type rawRule struct {
	Name     string   `yaml:"name"`
	Message  string   `yaml:"message"`
	Patterns []string `yaml:"patterns"`
	Phrases  []string `yaml:"phrases"`
	Words    []string `yaml:"words"`
}

type rule struct {
	name     string
	message  string
	patterns []*regexp.Regexp
	phrases  *ahocorasick.Matcher
}

func (r rule) matches(text string) bool {
	if r.phrases != nil && len(r.phrases.MatchThreadSafe([]byte(text))) > 0 {
		return true
	}
	for _, p := range r.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// RulepackPolicy is a ContentPolicy compiled from a YAML rulepack.
// It is safe for concurrent use.
type RulepackPolicy struct {
	maxURLs int
	rules   []rule
}

var defaultPolicy = sync.OnceValue(func() *RulepackPolicy {
	p, err := ParseRulepack(defaultRulepack)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: embedded review rulepack: %v", err))
	}
	return p
})

// DefaultPolicy returns the policy built from the embedded rulepack.
func DefaultPolicy() *RulepackPolicy { return defaultPolicy() }

// LoadRulepack reads a rulepack file. An empty path yields DefaultPolicy.
func LoadRulepack(path string) (*RulepackPolicy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rulepack: %w", err)
	}
	return ParseRulepack(data)
}

// ParseRulepack compiles a YAML rulepack.
func ParseRulepack(data []byte) (*RulepackPolicy, error) {
	var raw rawRulepack
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rulepack: %w", err)
	}

	p := &RulepackPolicy{maxURLs: raw.MaxURLs, rules: make([]rule, 0, len(raw.Rules))}
	for _, rr := range raw.Rules {
		if rr.Name == "" || rr.Message == "" {
			return nil, fmt.Errorf("rulepack: rule needs a name and a message")
		}
		if len(rr.Patterns)+len(rr.Phrases)+len(rr.Words) == 0 {
			return nil, fmt.Errorf("rulepack: rule %q matches nothing", rr.Name)
		}

		compiled := rule{name: rr.Name, message: rr.Message}
		for _, pattern := range rr.Patterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("rulepack: rule %q: %w", rr.Name, err)
			}
			compiled.patterns = append(compiled.patterns, re)
		}
		if len(rr.Words) > 0 {
			quoted := make([]string, len(rr.Words))
			for i, w := range rr.Words {
				quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
			}
			compiled.patterns = append(compiled.patterns,
				regexp.MustCompile(`(?i)\b(?:`+strings.Join(quoted, "|")+`)\b`))
		}
		if len(rr.Phrases) > 0 {
			phrases := make([]string, len(rr.Phrases))
			for i, ph := range rr.Phrases {
				phrases[i] = strings.ToLower(ph)
			}
			compiled.phrases = ahocorasick.NewStringMatcher(phrases)
		}
		p.rules = append(p.rules, compiled)
	}
	return p, nil
}

// Check runs the URL limit and then each rule in order against title and content.
func (p *RulepackPolicy) Check(title, content string) error {
	text := title + " " + content
	if p.maxURLs > 0 && len(urlPattern.FindAllStringIndex(text, -1)) > p.maxURLs {
		return domain.Conflict(domain.RuleAbuse, "Review contains too many URLs")
	}

	lower := strings.ToLower(text)
	for _, r := range p.rules {
		if r.matches(lower) {
			return domain.Conflict(domain.RuleAbuse, "%s", r.message)
		}
	}
	return nil
}

// Rules lists the rule names in evaluation order.
func (p *RulepackPolicy) Rules() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.name
	}
	return names
}
