package expand

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jatengdev/govrag/config"
)

// Expander produces deterministic query variants from a fixed rule table.
// No model call is involved, so expansion adds no latency or spend.
type Expander struct {
	enabled     bool
	maxVariants int
	rules       []config.ExpansionRule
}

// New builds the expander from configuration.
func New(cfg config.ExpansionConfig) *Expander {
	maxVariants := cfg.MaxVariants
	if maxVariants <= 0 {
		maxVariants = 5
	}
	return &Expander{
		enabled:     cfg.Enable,
		maxVariants: maxVariants,
		rules:       cfg.Rules,
	}
}

// Expand returns the variant set for a query. The original query is always
// first. Rules fire on case-insensitive substring match of their trigger, in
// table order: each synonym yields a variant with the trigger replaced, each
// suffix a variant with the text appended. Duplicates after lowercasing and
// whitespace normalization are dropped, and the set is capped at maxVariants.
func (e *Expander) Expand(query string) []string {
	query = strings.TrimSpace(query)
	variants := []string{query}
	if !e.enabled {
		return variants
	}

	seen := map[string]bool{canonical(query): true}

	appendVariant := func(v string) {
		if len(variants) >= e.maxVariants {
			return
		}
		v = strings.TrimSpace(v)
		key := canonical(v)
		if v == "" || seen[key] {
			return
		}
		seen[key] = true
		variants = append(variants, v)
	}

	for _, rule := range e.rules {
		start, end, ok := findFold(query, rule.Trigger)
		if !ok {
			continue
		}
		for _, syn := range rule.Synonyms {
			// Replace on the original string, preserving surrounding casing.
			appendVariant(query[:start] + syn + query[end:])
		}
		for _, suffix := range rule.Suffixes {
			appendVariant(query + " " + suffix)
		}
		if len(variants) >= e.maxVariants {
			break
		}
	}
	return variants
}

func canonical(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// findFold locates the first case-insensitive occurrence of trigger in s and
// returns its byte bounds in s. Matching runs rune by rune on s itself, so
// the bounds are always valid splice points even when lowercasing would
// change a rune's byte length.
func findFold(s, trigger string) (start, end int, ok bool) {
	lt := strings.ToLower(trigger)
	if lt == "" {
		return 0, 0, false
	}
	for i := range s {
		j, k := i, 0
		for k < len(lt) && j < len(s) {
			sr, sw := utf8.DecodeRuneInString(s[j:])
			tr, tw := utf8.DecodeRuneInString(lt[k:])
			if unicode.ToLower(sr) != tr {
				break
			}
			j += sw
			k += tw
		}
		if k == len(lt) {
			return i, j, true
		}
	}
	return 0, 0, false
}
