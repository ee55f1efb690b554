// Package search turns free-text job queries into the terms the job board
// matches against titles, descriptions and company names.
package search

import (
	"strings"
	"unicode"
)

// MaxVariants caps how many terms a single query expands into.
const MaxVariants = 10

type Query struct {
	Original   string
	Normalized string
	Variants   []string
}

// NormalizeQuery lower-cases input, keeps letters, digits and the
// characters common in job titles (+ # .), and collapses whitespace.
func NormalizeQuery(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '+', r == '#', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '/', r == ',':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Expand returns normalized followed by its synonym variants. A leading
// phrase with synonyms is swapped out while the rest of the query is kept,
// so "backend berlin" also yields "back end berlin".
func Expand(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, MaxVariants)
	seen := make(map[string]struct{}, MaxVariants)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || len(out) >= MaxVariants {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	for _, syn := range GetSynonyms(normalized) {
		add(syn)
	}

	words := strings.Fields(normalized)
	replacePrefix := func(n int) {
		if len(words) < n {
			return
		}
		rest := strings.Join(words[n:], " ")
		for _, syn := range GetSynonyms(strings.Join(words[:n], " ")) {
			add(syn + " " + rest)
		}
	}
	replacePrefix(1)
	replacePrefix(2)

	// "fullstack" typed as one word matches the spaced key "full stack".
	if len(words) > 0 {
		for k := range Synonyms {
			if strings.Contains(k, " ") && strings.ReplaceAll(k, " ", "") == words[0] {
				add(strings.Join(append([]string{k}, words[1:]...), " "))
			}
		}
	}
	return out
}

func Process(input string) Query {
	q := Query{Original: input, Normalized: NormalizeQuery(input)}
	q.Variants = Expand(q.Normalized)
	return q
}
