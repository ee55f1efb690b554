package search

// Synonyms maps a normalized job search phrase to alternatives that are
// searched alongside it.
var Synonyms = map[string][]string{
	"frontend":         {"front end", "frontend developer", "ui developer"},
	"backend":          {"back end", "server developer"},
	"fullstack":        {"full stack", "full stack developer"},
	"devops":           {"site reliability", "sre", "platform engineer"},
	"golang":           {"go developer", "go engineer"},
	"designer":         {"graphic designer", "ui designer", "visual designer"},
	"qa":               {"quality assurance", "tester", "test engineer"},
	"hr":               {"human resources", "recruiter", "talent acquisition"},
	"pm":               {"product manager", "project manager"},
	"admin":            {"administration", "administrative assistant"},
	"data scientist":   {"machine learning", "data analyst"},
	"customer service": {"customer support", "support agent"},
}

func GetSynonyms(phrase string) []string {
	if phrase == "" {
		return []string{}
	}
	v, ok := Synonyms[phrase]
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(v))
	return append(out, v...)
}
