package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	tests := map[string]string{
		"  Senior   GO Developer ": "senior go developer",
		"C++ / C#":                 "c++ c#",
		"front-end, remote!":       "front end remote",
		"node.js":                  "node.js",
		"   ":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeQuery(in), in)
	}
}

func TestExpand(t *testing.T) {
	assert.Equal(t, []string{}, Expand(""))
	assert.Equal(t, []string{"plumber"}, Expand("plumber"))

	got := Expand("backend")
	assert.Equal(t, []string{"backend", "back end", "server developer"}, got)

	got = Expand("backend berlin")
	assert.Equal(t, "backend berlin", got[0])
	assert.Contains(t, got, "back end berlin")
	assert.Contains(t, got, "server developer berlin")

	got = Expand("customer service jakarta")
	assert.Contains(t, got, "customer support jakarta")

	got = Expand("datascientist")
	assert.Contains(t, got, "data scientist")
}

func TestExpand_Capped(t *testing.T) {
	saved := Synonyms["backend"]
	t.Cleanup(func() { Synonyms["backend"] = saved })
	Synonyms["backend"] = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}

	assert.Len(t, Expand("backend"), MaxVariants)
}

func TestProcess(t *testing.T) {
	q := Process(" Frontend ")
	assert.Equal(t, " Frontend ", q.Original)
	assert.Equal(t, "frontend", q.Normalized)
	assert.Equal(t, "frontend", q.Variants[0])
}
