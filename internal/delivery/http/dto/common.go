package dto

// apiPrefix is where the versioned API, and with it every private file
// download, is mounted.
const apiPrefix = "/api/v1"

// FileURLer turns a stored blob path into a public URL.
type FileURLer interface {
	URL(path string) string
}

type Page[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func NewPage[T any](items []T, limit, offset int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Limit: limit, Offset: offset}
}

// Map applies fn to every element.
func Map[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func fileURL(u FileURLer, path string) string {
	if path == "" || u == nil {
		return ""
	}
	return u.URL(path)
}

// downloadURL points at the authorized download route for a private file.
func downloadURL(path, route string) string {
	if path == "" {
		return ""
	}
	return apiPrefix + route
}
