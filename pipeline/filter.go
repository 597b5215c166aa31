package pipeline

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ClassFilter selects explored classes by doublestar patterns over their
// path form, so com.example.Foo$Bar is matched as com/example/Foo$Bar.
type ClassFilter struct {
	include []string
	exclude []string
}

// NewClassFilter creates a filter. An empty include list admits every
// class that no exclude pattern matches.
func NewClassFilter(include, exclude []string) *ClassFilter {
	return &ClassFilter{include: include, exclude: exclude}
}

// Match reports whether the class with binaryName should be explored.
func (f *ClassFilter) Match(binaryName string) bool {
	path := strings.ReplaceAll(binaryName, ".", "/")
	for _, p := range f.exclude {
		if ok, _ := doublestar.Match(p, path); ok {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// Apply returns the names that match, in their original order.
func (f *ClassFilter) Apply(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
