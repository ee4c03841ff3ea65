package book

import (
	"strings"

	"golang.org/x/text/cases"
)

// TitleMatcher reports whether a title contains text, ignoring case with full Unicode folding.
// A Caser keeps state, so a matcher must not be shared between goroutines.
type TitleMatcher struct {
	fold   cases.Caser
	needle string
}

func NewTitleMatcher(text string) *TitleMatcher {
	fold := cases.Fold()
	return &TitleMatcher{
		fold:   fold,
		needle: fold.String(text),
	}
}

func (m *TitleMatcher) Match(title string) bool {
	return strings.Contains(m.fold.String(title), m.needle)
}

// FilterByTitle keeps the books whose title contains text, in their original order
func FilterByTitle(all []Book, text string) []Book {
	m := NewTitleMatcher(text)
	found := []Book{}
	for _, b := range all {
		if m.Match(b.Title) {
			found = append(found, b)
		}
	}
	return found
}
