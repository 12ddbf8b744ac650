// Package urlbar defines the contract between the address bar and the
// action providers plugged into it: the per-keystroke QueryContext, the
// ActionsResult entries providers return, and a Manager that runs
// providers and routes picked results back to them.
package urlbar

import (
	"strings"
	"unicode/utf16"
)

// QueryContext holds the user's input for a single query. It is read-only
// once built.
type QueryContext struct {
	// SearchString is the raw input.
	SearchString string

	// TrimmedSearchString is SearchString without surrounding whitespace.
	TrimmedSearchString string

	// TrimmedLowerCaseSearchString is TrimmedSearchString lower-cased.
	TrimmedLowerCaseSearchString string

	// SearchMode names the engine or source the user scoped the search
	// to. Empty means no search mode is engaged.
	SearchMode string
}

// NewQueryContext builds a QueryContext from raw input.
func NewQueryContext(searchString string, searchMode string) *QueryContext {
	trimmed := strings.TrimSpace(searchString)
	return &QueryContext{
		SearchString:                 searchString,
		TrimmedSearchString:          trimmed,
		TrimmedLowerCaseSearchString: strings.ToLower(trimmed),
		SearchMode:                   searchMode,
	}
}

// InSearchMode reports whether a search mode is engaged.
func (qc *QueryContext) InSearchMode() bool {
	return qc.SearchMode != ""
}

// TrimmedLength is the length of TrimmedSearchString in UTF-16 code
// units, the way the address bar measures its input. Characters outside
// the Basic Multilingual Plane, such as most emoji, count twice.
func (qc *QueryContext) TrimmedLength() int {
	n := 0
	for _, r := range qc.TrimmedSearchString {
		n += utf16.RuneLen(r)
	}
	return n
}
