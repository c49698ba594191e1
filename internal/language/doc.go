// Package language provides the language-tag plumbing behind artwork
// selection: primary-subtag comparison, country to language mapping,
// a script heuristic for untagged titles, and display names.
package language
