// Package vocabulary compiles phrase sets for providers that recognise
// against a restricted vocabulary.
//
// A vocabulary remembers a revision of the phrases it was last compiled
// with; callers check MatchesPhrases and only Compile when it reports false.
package vocabulary

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Standard vocabulary names.
const (
	NameKeyword = "keyword"
	NameDefault = "default"
)

// Vocabulary is a named, compiled phrase set.
type Vocabulary interface {
	Name() string
	// MatchesPhrases reports whether the compiled artifact was built from
	// exactly this phrase set, ignoring order and duplicates.
	MatchesPhrases(phrases []string) bool
	// Compile rebuilds the artifact from phrases.
	Compile(phrases []string) error
}

// Factory creates the vocabulary for a name.
type Factory func(name string) Vocabulary

// Normalize returns the trimmed, de-duplicated, sorted phrase set.
func Normalize(phrases []string) []string {
	cleaned := lo.FilterMap(phrases, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	})
	out := lo.Uniq(cleaned)
	sort.Strings(out)
	return out
}

// Revision is the SHA-256 of the normalized phrase set.
func Revision(phrases []string) string {
	h := sha256.New()
	for _, p := range Normalize(phrases) {
		h.Write([]byte(p))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
