// Package match finds email-address-shaped substrings in text.
//
// The pattern is a syntactic approximation, not RFC 5322 validation: runs such
// as consecutive or leading dots are accepted as long as every character falls
// in the allowed classes.
package match

import (
	"regexp"

	"github.com/hyperifyio/emailextract/internal/aggregate"
)

// Pattern is the exact expression applied to every text blob.
const Pattern = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`

var emailRe = regexp.MustCompile(Pattern)

// Emails returns the distinct matches in text, in order of first appearance.
// No match yields an empty, non-nil set.
func Emails(text string) *aggregate.Set {
	out := &aggregate.Set{}
	for _, m := range emailRe.FindAllString(text, -1) {
		out.Add(m)
	}
	return out
}
