// Package sanitize wraps bluemonday policies for the two kinds of
// user-supplied text the system stores: candidate free text (answers, notes)
// which must carry no markup at all, and job descriptions which may keep a
// safe formatting subset.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Policy sanitizes untrusted input. Safe for concurrent use.
type Policy struct {
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

// New creates a Policy with the default rule sets.
func New() *Policy {
	return &Policy{
		strict: bluemonday.StrictPolicy(),
		ugc:    bluemonday.UGCPolicy(),
	}
}

// Plain strips all markup and unescapes the entities bluemonday leaves
// behind, so "O'Brien & Sons" round-trips unchanged.
func (p *Policy) Plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(p.strict.Sanitize(s)))
}

// Rich keeps the user-generated-content tag whitelist (links, lists, basic
// formatting) and drops everything else.
func (p *Policy) Rich(s string) string {
	return strings.TrimSpace(p.ugc.Sanitize(s))
}
