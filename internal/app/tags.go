package app

import "strings"

// DefaultTagDenylist matches encyclopedia housekeeping categories.
var DefaultTagDenylist = []string{
	"articles with",
	"articles containing",
	"all articles",
	"wikipedia",
	"wikidata",
	"coordinates on",
	"cs1",
	"webarchive",
	"short description",
	"use dmy dates",
	"use mdy dates",
	"pages using",
	"pages with",
	"template",
	"stub",
	"commons category",
	"good articles",
	"vague or ambiguous",
	"lacking sources",
	"harv and sfn",
	"official website",
	"infobox",
}

// TagSanitizer drops tags containing any denylisted substring (case-insensitive).
type TagSanitizer struct {
	deny []string
}

// NewTagSanitizer uses DefaultTagDenylist plus extra.
func NewTagSanitizer(extra ...string) *TagSanitizer {
	deny := make([]string, 0, len(DefaultTagDenylist)+len(extra))
	for _, d := range append(append([]string{}, DefaultTagDenylist...), extra...) {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			deny = append(deny, d)
		}
	}
	return &TagSanitizer{deny: deny}
}

// Clean splits raw on commas, drops empty and denylisted tags and rejoins with ", ".
// Clean(Clean(x)) == Clean(x).
func (s *TagSanitizer) Clean(raw string) string {
	parts := strings.Split(raw, ",")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || s.denied(p) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ", ")
}

func (s *TagSanitizer) denied(tag string) bool {
	low := strings.ToLower(tag)
	for _, d := range s.deny {
		if strings.Contains(low, d) {
			return true
		}
	}
	return false
}

var defaultSanitizer = NewTagSanitizer()

// CleanTags applies the default denylist.
func CleanTags(raw string) string { return defaultSanitizer.Clean(raw) }
