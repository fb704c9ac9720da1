package editor

import (
	"strings"

	"github.com/anvilkit/anvil/internal/document"
)

// Filename returns the canonical filename for a document, derived from its
// title: "payment-processing-capability.md", "card-vault-enabler.md". A
// title change that alters this value is what makes a save a rename.
func Filename(doc *document.Document) string {
	return Slug(doc.Title) + "-" + string(doc.Kind) + ".md"
}

// Slug lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slug(title string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		case !hyphen && b.Len() > 0:
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
