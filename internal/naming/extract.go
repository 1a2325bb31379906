package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Unclassified is returned by [ExtractName] for filenames without a
// bracketed title.
const Unclassified = "!!"

// reTitle matches the first non-empty half-width [bracketed] group.
var reTitle = regexp.MustCompile(`\[([^\]]+)\]`)

// titleCut ends the classifiable part of a title ("[Author×Artist]").
const titleCut = "×"

// ExtractName returns the classifiable title of a filename: the content of
// its first [bracket] pair, cut before the first "×", with full-width Latin
// letters and digits folded to half-width (NFKC).
func ExtractName(filename string) string {
	m := reTitle.FindStringSubmatch(filename)
	if m == nil {
		return Unclassified
	}
	name := m[1]
	if i := strings.Index(name, titleCut); i >= 0 {
		name = name[:i]
	}
	return norm.NFKC.String(name)
}
