package whoscored

import (
	"regexp"
	"strings"
)

// The configuration objects embedded in the site's inline scripts are
// javascript object literals, not JSON: keys are bare identifiers,
// strings use single quotes, arrays elide elements by writing nothing
// between commas, and trailing commas appear before closing brackets.
// RepairScriptObject rewrites such a literal into strict JSON.
//
// The grammar of the repair, in order:
//  1. single quotes become double quotes
//  2. a bare identifier before a colon gets quoted
//  3. two consecutive commas become a comma-delimited empty string
//  4. a trailing comma before ] or } is removed
//
// The transformation is textual and does not tokenize the input; a
// single-quoted string containing a brace or colon would confuse it.
// The site's payloads have never carried one, so this stays a known
// fragility rather than a parser.

var bareKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_$][A-Za-z0-9_$]*)\s*:`)
var trailingCommaPattern = regexp.MustCompile(`,\s*([\]}])`)

func RepairScriptObject(src string) string {
	out := strings.ReplaceAll(src, "'", `"`)
	out = bareKeyPattern.ReplaceAllString(out, `$1"$2":`)
	// runs of commas collapse pairwise, loop until none remain
	for strings.Contains(out, ",,") {
		out = strings.ReplaceAll(out, ",,", `,"",`)
	}
	out = trailingCommaPattern.ReplaceAllString(out, "$1")
	return out
}
