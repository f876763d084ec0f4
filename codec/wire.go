// Package codec decodes and encodes the structure mini-languages stored in rule records: InputStructures,
// OutputStructures and spellout tables.
//
// Decoders keep every raw sub-token next to the normalized values they derive, and encoders read only the raw
// sub-tokens. This is what makes encode(decode(t)) == t hold even where the normalization is lossy, e.g., a
// gloss source token normalized to a wildcard.
//
// All functions are pure and safe for concurrent use.
package codec

import (
	"strings"

	"github.com/nihei9/ruletext/ruletype"
)

const (
	lineTerminator = "\r\n"
	fieldSep       = "~|"

	// secondary delimiter inside a feature token that marks a user-defined syntactic category.
	syncatSep = "~!~"

	// a line starting with commentMarker begins the trailing comment of an InputStructure.
	commentMarker = "@!@"

	// inline comment suffix of an InputStructure target field.
	inlineCommentMarker = "!@!"

	// copy locations of a feature-copying InputStructure: <src>**<dst>**
	locationSep = "**"

	// a gloss source token is normalized to the wildcard.
	wildcard = "."

	// a target-word reference line has this source token.
	wordRefSource = "0----"

	userSyncatSigil = "&"
	subfieldSep     = "^"
	copySpecSep     = "|"
)

// spellout tables
const (
	layerSep         = "~!!~"
	zoneSep          = ">|<"
	cellSep          = "|"
	nameSep          = "@"
	featureSep       = "^"
	structurePairSep = "^~^"
	cellCommentSep   = "~!~"
)

// splitLines splits text on the line terminator.
func splitLines(s string) []string {
	return strings.Split(s, lineTerminator)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// hasTerminator reports whether text ends with the line terminator. It records what the
// TrailingTerminatorFlag of a multi-structure result preserves.
func hasTerminator(s string) bool {
	return len(s) >= len(lineTerminator) && strings.HasSuffix(s, lineTerminator)
}

// applyTerminator adds or strips the trailing line terminator so that the result ends with it exactly when
// want is true.
func applyTerminator(s string, want bool) string {
	has := hasTerminator(s)
	if want && !has {
		return s + lineTerminator
	}
	if has && !want && len(s) >= len(lineTerminator) {
		return s[:len(s)-len(lineTerminator)]
	}
	return s
}

func usesStructureDelimiter(s string, rt ruletype.RuleType) bool {
	return strings.Contains(s, ruletype.Delimiter(rt))
}
