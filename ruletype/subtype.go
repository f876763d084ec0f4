package ruletype

import (
	"fmt"
	"strconv"
)

// Subtype selects the grammar of a spellout rule's table.
type Subtype int

const (
	SubtypeSimple               = Subtype(0)
	SubtypeMorphophonemic       = Subtype(1)
	SubtypeLexicalFormSelection = Subtype(2)
	SubtypeTable                = Subtype(3)
	SubtypePhraseBuilder        = Subtype(4)
	SubtypeSuppletiveForms      = Subtype(5)
)

var subtypeNames = []string{
	SubtypeSimple:               "Simple",
	SubtypeMorphophonemic:       "Morphophonemic",
	SubtypeLexicalFormSelection: "Lexical Form Selection",
	SubtypeTable:                "Table",
	SubtypePhraseBuilder:        "Phrase Builder",
	SubtypeSuppletiveForms:      "Suppletive Forms",
}

func (s Subtype) Int() int {
	return int(s)
}

func (s Subtype) Valid() bool {
	return s >= SubtypeSimple && s <= SubtypeSuppletiveForms
}

func (s Subtype) String() string {
	if !s.Valid() {
		return strconv.Itoa(int(s))
	}
	return subtypeNames[s]
}

// ParseSubtype accepts either a subtype name or its decimal code.
func ParseSubtype(str string) (Subtype, error) {
	for i, n := range subtypeNames {
		if n == str {
			return Subtype(i), nil
		}
	}
	n, err := strconv.Atoi(str)
	if err != nil || !Subtype(n).Valid() {
		return 0, fmt.Errorf("unknown spellout subtype: %v", str)
	}
	return Subtype(n), nil
}

// ValidSpelloutCombination reports whether the rule editor allows a spellout rule of the subtype for the
// syntactic category. table is the rule type of the table holding the rule (Rules_Spellout,
// Rules_PronounSpellout or Rules_Lexical).
func ValidSpelloutCombination(table RuleType, syncat Syncat, sub Subtype) bool {
	lexical := table == Lexical

	if syncat == SyncatAll {
		if !(sub == SubtypeMorphophonemic || (sub == SubtypePhraseBuilder && !lexical)) {
			return false
		}
	}
	if syncat == SyncatUserDefined {
		if !(sub == SubtypeSimple || sub == SubtypeMorphophonemic || sub == SubtypeTable) {
			return false
		}
	}
	if syncat.IsClause() || syncat.IsPhrase() || (syncat.IsBottomWord() && !lexical) {
		if !(sub == SubtypeSimple || sub == SubtypeTable) {
			return false
		}
	}
	if syncat.IsTopWord() {
		if sub == SubtypePhraseBuilder && lexical {
			return false
		}
	}
	return sub.Valid()
}
