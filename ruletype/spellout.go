package ruletype

import (
	"fmt"
	"strconv"
)

// CliticType is the position code of a Rules_Clitic rule.
type CliticType int

const (
	CliticPre            = CliticType(0)
	CliticSecondPosition = CliticType(1)
	CliticPost           = CliticType(2)
)

var cliticTypeNames = []string{
	CliticPre:            "preclitic",
	CliticSecondPosition: "second position clitic",
	CliticPost:           "postclitic",
}

func (c CliticType) Valid() bool {
	return c >= CliticPre && c <= CliticPost
}

func (c CliticType) String() string {
	if !c.Valid() {
		return strconv.Itoa(int(c))
	}
	return cliticTypeNames[c]
}

func CliticTypes() []CliticType {
	return []CliticType{CliticPre, CliticSecondPosition, CliticPost}
}

// ModificationType is how a Simple or Table spellout rule changes a word.
type ModificationType int

const (
	ModificationPrefix         = ModificationType(0)
	ModificationSuffix         = ModificationType(1)
	ModificationInfix          = ModificationType(2)
	ModificationNewTranslation = ModificationType(3)
	ModificationAddWord        = ModificationType(4)
	ModificationCircumfix      = ModificationType(5)
)

var modificationNames = []string{
	ModificationPrefix:         "Prefix",
	ModificationSuffix:         "Suffix",
	ModificationInfix:          "Infix",
	ModificationNewTranslation: "New translation",
	ModificationAddWord:        "Add Word",
	ModificationCircumfix:      "Circumfix",
}

func (m ModificationType) Valid() bool {
	return m >= ModificationPrefix && m <= ModificationCircumfix
}

func (m ModificationType) String() string {
	if !m.Valid() {
		return strconv.Itoa(int(m))
	}
	return modificationNames[m]
}

// MorphophonemicModificationType is how a Morphophonemic spellout rule attaches its affix.
type MorphophonemicModificationType int

const (
	MorphoPrefix            = MorphophonemicModificationType(0)
	MorphoInfixAsPrefix     = MorphophonemicModificationType(1)
	MorphoInfixAsSuffix     = MorphophonemicModificationType(2)
	MorphoSuffix            = MorphophonemicModificationType(3)
	MorphoCircumfixAsPrefix = MorphophonemicModificationType(4)
	MorphoCircumfixAsSuffix = MorphophonemicModificationType(5)
)

var morphoModificationNames = []string{
	MorphoPrefix:            "prefix",
	MorphoInfixAsPrefix:     "infix, treated as prefix",
	MorphoInfixAsSuffix:     "infix, treated as suffix",
	MorphoSuffix:            "suffix",
	MorphoCircumfixAsPrefix: "circumfix, treated as prefix",
	MorphoCircumfixAsSuffix: "circumfix, treated as suffix",
}

func (m MorphophonemicModificationType) Valid() bool {
	return m >= MorphoPrefix && m <= MorphoCircumfixAsSuffix
}

func (m MorphophonemicModificationType) String() string {
	if !m.Valid() {
		return strconv.Itoa(int(m))
	}
	return morphoModificationNames[m]
}

// RedupPosition is where a reduplication copies from.
type RedupPosition int

const (
	RedupPrefix = RedupPosition(iota)
	RedupSuffix
	RedupInfix
)

// Codes 1-8 copy that many characters; 9 is unused. Prefix and suffix reduplication use 10-12 for the
// entire stem, and Morphophonemic rules stop at 11. Infix reduplication uses 1-8 and 10 before the marker
// and the same codes plus 10 after it.
const (
	redupMaxCount   = 8
	redupEntireStem = 10
	redupHyphen     = 11
	redupSpace      = 12
	redupAfter      = 10
)

// ReduplicationName returns the description of a reduplication code. morpho selects the Morphophonemic
// subtype's shorter list; it doesn't apply to infixes.
func ReduplicationName(pos RedupPosition, code int, morpho bool) (string, bool) {
	switch pos {
	case RedupPrefix, RedupSuffix:
		edge := "first"
		if pos == RedupSuffix {
			edge = "last"
		}
		switch {
		case code == 1:
			return fmt.Sprintf("Reduplicate %v character of stem.", edge), true
		case code >= 2 && code <= redupMaxCount:
			return fmt.Sprintf("Reduplicate %v %v characters of stem.", edge, code), true
		case code == redupEntireStem:
			return "Reduplicate entire stem.", true
		case code == redupHyphen:
			return "Reduplicate entire stem with a hyphen.", true
		case code == redupSpace && !morpho:
			return "Reduplicate entire stem with a space.", true
		}
	case RedupInfix:
		if morpho {
			return "", false
		}
		place, edge, n := "before", "last", code
		if code > redupAfter {
			place, edge, n = "after", "first", code-redupAfter
		}
		switch {
		case n == 1:
			return fmt.Sprintf("Reduplicate %v character %v marker.", edge, place), true
		case n >= 2 && n <= redupMaxCount:
			return fmt.Sprintf("Reduplicate %v %v characters %v marker.", edge, n, place), true
		case n == redupAfter:
			return fmt.Sprintf("Reduplicate all characters %v marker.", place), true
		}
	}
	return "", false
}

// BaseForm selects the word form a spellout rule starts from.
type BaseForm int

const (
	BaseFormCurrentEntry   = BaseForm(0)
	BaseFormStem           = BaseForm(1)
	BaseFormCitationForm   = BaseForm(2)
	BaseFormNewTranslation = BaseForm(3)
	BaseFormDeleteWord     = BaseForm(4)
)

var baseFormNames = []string{
	BaseFormCurrentEntry:   "Current entry",
	BaseFormStem:           "Stem",
	BaseFormCitationForm:   "Citation Form",
	BaseFormNewTranslation: "New Translation",
	BaseFormDeleteWord:     "Delete Word",
}

func (b BaseForm) String() string {
	if b < BaseFormCurrentEntry || int(b) >= len(baseFormNames) {
		return strconv.Itoa(int(b))
	}
	return baseFormNames[b]
}

// BaseForms returns the base forms a rule of the subtype can choose from. Only Phrase Builder rules can start
// from a new translation or delete the word.
func BaseForms(sub Subtype) []BaseForm {
	fs := []BaseForm{BaseFormCurrentEntry, BaseFormStem, BaseFormCitationForm}
	if sub == SubtypePhraseBuilder {
		fs = append(fs, BaseFormNewTranslation, BaseFormDeleteWord)
	}
	return fs
}
