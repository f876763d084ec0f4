// Package ruletype holds the legacy code tables that select a grammar variant of the structure mini-languages:
// rule types (one per exported table), syntactic categories, and spellout rule subtypes.
//
// The tables mirror the codes stored in the exported records exactly, including the ones that look
// historically inconsistent. Don't derive codes from positions; always go through these tables.
package ruletype

import (
	"fmt"
	"strconv"
)

// RuleType identifies the table a field comes from. It selects the delimiter between multiple structures and
// the field-count expectations of the codecs.
type RuleType int

const (
	Lexical                           = RuleType(0)
	FeatureCopying                    = RuleType(1)
	TextPreprocessing                 = RuleType(3)
	Spellout                          = RuleType(4)
	WordMorphophonemic                = RuleType(5)
	Clitic                            = RuleType(6)
	Movement                          = RuleType(7)
	PhraseStructure                   = RuleType(8)
	FindReplace                       = RuleType(9)
	Transfer                          = RuleType(10)
	AffixHopping                      = RuleType(11)
	ThetaGridAdjustments              = RuleType(12)
	PronounIdentification             = RuleType(13)
	PronounSpellout                   = RuleType(14)
	ComplexConcepts                   = RuleType(15)
	SpeechStyles                      = RuleType(16)
	TenseAspectMood                   = RuleType(21)
	FeatureCollapsing                 = RuleType(25)
	RelativeClauses                   = RuleType(26)
	RelativizationRestructuring       = RuleType(27)
	NounNounRelationshipRestructuring = RuleType(28)
	NounNounRelationships             = RuleType(29)
	Groups                            = RuleType(30)
)

func (t RuleType) Int() int {
	return int(t)
}

// Name returns the table name registered first for the code. A few codes are shared by more than one table;
// see the entries table.
func (t RuleType) Name() string {
	for _, e := range entries {
		if e.code == t {
			return e.name
		}
	}
	return ""
}

func (t RuleType) String() string {
	if n := t.Name(); n != "" {
		return n
	}
	return strconv.Itoa(int(t))
}

const (
	delimDefault        = "-*-"
	delimFeatureCopying = ">|<"
)

// Delimiter returns the separator placed between multiple structures in one field.
func Delimiter(t RuleType) string {
	if t == FeatureCopying {
		return delimFeatureCopying
	}
	return delimDefault
}

type entry struct {
	name string
	code RuleType

	// legacy entries only appear in Rules_Groups records of some languages.
	legacy bool
}

// The names are the names of the exported tables. Ontology_VerbHierarchy shares code 92 with
// Ontology_AdpositionHierarchy in the tool itself, so it is kept that way.
var entries = []entry{
	{name: "Rules_Lexical", code: Lexical},
	{name: "Rules_FeatureCopying", code: FeatureCopying},
	{name: "Rules_TextPreprocessing", code: TextPreprocessing},
	{name: "Rules_Spellout", code: Spellout},
	{name: "Rules_WordMorphophonemic", code: WordMorphophonemic},
	{name: "Rules_Clitic", code: Clitic},
	{name: "Rules_Movement", code: Movement},
	{name: "Rules_PhraseStructure", code: PhraseStructure},
	{name: "Rules_FindReplace", code: FindReplace},
	{name: "Rules_Transfer", code: Transfer},
	{name: "Rules_ThetaGridAdjustments", code: ThetaGridAdjustments},
	{name: "Rules_PronounIdentification", code: PronounIdentification},
	{name: "Rules_PronounSpellout", code: PronounSpellout},
	{name: "Rules_ComplexConcepts", code: ComplexConcepts},
	{name: "Rules_SpeechStyles", code: SpeechStyles},
	{name: "Rules_TenseAspectMood", code: TenseAspectMood},
	{name: "Rules_FeatureCollapsing", code: FeatureCollapsing},
	{name: "Rules_RelativeClauses", code: RelativeClauses},
	{name: "Rules_RelativizationRestructuring", code: RelativizationRestructuring},
	{name: "Rules_NounNounRelationshipRestructuring", code: NounNounRelationshipRestructuring},
	{name: "Rules_NounNounRelationships", code: NounNounRelationships},
	{name: "Rules_Groups", code: Groups},

	{name: "Adposition_Mappings_English", code: 41},
	{name: "Conjunction_Mappings_English", code: 42},
	{name: "Noun_Mappings_English", code: 43},
	{name: "Particle_Mappings_English", code: 44},
	{name: "Pronoun_Mappings_English", code: 45},
	{name: "Adverb_Mappings_English", code: 46},
	{name: "Verb_Mappings_English", code: 47},
	{name: "Adjective_Mappings_English", code: 48},

	{name: "Adjectives", code: 51},
	{name: "Adpositions", code: 52},
	{name: "Adverbs", code: 53},
	{name: "Conjunctions", code: 54},
	{name: "Nouns", code: 55},
	{name: "Particles", code: 56},
	{name: "Pronouns", code: 57},
	{name: "Verbs", code: 58},

	{name: "Source_UsersAdjectives", code: 61},
	{name: "Source_UsersAdpositions", code: 62},
	{name: "Source_UsersAdverbs", code: 63},
	{name: "Source_UsersConjunctions", code: 64},
	{name: "Source_UsersNouns", code: 65},
	{name: "Source_UsersPronouns", code: 66},
	{name: "Source_UsersVerbs", code: 67},
	{name: "Source_UsersParticles", code: 68},

	{name: "CharacterFeatureValues", code: 71},
	{name: "PhoneticFeatures", code: 72},
	{name: "Sorting_Sequence", code: 73},
	{name: "Features_Source", code: 74},
	{name: "Features_Target", code: 75},
	{name: "LexicalFormNames", code: 76},

	{name: "Ontology_Adjectives", code: 81},
	{name: "Ontology_Adpositions", code: 82},
	{name: "Ontology_Adverbs", code: 83},
	{name: "Ontology_Conjunctions", code: 84},
	{name: "Ontology_Nouns", code: 85},
	{name: "Ontology_Particles", code: 86},
	{name: "Ontology_Pronouns", code: 87},
	{name: "Ontology_Verbs", code: 88},

	{name: "Ontology_AdjectiveHierarchy", code: 91},
	{name: "Ontology_AdpositionHierarchy", code: 92},
	{name: "Ontology_AdverbHierarchy", code: 93},
	{name: "Ontology_ConjunctionHierarchy", code: 94},
	{name: "Ontology_NounHierarchy", code: 95},
	{name: "Ontology_ParticleHierarchy", code: 96},
	{name: "Ontology_PronounHierarchy", code: 97},
	{name: "Ontology_VerbHierarchy", code: 92},

	{name: "Ontology_Features_Source", code: 101},
	{name: "Ontology_Sorting_Sequence", code: 102},

	{name: "Rules_AffixHopping", code: AffixHopping, legacy: true},
}

// Entry is a (table name, code) pair of the registry.
type Entry struct {
	Name   string   `json:"name"`
	Code   RuleType `json:"code"`
	Legacy bool     `json:"legacy,omitempty"`
}

// All returns every registered table in registration order.
func All() []Entry {
	es := make([]Entry, len(entries))
	for i, e := range entries {
		es[i] = Entry{
			Name:   e.name,
			Code:   e.code,
			Legacy: e.legacy,
		}
	}
	return es
}

// Lookup finds a rule type by its table name.
func Lookup(name string) (RuleType, bool) {
	for _, e := range entries {
		if e.name == name {
			return e.code, true
		}
	}
	return 0, false
}

// Parse accepts either a table name or a decimal code of a registered table.
func Parse(s string) (RuleType, error) {
	if t, ok := Lookup(s); ok {
		return t, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown rule type: %v", s)
	}
	for _, e := range entries {
		if e.code == RuleType(n) {
			return e.code, nil
		}
	}
	return 0, fmt.Errorf("unknown rule type code: %v", n)
}
