package ruletype

// Syncat is a syntactic category code as it appears in the records.
type Syncat string

const (
	SyncatClitic      = Syncat("0")
	SyncatNoun        = Syncat("1")
	SyncatVerb        = Syncat("2")
	SyncatAdjective   = Syncat("3")
	SyncatAdverb      = Syncat("4")
	SyncatAdposition  = Syncat("5")
	SyncatConjunction = Syncat("6")
	SyncatPhrasal     = Syncat("7")
	SyncatParticle    = Syncat("8")
	SyncatNP          = Syncat("101")
	SyncatVP          = Syncat("102")
	SyncatAdjP        = Syncat("103")
	SyncatAdvP        = Syncat("104")
	SyncatClause      = Syncat("105")
	SyncatUserDefined = Syncat("106")
	SyncatAll         = Syncat("107")
	SyncatParagraph   = Syncat("110")
	SyncatEpisode     = Syncat("120")
)

type syncatEntry struct {
	name   string
	syncat Syncat
}

var syncats = []syncatEntry{
	{name: "clitic", syncat: SyncatClitic},
	{name: "noun", syncat: SyncatNoun},
	{name: "verb", syncat: SyncatVerb},
	{name: "adjective", syncat: SyncatAdjective},
	{name: "adverb", syncat: SyncatAdverb},
	{name: "adposition", syncat: SyncatAdposition},
	{name: "conjunction", syncat: SyncatConjunction},
	{name: "phrasal", syncat: SyncatPhrasal},
	{name: "particle", syncat: SyncatParticle},
	{name: "np", syncat: SyncatNP},
	{name: "vp", syncat: SyncatVP},
	{name: "adjp", syncat: SyncatAdjP},
	{name: "advp", syncat: SyncatAdvP},
	{name: "clause", syncat: SyncatClause},
	{name: "user-defined", syncat: SyncatUserDefined},
	{name: "all", syncat: SyncatAll},
	{name: "paragraph", syncat: SyncatParagraph},
	{name: "episode", syncat: SyncatEpisode},
}

// SyncatEntry is a (name, code) pair of the syntactic category table.
type SyncatEntry struct {
	Name   string `json:"name"`
	Syncat Syncat `json:"code"`
}

func Syncats() []SyncatEntry {
	es := make([]SyncatEntry, len(syncats))
	for i, e := range syncats {
		es[i] = SyncatEntry{
			Name:   e.name,
			Syncat: e.syncat,
		}
	}
	return es
}

func LookupSyncat(name string) (Syncat, bool) {
	for _, e := range syncats {
		if e.name == name {
			return e.syncat, true
		}
	}
	return "", false
}

// Known reports whether the code is one of the fixed categories.
func (s Syncat) Known() bool {
	for _, e := range syncats {
		if e.syncat == s {
			return true
		}
	}
	return false
}

func (s Syncat) Name() string {
	for _, e := range syncats {
		if e.syncat == s {
			return e.name
		}
	}
	return ""
}

func (s Syncat) IsClause() bool {
	return s == SyncatClause
}

func (s Syncat) IsPhrase() bool {
	switch s {
	case SyncatNP, SyncatVP, SyncatAdjP, SyncatAdvP:
		return true
	}
	return false
}

func (s Syncat) IsWord() bool {
	return s.IsTopWord() || s.IsBottomWord()
}

// IsTopWord reports whether the category is an open-class word: noun, verb, adjective or adverb.
func (s Syncat) IsTopWord() bool {
	switch s {
	case SyncatNoun, SyncatVerb, SyncatAdjective, SyncatAdverb:
		return true
	}
	return false
}

// IsBottomWord reports whether the category is a closed-class word: adposition, conjunction, phrasal or
// particle.
func (s Syncat) IsBottomWord() bool {
	switch s {
	case SyncatAdposition, SyncatConjunction, SyncatPhrasal, SyncatParticle:
		return true
	}
	return false
}
