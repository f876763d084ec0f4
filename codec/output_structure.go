package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	verr "github.com/nihei9/ruletext/error"
	"github.com/nihei9/ruletext/ruletype"
)

// TransformKind is what an OutputStructure line does to its constituent. A line has at most one kind.
type TransformKind int

const (
	TransformNone = TransformKind(iota)

	// TransformInsertField1 has "Insert" in field 1; field 3 holds the inserted word number or, for a
	// user-defined category, the target words.
	TransformInsertField1

	// TransformInsertField3 has "Insert" in field 3; the inserted word is in field 1, or feature values to insert
	// are in field 2.
	TransformInsertField3

	TransformCopy
	TransformCopyPhrase
	TransformMove
	TransformDelete
	TransformDeleteTargetWord
)

var transformKindNames = []string{
	TransformNone:             "",
	TransformInsertField1:     "Insert",
	TransformInsertField3:     "Insert (field 3)",
	TransformCopy:             "Copy",
	TransformCopyPhrase:       "CopyPhrase",
	TransformMove:             "Move",
	TransformDelete:           "Delete",
	TransformDeleteTargetWord: "Delete Target Word",
}

func (k TransformKind) String() string {
	if k < 0 || int(k) >= len(transformKindNames) {
		return fmt.Sprintf("transform(%d)", int(k))
	}
	return transformKindNames[k]
}

// InsertFlag is the fourth field of an OutputStructure line.
type InsertFlag int

const (
	// InsertFlagUnknown means the field is absent or holds something other than "0" or "1".
	InsertFlagUnknown = InsertFlag(iota)
	InsertFlagOff
	InsertFlagOn
)

const (
	keywordInsert           = "Insert"
	keywordDelete           = "Delete"
	keywordDeleteTargetWord = "Delete Target Word"
	noWordRef               = "-1"

	outputModifiers = "*&^%"
	activeModifier  = "%"
)

var (
	reCopy       = regexp.MustCompile(`^Copy([0-9]+)$`)
	reCopyPhrase = regexp.MustCompile(`^CopyPhrase([0-9]+)$`)
	reMove       = regexp.MustCompile(`^Move!([0-9]+)$`)
)

// CopiedFeature says that the features in Features (comma-separated) are copied from line Source of the
// corresponding InputStructure.
type CopiedFeature struct {
	Source   string `json:"source"`
	Features string `json:"features"`
}

// OutputConstituent is one line of an OutputStructure: fields "source ~| features[^copies] ~| target ~| flag".
type OutputConstituent struct {
	// NumDelim is the number of field separators the line had. Lines with identical fields but different
	// separator counts encode differently.
	NumDelim int `json:"num_delim"`

	Modifier     string `json:"modifier"`
	Body         string `json:"body"`
	RawFeatures  string `json:"raw_features"`
	HasSubfields bool   `json:"has_subfields"`
	RawSubfields string `json:"raw_subfields"`
	Target       string `json:"target"`
	RawFlag      string `json:"raw_flag"`

	Kind TransformKind `json:"kind"`

	// Index is the source line of Copy and CopyPhrase, or the destination line of Move. It is -1 for the other
	// kinds.
	Index int `json:"index"`

	// ActiveModifier is "%" when the line carried it, empty otherwise.
	ActiveModifier    string          `json:"active_modifier,omitempty"`
	UserDefinedSyncat bool            `json:"user_defined_syncat,omitempty"`
	Syncat            string          `json:"syncat,omitempty"`
	SyncatWord        string          `json:"syncat_word,omitempty"`
	CopiedFeatures    []CopiedFeature `json:"copied_features,omitempty"`
	InsertFlag        InsertFlag      `json:"insert_flag"`
}

// OutputStructure is a sequence of transformation lines. For Rules_Spellout and Rules_PronounSpellout each line
// is opaque and kept in Lines; otherwise lines are decoded into Constituents.
type OutputStructure struct {
	Lines        []string             `json:"lines,omitempty"`
	Constituents []*OutputConstituent `json:"constituents,omitempty"`
}

// OutputStructures is a delimiter-joined sequence of OutputStructures.
type OutputStructures struct {
	Structures []*OutputStructure `json:"structures"`

	// TrailingTerminator records whether the text ended with CR LF. It is always false for the opaque rule
	// types, whose lines keep the terminators themselves.
	TrailingTerminator bool `json:"trailing_terminator"`
}

// opaqueOutput reports whether the rule type stores OutputStructure lines that the codec doesn't split into
// fields.
func opaqueOutput(rt ruletype.RuleType) bool {
	return rt == ruletype.Spellout || rt == ruletype.PronounSpellout
}

// DecodeOutputStructure decodes a single OutputStructure.
func DecodeOutputStructure(text string, rt ruletype.RuleType) (*OutputStructure, error) {
	s, err := decodeOutputStructure(text, rt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeOutputStructure(text string, rt ruletype.RuleType) (*OutputStructure, *verr.CodecError) {
	if usesStructureDelimiter(text, rt) {
		return nil, verr.Malformed("a single structure contains the delimiter %q", ruletype.Delimiter(rt))
	}

	s := &OutputStructure{}
	if text == "" {
		return s, nil
	}

	if opaqueOutput(rt) {
		s.Lines = splitLines(text)
		return s, nil
	}

	for i, line := range splitLines(text) {
		if line == "" {
			continue
		}
		c, err := decodeOutputLine(line)
		if err != nil {
			return nil, err.At(i+1, line)
		}
		s.Constituents = append(s.Constituents, c)
	}

	return s, nil
}

func decodeOutputLine(line string) (*OutputConstituent, *verr.CodecError) {
	tokens := strings.Split(line, fieldSep)
	numDelim := len(tokens) - 1
	if numDelim > 4 || (numDelim == 4 && tokens[4] != "") {
		return nil, verr.Malformed("a line has at most 4 fields separated by %q", fieldSep)
	}
	field := func(i int) string {
		if i < len(tokens) {
			return tokens[i]
		}
		return ""
	}

	c := &OutputConstituent{
		NumDelim: numDelim,
		Index:    -1,
		Target:   field(2),
		RawFlag:  field(3),
	}

	src := field(0)
	if src != "" && strings.ContainsAny(src[:1], outputModifiers) {
		c.Modifier = src[:1]
		src = src[1:]
	}
	c.Body = src
	if c.Modifier == activeModifier {
		c.ActiveModifier = activeModifier
	}

	feat := field(1)
	if primary, subs, ok := strings.Cut(feat, subfieldSep); ok {
		c.HasSubfields = true
		c.RawFeatures = primary
		c.RawSubfields = subs
	} else {
		c.RawFeatures = feat
	}

	if strings.HasPrefix(c.RawFeatures, userSyncatSigil) || strings.Contains(c.RawFeatures, syncatSep) {
		c.UserDefinedSyncat = true
		name := strings.TrimPrefix(c.RawFeatures, userSyncatSigil)
		if i := strings.Index(name, syncatSep); i >= 0 {
			name = name[:i]
		}
		c.Syncat = name
		if _, word, ok := strings.Cut(c.RawFeatures, syncatSep); ok {
			if i := strings.Index(word, syncatSep); i >= 0 {
				word = word[:i]
			}
			c.SyncatWord = word
		} else {
			c.SyncatWord = c.Target
		}
	}

	if c.HasSubfields {
		for _, sub := range strings.Split(c.RawSubfields, subfieldSep) {
			src, feats, ok := strings.Cut(sub, copySpecSep)
			if !ok {
				continue
			}
			c.CopiedFeatures = append(c.CopiedFeatures, CopiedFeature{
				Source:   src,
				Features: feats,
			})
		}
	}

	switch c.RawFlag {
	case "0":
		c.InsertFlag = InsertFlagOff
	case "1":
		c.InsertFlag = InsertFlagOn
	}

	if err := c.classify(); err != nil {
		return nil, err
	}

	return c, nil
}

// classify sets Kind and Index from fields 1 and 3.
func (c *OutputConstituent) classify() *verr.CodecError {
	var kinds []TransformKind
	if c.Body == keywordInsert {
		kinds = append(kinds, TransformInsertField1)
	}
	if c.Target == keywordInsert {
		kinds = append(kinds, TransformInsertField3)
	}
	for _, x := range []struct {
		re   *regexp.Regexp
		kind TransformKind
	}{
		{re: reCopy, kind: TransformCopy},
		{re: reCopyPhrase, kind: TransformCopyPhrase},
		{re: reMove, kind: TransformMove},
	} {
		m := x.re.FindStringSubmatch(c.Body)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return verr.Malformed("a line index is out of range: %v", m[1])
		}
		kinds = append(kinds, x.kind)
		c.Index = n
	}
	switch c.Target {
	case keywordDelete:
		kinds = append(kinds, TransformDelete)
	case keywordDeleteTargetWord:
		kinds = append(kinds, TransformDeleteTargetWord)
	}

	if len(kinds) > 1 {
		return verr.Invariant("a line matches more than one transformation: %v and %v", kinds[0], kinds[1])
	}
	if len(kinds) == 0 {
		return nil
	}
	c.Kind = kinds[0]

	switch c.Kind {
	case TransformCopy, TransformCopyPhrase:
		if c.Target != "" && c.Target != noWordRef && !isDigits(c.Target) {
			return verr.Invariant("a copied line can only refer to target words by number: %q", c.Target)
		}
	case TransformMove:
		if c.Target != "" && c.Target != noWordRef {
			return verr.Invariant("a moved line can't refer to target words: %q", c.Target)
		}
	}
	return nil
}

// EncodeOutputStructure is the inverse of DecodeOutputStructure.
func EncodeOutputStructure(s *OutputStructure, rt ruletype.RuleType) (string, error) {
	text, err := encodeOutputStructure(s, rt)
	if err != nil {
		return "", err
	}
	return text, nil
}

func encodeOutputStructure(s *OutputStructure, rt ruletype.RuleType) (string, *verr.CodecError) {
	if s == nil {
		return "", nil
	}

	if opaqueOutput(rt) {
		if len(s.Constituents) > 0 {
			return "", verr.Invariant("%v stores output lines without fields", rt)
		}
		return strings.Join(s.Lines, lineTerminator), nil
	}
	if len(s.Lines) > 0 {
		return "", verr.Invariant("%v stores output lines with fields", rt)
	}

	var b strings.Builder
	for i, c := range s.Constituents {
		if c == nil {
			continue
		}
		if err := c.check(); err != nil {
			return "", err.At(i+1, "")
		}

		b.WriteString(c.Modifier)
		b.WriteString(c.Body)
		if c.NumDelim >= 1 {
			b.WriteString(fieldSep)
		}
		b.WriteString(c.RawFeatures)
		if c.HasSubfields {
			b.WriteString(subfieldSep)
		}
		b.WriteString(c.RawSubfields)
		if c.NumDelim >= 2 {
			b.WriteString(fieldSep)
		}
		b.WriteString(c.Target)
		if c.NumDelim >= 3 {
			b.WriteString(fieldSep)
		}
		b.WriteString(c.RawFlag)
		if c.NumDelim >= 4 {
			b.WriteString(fieldSep)
		}
		b.WriteString(lineTerminator)
	}

	return b.String(), nil
}

// check rejects constituents whose fields don't fit in the recorded number of separators.
func (c *OutputConstituent) check() *verr.CodecError {
	if c.Modifier != "" && (len(c.Modifier) != 1 || !strings.Contains(outputModifiers, c.Modifier)) {
		return verr.Invariant("unknown modifier: %q", c.Modifier)
	}
	if c.NumDelim < 0 || c.NumDelim > 4 {
		return verr.Invariant("a line has 0 to 4 separators; got %v", c.NumDelim)
	}
	if c.NumDelim < 3 && c.RawFlag != "" {
		return verr.Invariant("the flag field needs 3 separators")
	}
	if c.NumDelim < 2 && c.Target != "" {
		return verr.Invariant("the target field needs 2 separators")
	}
	if c.NumDelim < 1 && (c.RawFeatures != "" || c.HasSubfields || c.RawSubfields != "") {
		return verr.Invariant("the features field needs a separator")
	}
	return nil
}

// DecodeOutputStructures splits the text on the rule type's delimiter and decodes every structure.
func DecodeOutputStructures(text string, rt ruletype.RuleType) (*OutputStructures, error) {
	ss, err := decodeOutputStructures(text, rt)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

func decodeOutputStructures(text string, rt ruletype.RuleType) (*OutputStructures, *verr.CodecError) {
	segs := strings.Split(text, ruletype.Delimiter(rt))
	ss := &OutputStructures{
		Structures: make([]*OutputStructure, 0, len(segs)),
	}
	for i, seg := range segs {
		s, err := decodeOutputStructure(seg, rt)
		if err != nil {
			return nil, err.In(fmt.Sprintf("structure %v", i+1))
		}
		ss.Structures = append(ss.Structures, s)
	}
	if !opaqueOutput(rt) {
		ss.TrailingTerminator = hasTerminator(text)
	}
	return ss, nil
}

// EncodeOutputStructures is the inverse of DecodeOutputStructures.
func EncodeOutputStructures(ss *OutputStructures, rt ruletype.RuleType) (string, error) {
	text, err := encodeOutputStructures(ss, rt)
	if err != nil {
		return "", err
	}
	return text, nil
}

func encodeOutputStructures(ss *OutputStructures, rt ruletype.RuleType) (string, *verr.CodecError) {
	if ss == nil {
		return "", nil
	}

	texts := make([]string, len(ss.Structures))
	for i, s := range ss.Structures {
		text, err := encodeOutputStructure(s, rt)
		if err != nil {
			return "", err.In(fmt.Sprintf("structure %v", i+1))
		}
		texts[i] = text
	}
	text := strings.Join(texts, ruletype.Delimiter(rt))
	if opaqueOutput(rt) {
		return text, nil
	}
	return applyTerminator(text, ss.TrailingTerminator), nil
}
