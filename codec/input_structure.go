package codec

import (
	"fmt"
	"regexp"
	"strings"

	verr "github.com/nihei9/ruletext/error"
	"github.com/nihei9/ruletext/ruletype"
)

// Presence says whether a constituent must be matched.
type Presence int

const (
	PresenceNotPresent = Presence(1)
	PresenceOptional   = Presence(2)

	// PresenceObligatory is the default. When tagged with '^' it means "optional but concepts disallowed",
	// and in phrase structure rules "obligatory but concepts disallowed".
	PresenceObligatory = Presence(3)
)

func (p Presence) String() string {
	switch p {
	case PresenceNotPresent:
		return "not present"
	case PresenceOptional:
		return "optional"
	case PresenceObligatory:
		return "obligatory"
	}
	return fmt.Sprintf("presence(%d)", int(p))
}

const inputModifiers = "*&^"

// InputConstituent is one line of an InputStructure.
//
// The first group of fields is derived during decoding and is what a rule engine reads. The second group holds
// the raw sub-tokens; EncodeInputStructure reads only those.
type InputConstituent struct {
	Presence Presence `json:"presence"`

	// Features is a syntactic category code followed by '-' and feature values, or the name of a user-defined
	// category prefixed with '&'.
	Features string `json:"features"`

	TargetWords string `json:"target_words"`

	// SourceWords is the source token with a gloss, e.g. "(Aafter)", normalized to the wildcard ".".
	SourceWords string `json:"source_words"`

	Modifier          string `json:"modifier"`
	RawSource         string `json:"raw_source"`
	RawFeatures       string `json:"raw_features"`
	UserDefinedSyncat bool   `json:"user_defined_syncat"`
	RawSyncatWord     string `json:"raw_syncat_word"`
	RawTarget         string `json:"raw_target"`

	// TargetComment is the inline comment split off the target field, including its leading marker.
	TargetComment string `json:"target_comment"`

	// Fields is the number of fields the line had: 2 or 3. Zero means the constituent was built by hand, and the
	// encoder decides on the third field from the rule type.
	Fields int `json:"fields"`
}

// InputStructure is a sequence of constituents to match.
type InputStructure struct {
	// HasLocations is set when a feature-copying structure starts with "<src>**<dst>**".
	HasLocations bool   `json:"has_locations,omitempty"`
	SourceLoc    string `json:"source_loc,omitempty"`
	DestLoc      string `json:"dest_loc,omitempty"`

	Constituents []*InputConstituent `json:"constituents"`

	// Comment holds the trailing comment lines verbatim, joined by CR LF. The first line starts with "@!@".
	Comment string `json:"comment,omitempty"`
}

// InputStructures is a delimiter-joined sequence of InputStructures.
type InputStructures struct {
	Structures []*InputStructure `json:"structures"`

	// TrailingTerminator records whether the text ended with CR LF. The decoded content can't tell.
	TrailingTerminator bool `json:"trailing_terminator"`
}

var reLocations = regexp.MustCompile(`^([0-9]+)\*\*([0-9]+)\*\*`)

// DecodeInputStructure decodes a single InputStructure. The text must not contain the multi-structure delimiter
// of the rule type; use DecodeInputStructures for such a text.
func DecodeInputStructure(text string, rt ruletype.RuleType) (*InputStructure, error) {
	s, err := decodeInputStructure(text, rt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeInputStructure(text string, rt ruletype.RuleType) (*InputStructure, *verr.CodecError) {
	if usesStructureDelimiter(text, rt) {
		return nil, verr.Malformed("a single structure contains the delimiter %q", ruletype.Delimiter(rt))
	}

	s := &InputStructure{}
	if text == "" {
		return s, nil
	}

	body := text
	if rt == ruletype.FeatureCopying {
		if m := reLocations.FindStringSubmatch(body); m != nil {
			s.HasLocations = true
			s.SourceLoc = m[1]
			s.DestLoc = m[2]
			body = body[len(m[0]):]
		}
	}

	var comment strings.Builder
	inComment := false
	for i, line := range splitLines(body) {
		// Comment lines are kept verbatim, empty ones included.
		if inComment {
			comment.WriteString(lineTerminator)
			comment.WriteString(line)
			continue
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, commentMarker) {
			inComment = true
			comment.WriteString(line)
			continue
		}

		c, err := decodeInputLine(line, rt)
		if err != nil {
			return nil, err.At(i+1, line)
		}
		s.Constituents = append(s.Constituents, c)
	}
	s.Comment = comment.String()

	return s, nil
}

func decodeInputLine(line string, rt ruletype.RuleType) (*InputConstituent, *verr.CodecError) {
	tokens := strings.Split(line, fieldSep)
	if len(tokens) != 2 && len(tokens) != 3 {
		return nil, verr.Malformed("a line needs 2 or 3 fields separated by %q; found %v", fieldSep, len(tokens))
	}
	src := tokens[0]
	feat := tokens[1]
	var target string
	if len(tokens) == 3 {
		target = tokens[2]
	}

	c := &InputConstituent{
		Fields: len(tokens),
	}

	if src != "" && strings.ContainsAny(src[:1], inputModifiers) {
		c.Modifier = src[:1]
		src = src[1:]
	}
	c.RawSource = src
	c.SourceWords = src
	if len(src) > 1 && src[0] == '(' {
		c.SourceWords = wildcard
	}

	if i := strings.Index(target, inlineCommentMarker); i >= 0 {
		c.TargetComment = target[i:]
		target = target[:i]
	}
	c.RawTarget = target
	c.TargetWords = target

	c.RawFeatures = feat
	c.Features = feat
	if name, word, ok := strings.Cut(feat, syncatSep); ok {
		c.UserDefinedSyncat = true
		c.RawFeatures = name
		c.RawSyncatWord = word
		if !strings.HasPrefix(name, userSyncatSigil) {
			name = userSyncatSigil + name
		}
		c.Features = name
		c.TargetWords = word
	}

	switch c.Modifier {
	case "*":
		c.Presence = PresenceNotPresent
	case "&":
		c.Presence = PresenceOptional
	default:
		c.Presence = PresenceObligatory
	}
	if rt == ruletype.PhraseStructure && c.Modifier == "^" && c.TargetWords == "" {
		c.Presence = PresenceNotPresent
	}

	return c, nil
}

// EncodeInputStructure is the inverse of DecodeInputStructure.
func EncodeInputStructure(s *InputStructure, rt ruletype.RuleType) (string, error) {
	text, err := encodeInputStructure(s, rt)
	if err != nil {
		return "", err
	}
	return text, nil
}

func encodeInputStructure(s *InputStructure, rt ruletype.RuleType) (string, *verr.CodecError) {
	if s == nil {
		return "", nil
	}

	var b strings.Builder
	if s.HasLocations {
		if !isDigits(s.SourceLoc) || !isDigits(s.DestLoc) {
			return "", verr.Invariant("copy locations must be decimal numbers: %q, %q", s.SourceLoc, s.DestLoc)
		}
		b.WriteString(s.SourceLoc)
		b.WriteString(locationSep)
		b.WriteString(s.DestLoc)
		b.WriteString(locationSep)
	}
	for i, c := range s.Constituents {
		if c == nil {
			continue
		}
		if err := c.check(); err != nil {
			return "", err.At(i+1, "")
		}

		b.WriteString(c.Modifier)
		b.WriteString(c.RawSource)
		b.WriteString(fieldSep)
		b.WriteString(c.RawFeatures)
		if c.UserDefinedSyncat {
			b.WriteString(syncatSep)
		}
		b.WriteString(c.RawSyncatWord)
		if c.hasTargetField(rt) {
			b.WriteString(fieldSep)
			b.WriteString(c.RawTarget)
			b.WriteString(c.TargetComment)
		}
		b.WriteString(lineTerminator)
	}
	if s.Comment != "" {
		if !strings.HasPrefix(s.Comment, commentMarker) {
			return "", verr.Invariant("a comment must start with %q", commentMarker)
		}
		b.WriteString(s.Comment)
	}

	return b.String(), nil
}

// check rejects constituents whose raw sub-tokens can't be re-emitted without losing data.
func (c *InputConstituent) check() *verr.CodecError {
	switch c.Modifier {
	case "", "*", "&", "^":
	default:
		return verr.Invariant("unknown modifier: %q", c.Modifier)
	}
	switch c.Fields {
	case 0, 3:
	case 2:
		if c.RawTarget != "" || c.TargetComment != "" {
			return verr.Invariant("a 2-field line can't carry a target field")
		}
	default:
		return verr.Invariant("a line has 2 or 3 fields; got %v", c.Fields)
	}
	if !c.UserDefinedSyncat && c.RawSyncatWord != "" {
		return verr.Invariant("a syncat word needs a user-defined syntactic category")
	}
	return nil
}

func (c *InputConstituent) hasTargetField(rt ruletype.RuleType) bool {
	switch c.Fields {
	case 2:
		return false
	case 3:
		return true
	}

	switch rt {
	case ruletype.FeatureCopying, ruletype.Spellout, ruletype.PronounSpellout, ruletype.PhraseStructure:
		return true
	}
	return rt == ruletype.Clitic || c.RawTarget != "" || c.TargetComment != "" || c.RawSource == wordRefSource
}

// DecodeInputStructures splits the text on the rule type's delimiter and decodes every structure.
func DecodeInputStructures(text string, rt ruletype.RuleType) (*InputStructures, error) {
	ss, err := decodeInputStructures(text, rt)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

func decodeInputStructures(text string, rt ruletype.RuleType) (*InputStructures, *verr.CodecError) {
	segs := strings.Split(text, ruletype.Delimiter(rt))
	ss := &InputStructures{
		Structures:         make([]*InputStructure, 0, len(segs)),
		TrailingTerminator: hasTerminator(text),
	}
	for i, seg := range segs {
		s, err := decodeInputStructure(seg, rt)
		if err != nil {
			return nil, err.In(fmt.Sprintf("structure %v", i+1))
		}
		ss.Structures = append(ss.Structures, s)
	}
	return ss, nil
}

// EncodeInputStructures is the inverse of DecodeInputStructures.
func EncodeInputStructures(ss *InputStructures, rt ruletype.RuleType) (string, error) {
	text, err := encodeInputStructures(ss, rt)
	if err != nil {
		return "", err
	}
	return text, nil
}

func encodeInputStructures(ss *InputStructures, rt ruletype.RuleType) (string, *verr.CodecError) {
	if ss == nil {
		return "", nil
	}

	texts := make([]string, len(ss.Structures))
	for i, s := range ss.Structures {
		text, err := encodeInputStructure(s, rt)
		if err != nil {
			return "", err.In(fmt.Sprintf("structure %v", i+1))
		}
		texts[i] = text
	}
	return applyTerminator(strings.Join(texts, ruletype.Delimiter(rt)), ss.TrailingTerminator), nil
}
