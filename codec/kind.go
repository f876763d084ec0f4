package codec

import (
	"fmt"
	"reflect"

	verr "github.com/nihei9/ruletext/error"
	"github.com/nihei9/ruletext/ruletype"
)

// Kind names a decode/encode pair.
type Kind string

const (
	KindInputStructure   = Kind("input-structure")
	KindInputStructures  = Kind("input-structures")
	KindOutputStructure  = Kind("output-structure")
	KindOutputStructures = Kind("output-structures")
	KindSpelloutTable    = Kind("spellout-table")
	KindSpelloutTables   = Kind("spellout-tables")
)

var kinds = []Kind{
	KindInputStructure,
	KindInputStructures,
	KindOutputStructure,
	KindOutputStructures,
	KindSpelloutTable,
	KindSpelloutTables,
}

func Kinds() []Kind {
	ks := make([]Kind, len(kinds))
	copy(ks, kinds)
	return ks
}

func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown codec: %v", s)
}

// Options selects the grammar variant. Subtype is used only by the spellout table codecs.
type Options struct {
	RuleType ruletype.RuleType
	Subtype  ruletype.Subtype
}

// ParseOptions parses a rule type and an optional subtype, each given by name or decimal code.
func ParseOptions(ruleType, subtype string) (Options, error) {
	var opts Options
	rt, err := ruletype.Parse(ruleType)
	if err != nil {
		return opts, err
	}
	opts.RuleType = rt
	if subtype != "" {
		sub, err := ruletype.ParseSubtype(subtype)
		if err != nil {
			return opts, err
		}
		opts.Subtype = sub
	}
	return opts, nil
}

// NewValue returns a pointer to the zero value that Decode returns for the kind, e.g., for unmarshaling JSON
// before calling Encode.
func NewValue(k Kind) (interface{}, error) {
	switch k {
	case KindInputStructure:
		return &InputStructure{}, nil
	case KindInputStructures:
		return &InputStructures{}, nil
	case KindOutputStructure:
		return &OutputStructure{}, nil
	case KindOutputStructures:
		return &OutputStructures{}, nil
	case KindSpelloutTable:
		return &SpelloutTable{}, nil
	case KindSpelloutTables:
		return &SpelloutTables{}, nil
	}
	return nil, fmt.Errorf("unknown codec: %v", k)
}

func Decode(k Kind, text string, opts Options) (interface{}, error) {
	switch k {
	case KindInputStructure:
		return DecodeInputStructure(text, opts.RuleType)
	case KindInputStructures:
		return DecodeInputStructures(text, opts.RuleType)
	case KindOutputStructure:
		return DecodeOutputStructure(text, opts.RuleType)
	case KindOutputStructures:
		return DecodeOutputStructures(text, opts.RuleType)
	case KindSpelloutTable:
		return DecodeSpelloutTable(text, opts.RuleType, opts.Subtype)
	case KindSpelloutTables:
		return DecodeSpelloutTables(text, opts.RuleType, opts.Subtype)
	}
	return nil, fmt.Errorf("unknown codec: %v", k)
}

// Encode encodes a value returned by Decode or NewValue for the same kind.
func Encode(k Kind, v interface{}, opts Options) (string, error) {
	switch k {
	case KindInputStructure:
		if s, ok := v.(*InputStructure); ok {
			return EncodeInputStructure(s, opts.RuleType)
		}
	case KindInputStructures:
		if ss, ok := v.(*InputStructures); ok {
			return EncodeInputStructures(ss, opts.RuleType)
		}
	case KindOutputStructure:
		if s, ok := v.(*OutputStructure); ok {
			return EncodeOutputStructure(s, opts.RuleType)
		}
	case KindOutputStructures:
		if ss, ok := v.(*OutputStructures); ok {
			return EncodeOutputStructures(ss, opts.RuleType)
		}
	case KindSpelloutTable:
		if t, ok := v.(*SpelloutTable); ok {
			return EncodeSpelloutTable(t, opts.RuleType, opts.Subtype)
		}
	case KindSpelloutTables:
		if ts, ok := v.(*SpelloutTables); ok {
			return EncodeSpelloutTables(ts, opts.RuleType, opts.Subtype)
		}
	default:
		return "", fmt.Errorf("unknown codec: %v", k)
	}
	return "", fmt.Errorf("%v can't encode a value of type %T", k, v)
}

// RoundTripResult is what RoundTrip observed.
type RoundTripResult struct {
	Value   interface{}
	Encoded string
}

// RoundTrip decodes the text, encodes the result and decodes it again. It fails with verr.InvariantViolation
// when the encoded text differs from the input or the second decode differs from the first.
func RoundTrip(k Kind, text string, opts Options) (*RoundTripResult, error) {
	v, err := Decode(k, text, opts)
	if err != nil {
		return nil, err
	}
	encoded, err := Encode(k, v, opts)
	if err != nil {
		return nil, err
	}
	if encoded != text {
		return nil, &verr.CodecError{
			Cause:  verr.InvariantViolation,
			Detail: fmt.Sprintf("the encoded text differs from the input: %q", encoded),
		}
	}
	v2, err := Decode(k, encoded, opts)
	if err != nil {
		return nil, err
	}
	if !reflect.DeepEqual(v, v2) {
		return nil, &verr.CodecError{
			Cause:  verr.InvariantViolation,
			Detail: "decoding the encoded text gives a different value",
		}
	}
	return &RoundTripResult{
		Value:   v,
		Encoded: encoded,
	}, nil
}
