package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"

	verr "github.com/nihei9/ruletext/error"
	"github.com/nihei9/ruletext/ruletype"
)

func TestDecodeSpelloutTable(t *testing.T) {
	tests := []struct {
		caption string
		text    string
		rt      ruletype.RuleType
		sub     ruletype.Subtype
		table   *SpelloutTable
	}{
		{
			caption: "the empty text",
			text:    "",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			table:   nil,
		},
		{
			caption: "2x2 with empty row descriptors and without comments",
			text:    "w1>|<2|2|>|<>|<10|20|a@x|30|b@y|c1|c2|c3|c4|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			table: &SpelloutTable{
				Header: SpelloutHeader{
					Name: "w1",
				},
				Rows:           "2",
				Cols:           "2",
				RowDescriptors: []*SpelloutRow{{}, {}},
				Col1Width:      "10",
				Columns: []*SpelloutColumn{
					{Width: "20", Name: "a", HasFeatures: true, Features: "x"},
					{Width: "30", Name: "b", HasFeatures: true, Features: "y"},
				},
				Cells: []string{"c1", "c2", "c3", "c4"},
			},
		},
		{
			caption: "the Table subtype keeps row descriptors in the dimension zone",
			text:    "tbl|a^b^c>|<1|2|r@1^2^3|5|6|n@f|7|m|x|y|~!~c1^c2^all",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeTable,
			table: &SpelloutTable{
				Header: SpelloutHeader{
					Name:     "tbl",
					Features: []string{"a", "b", "c"},
				},
				Rows: "1",
				Cols: "2",
				RowDescriptors: []*SpelloutRow{
					{Present: true, Name: "r", Features: []string{"1", "2", "3"}},
				},
				Col1Width: "5",
				Columns: []*SpelloutColumn{
					{Width: "6", Name: "n", HasFeatures: true, Features: "f"},
					{Width: "7", Name: "m"},
				},
				Cells:         []string{"x", "y"},
				CommentMarker: true,
				Comments:      []string{"c1", "c2", "all"},
			},
		},
		{
			caption: "a Table header without features",
			text:    "tbl|>|<0|0|0|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeTable,
			table: &SpelloutTable{
				Header: SpelloutHeader{
					Name: "tbl",
				},
				Rows:           "0",
				Cols:           "0",
				RowDescriptors: []*SpelloutRow{},
				Col1Width:      "0",
				Columns:        []*SpelloutColumn{},
			},
		},
		{
			caption: "a comment marker without comments",
			text:    "w>|<0|0|0|~!~",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSuppletiveForms,
			table: &SpelloutTable{
				Header: SpelloutHeader{
					Name: "w",
				},
				Rows:           "0",
				Cols:           "0",
				RowDescriptors: []*SpelloutRow{},
				Col1Width:      "0",
				Columns:        []*SpelloutColumn{},
				CommentMarker:  true,
			},
		},
		{
			caption: "rows of Rules_Lexical have a single feature",
			text:    "w>|<2|1|r@a>|<@>|<4|5|k@|e1|e2|",
			rt:      ruletype.Lexical,
			sub:     ruletype.SubtypeLexicalFormSelection,
			table: &SpelloutTable{
				Header: SpelloutHeader{
					Name: "w",
				},
				Rows: "2",
				Cols: "1",
				RowDescriptors: []*SpelloutRow{
					{Present: true, Name: "r", Features: []string{"a"}},
					{Present: true, Name: "", Features: []string{""}},
				},
				Col1Width: "4",
				Columns: []*SpelloutColumn{
					{Width: "5", Name: "k", HasFeatures: true},
				},
				Cells: []string{"e1", "e2"},
			},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			table, err := DecodeSpelloutTable(tt.text, tt.rt, tt.sub)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(table, tt.table) {
				t.Fatalf("unexpected table;\nwant: %+v\ngot:  %+v", tt.table, table)
			}
			text, err := EncodeSpelloutTable(table, tt.rt, tt.sub)
			if err != nil {
				t.Fatal(err)
			}
			if text != tt.text {
				t.Fatalf("unexpected text; want: %q, got: %q", tt.text, text)
			}
		})
	}
}

func TestDecodeSpelloutTable_PhraseBuilder(t *testing.T) {
	text := "pb|a~|1\r\n^~^out>|<2|1|r@b~|2\r\n>|<>|<0|3|c|v|w|"

	table, err := DecodeSpelloutTable(text, ruletype.Spellout, ruletype.SubtypePhraseBuilder)
	if err != nil {
		t.Fatal(err)
	}

	h := table.Header
	if h.Name != "pb" {
		t.Fatalf("unexpected header name: %q", h.Name)
	}
	if h.Structures == nil || h.Structures.Input == nil || h.Structures.Output == nil {
		t.Fatalf("the header must have input and output structures: %+v", h.Structures)
	}
	in := h.Structures.Input
	if len(in.Structures) != 1 || len(in.Structures[0].Constituents) != 1 || in.Structures[0].Constituents[0].RawSource != "a" {
		t.Fatalf("unexpected input structures: %+v", in)
	}
	if !in.TrailingTerminator {
		t.Fatalf("the input structures must end with the terminator")
	}
	out := h.Structures.Output
	if len(out.Structures) != 1 || !reflect.DeepEqual(out.Structures[0].Lines, []string{"out"}) {
		t.Fatalf("unexpected output structures: %+v", out)
	}

	if len(table.RowDescriptors) != 2 {
		t.Fatalf("unexpected row count: %v", len(table.RowDescriptors))
	}
	r := table.RowDescriptors[0]
	if !r.Present || r.Name != "r" || r.Structures == nil || r.Structures.Output != nil {
		t.Fatalf("unexpected row #0: %+v", r)
	}
	if c := r.Structures.Input.Structures[0].Constituents[0]; c.RawSource != "b" || c.RawFeatures != "2" {
		t.Fatalf("unexpected row #0 constituent: %+v", c)
	}
	if table.RowDescriptors[1].Present {
		t.Fatalf("row #1 must be empty: %+v", table.RowDescriptors[1])
	}
	if !reflect.DeepEqual(table.Cells, []string{"v", "w"}) {
		t.Fatalf("unexpected cells: %q", table.Cells)
	}

	encoded, err := EncodeSpelloutTable(table, ruletype.Spellout, ruletype.SubtypePhraseBuilder)
	if err != nil {
		t.Fatal(err)
	}
	if encoded != text {
		t.Fatalf("unexpected text; want: %q, got: %q", text, encoded)
	}
}

func TestDecodeSpelloutTable_Error(t *testing.T) {
	tests := []struct {
		caption string
		text    string
		rt      ruletype.RuleType
		sub     ruletype.Subtype
		cause   error
		context []string
	}{
		{
			caption: "no dimensions",
			text:    "w1",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.MalformedInput,
		},
		{
			caption: "a non-numeric row count",
			text:    "w1>|<x|2|>|<0|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.MalformedInput,
		},
		{
			caption: "a non-numeric column count",
			text:    "w1>|<0|-1|0|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.MalformedInput,
		},
		{
			caption: "dimensions without the terminating separator",
			text:    "w1>|<0|0",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.MalformedInput,
		},
		{
			caption: "a missing row descriptor",
			text:    "w1>|<2|0|>|<0|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.MalformedInput,
		},
		{
			caption: "too few cells",
			text:    "w1>|<1|2|>|<0|1|a|2|b|x|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.InvariantViolation,
			context: []string{"columns"},
		},
		{
			caption: "cells without the terminating separator",
			text:    "w1>|<1|1|>|<0|1|a|x",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.MalformedInput,
			context: []string{"columns"},
		},
		{
			caption: "the wrong number of comments",
			text:    "w1>|<1|1|>|<0|1|a|x|~!~c1",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.InvariantViolation,
			context: []string{"columns"},
		},
		{
			caption: "a row descriptor without the name separator",
			text:    "w1>|<1|0|r>|<0|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.MalformedInput,
			context: []string{"row 1"},
		},
		{
			caption: "a row with a wrong feature count",
			text:    "w>|<1|0|r@a^b>|<0|",
			rt:      ruletype.Lexical,
			sub:     ruletype.SubtypeSimple,
			cause:   verr.MalformedInput,
			context: []string{"row 1"},
		},
		{
			caption: "a Table header with 2 features",
			text:    "tbl|a^b>|<0|0|0|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeTable,
			cause:   verr.MalformedInput,
			context: []string{"header"},
		},
		{
			caption: "a Table with extra zones",
			text:    "tbl|>|<1|0|>|<0|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypeTable,
			cause:   verr.MalformedInput,
		},
		{
			caption: "a Phrase Builder header with three structure parts",
			text:    "pb|a~|1\r\n^~^x^~^y>|<0|0|0|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypePhraseBuilder,
			cause:   verr.MalformedInput,
			context: []string{"header"},
		},
		{
			caption: "a malformed structure in a Phrase Builder row",
			text:    "pb|>|<1|0|r@bad\r\n>|<0|",
			rt:      ruletype.Spellout,
			sub:     ruletype.SubtypePhraseBuilder,
			cause:   verr.MalformedInput,
			context: []string{"row 1", "input structures", "structure 1"},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			_, err := DecodeSpelloutTable(tt.text, tt.rt, tt.sub)
			if !errors.Is(err, tt.cause) {
				t.Fatalf("unexpected error; want: %v, got: %v", tt.cause, err)
			}
			var cerr *verr.CodecError
			if !errors.As(err, &cerr) {
				t.Fatalf("the error must be a *CodecError: %T", err)
			}
			if len(tt.context) > 0 && !reflect.DeepEqual(cerr.Context, tt.context) {
				t.Fatalf("unexpected context; want: %q, got: %q", tt.context, cerr.Context)
			}
		})
	}
}

func TestSpelloutTables(t *testing.T) {
	text := "w1>|<1|1|>|<3|4|a@|x|~!~c^d~!!~~!!~w2>|<0|0|0|"

	ts, err := DecodeSpelloutTables(text, ruletype.Spellout, ruletype.SubtypeSimple)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts.Layers) != 3 {
		t.Fatalf("unexpected layer count; want: 3, got: %v", len(ts.Layers))
	}
	if ts.Layers[1] != nil {
		t.Fatalf("an empty layer must decode to nil: %+v", ts.Layers[1])
	}
	for i, table := range ts.Layers {
		if table == nil {
			continue
		}
		rows, err := table.NumRows()
		if err != nil {
			t.Fatal(err)
		}
		cols, err := table.NumCols()
		if err != nil {
			t.Fatal(err)
		}
		if len(table.Cells) != rows*cols {
			t.Fatalf("layer #%v: %v cells in a %vx%v table", i, len(table.Cells), rows, cols)
		}
		if len(table.Comments) != 0 && len(table.Comments) != rows*cols+1 {
			t.Fatalf("layer #%v: %v comments in a %vx%v table", i, len(table.Comments), rows, cols)
		}
	}

	encoded, err := EncodeSpelloutTables(ts, ruletype.Spellout, ruletype.SubtypeSimple)
	if err != nil {
		t.Fatal(err)
	}
	if encoded != text {
		t.Fatalf("unexpected text; want: %q, got: %q", text, encoded)
	}

	_, err = DecodeSpelloutTables("w1>|<0|0|0|~!!~w2>|<1|1|>|<0|1|a|", ruletype.Spellout, ruletype.SubtypeSimple)
	var cerr *verr.CodecError
	if !errors.As(err, &cerr) {
		t.Fatalf("the error must be a *CodecError: %v", err)
	}
	if !reflect.DeepEqual(cerr.Context, []string{"layer 2", "columns"}) {
		t.Fatalf("unexpected context: %q", cerr.Context)
	}
}

func TestEncodeSpelloutTable_Error(t *testing.T) {
	valid := func() *SpelloutTable {
		return &SpelloutTable{
			Header:         SpelloutHeader{Name: "w"},
			Rows:           "1",
			Cols:           "1",
			RowDescriptors: []*SpelloutRow{{}},
			Col1Width:      "0",
			Columns:        []*SpelloutColumn{{Width: "1", Name: "a"}},
			Cells:          []string{"x"},
		}
	}

	text, err := EncodeSpelloutTable(valid(), ruletype.Spellout, ruletype.SubtypeSimple)
	if err != nil {
		t.Fatal(err)
	}
	if text != "w>|<1|1|>|<0|1|a|x|" {
		t.Fatalf("unexpected text: %q", text)
	}

	tests := []struct {
		caption string
		modify  func(t *SpelloutTable)
	}{
		{
			caption: "a non-numeric row count",
			modify: func(t *SpelloutTable) {
				t.Rows = "one"
			},
		},
		{
			caption: "a missing row descriptor",
			modify: func(t *SpelloutTable) {
				t.RowDescriptors = nil
			},
		},
		{
			caption: "an extra column",
			modify: func(t *SpelloutTable) {
				t.Columns = append(t.Columns, &SpelloutColumn{Width: "1"})
			},
		},
		{
			caption: "too many cells",
			modify: func(t *SpelloutTable) {
				t.Cells = append(t.Cells, "y")
			},
		},
		{
			caption: "a comment per cell without the trailing comment",
			modify: func(t *SpelloutTable) {
				t.Comments = []string{"c"}
			},
		},
		{
			caption: "column features without the separator",
			modify: func(t *SpelloutTable) {
				t.Columns[0].Features = "f"
			},
		},
		{
			caption: "a table with only a header is not the empty layer",
			modify: func(t *SpelloutTable) {
				*t = SpelloutTable{Header: SpelloutHeader{Name: "w"}}
			},
		},
		{
			caption: "a row with the wrong feature count",
			modify: func(t *SpelloutTable) {
				t.RowDescriptors[0] = &SpelloutRow{Present: true, Name: "r", Features: []string{"a"}}
			},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			table := valid()
			tt.modify(table)
			_, err := EncodeSpelloutTable(table, ruletype.Spellout, ruletype.SubtypeSimple)
			if !errors.Is(err, verr.InvariantViolation) {
				t.Fatalf("unexpected error; want: %v, got: %v", verr.InvariantViolation, err)
			}
		})
	}
}

func TestEncodeSpelloutTable_EmptyLayer(t *testing.T) {
	tests := []struct {
		kind Kind
		text string
	}{
		{kind: KindSpelloutTable, text: ""},
		{kind: KindSpelloutTables, text: ""},
		{kind: KindSpelloutTables, text: "w>|<0|0|0|~!!~"},
		{kind: KindSpelloutTables, text: "~!!~w>|<0|0|0|"},
	}
	opts := Options{RuleType: ruletype.Spellout, Subtype: ruletype.SubtypeSimple}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			v, err := Decode(tt.kind, tt.text, opts)
			if err != nil {
				t.Fatal(err)
			}
			b, err := json.Marshal(v)
			if err != nil {
				t.Fatal(err)
			}
			w, err := NewValue(tt.kind)
			if err != nil {
				t.Fatal(err)
			}
			err = json.Unmarshal(b, w)
			if err != nil {
				t.Fatal(err)
			}
			text, err := Encode(tt.kind, w, opts)
			if err != nil {
				t.Fatal(err)
			}
			if text != tt.text {
				t.Fatalf("unexpected text; want: %q, got: %q", tt.text, text)
			}
		})
	}

	text, err := EncodeSpelloutTable(&SpelloutTable{}, ruletype.Spellout, ruletype.SubtypeSimple)
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Fatalf("the zero table must encode to the empty text: %q", text)
	}
}
