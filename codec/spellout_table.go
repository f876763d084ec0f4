package codec

import (
	"fmt"
	"strconv"
	"strings"

	verr "github.com/nihei9/ruletext/error"
	"github.com/nihei9/ruletext/ruletype"
)

// StructurePair is the payload of a Phrase Builder header or row: InputStructures optionally followed by
// OutputStructures.
type StructurePair struct {
	Input *InputStructures `json:"input"`

	// Output is nil when the text had no "^~^" delimiter.
	Output *OutputStructures `json:"output,omitempty"`
}

// SpelloutHeader is the first zone of a table. Which fields are used depends on the rule subtype:
//
//   - Phrase Builder: Name and Structures
//   - Table: Name and Features (none, 1 or 3)
//   - the others: Name holds the bare identifier
type SpelloutHeader struct {
	Name       string         `json:"name"`
	Structures *StructurePair `json:"structures,omitempty"`
	Features   []string       `json:"features,omitempty"`
}

// SpelloutRow describes one row. A row without metadata has Present set to false.
type SpelloutRow struct {
	Present    bool           `json:"present"`
	Name       string         `json:"name,omitempty"`
	Structures *StructurePair `json:"structures,omitempty"`
	Features   []string       `json:"features,omitempty"`
}

type SpelloutColumn struct {
	Width string `json:"width"`
	Name  string `json:"name"`

	// HasFeatures records whether the descriptor had the "@" separator.
	HasFeatures bool   `json:"has_features"`
	Features    string `json:"features"`
}

// SpelloutTable is one layer of a spellout rule's table.
type SpelloutTable struct {
	Header SpelloutHeader `json:"header"`

	// Rows and Cols are the dimensions as decimal digit strings. Use NumRows and NumCols for their values.
	Rows string `json:"rows"`
	Cols string `json:"cols"`

	RowDescriptors []*SpelloutRow    `json:"row_descriptors"`
	Col1Width      string            `json:"col1_width"`
	Columns        []*SpelloutColumn `json:"columns"`

	// Cells is the row-major sequence of the table entries.
	Cells []string `json:"cells"`

	// CommentMarker records whether the text had the "~!~" comment prefix. Comments is either empty or has one
	// entry per cell plus a table-wide trailing comment.
	CommentMarker bool     `json:"comment_marker"`
	Comments      []string `json:"comments,omitempty"`
}

// empty reports whether the table is the zero value, which stands for the empty layer like nil does. A JSON
// null decodes into the zero value.
func (t *SpelloutTable) empty() bool {
	h := t.Header
	return h.Name == "" && h.Structures == nil && len(h.Features) == 0 &&
		t.Rows == "" && t.Cols == "" && len(t.RowDescriptors) == 0 && t.Col1Width == "" &&
		len(t.Columns) == 0 && len(t.Cells) == 0 && !t.CommentMarker && len(t.Comments) == 0
}

func (t *SpelloutTable) NumRows() (int, error) {
	return strconv.Atoi(t.Rows)
}

func (t *SpelloutTable) NumCols() (int, error) {
	return strconv.Atoi(t.Cols)
}

// SpelloutTables is a multi-layer document. A nil layer is an empty layer.
type SpelloutTables struct {
	Layers []*SpelloutTable `json:"layers"`
}

type tableVariant int

const (
	variantIdentifier = tableVariant(iota)
	variantTable
	variantPhraseBuilder
)

func variantOf(sub ruletype.Subtype) tableVariant {
	switch sub {
	case ruletype.SubtypePhraseBuilder:
		return variantPhraseBuilder
	case ruletype.SubtypeTable:
		return variantTable
	}
	return variantIdentifier
}

// DecodeSpelloutTable decodes one layer. The empty text decodes to nil.
func DecodeSpelloutTable(text string, rt ruletype.RuleType, sub ruletype.Subtype) (*SpelloutTable, error) {
	t, err := decodeSpelloutTable(text, rt, sub)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func decodeSpelloutTable(text string, rt ruletype.RuleType, sub ruletype.Subtype) (*SpelloutTable, *verr.CodecError) {
	if text == "" {
		return nil, nil
	}
	v := variantOf(sub)

	parts := strings.Split(text, zoneSep)
	if len(parts) < 2 {
		return nil, verr.Malformed("a table needs a header and dimensions separated by %q", zoneSep)
	}

	t := &SpelloutTable{}

	header, err := decodeSpelloutHeader(parts[0], rt, v)
	if err != nil {
		return nil, err.In("header")
	}
	t.Header = *header

	dims := strings.SplitN(parts[1], cellSep, 3)
	if len(dims) < 3 {
		return nil, verr.Malformed("dimensions must be %q-terminated: %q", cellSep, parts[1])
	}
	t.Rows = dims[0]
	t.Cols = dims[1]
	rows, err := parseDimension("row", t.Rows, len(text))
	if err != nil {
		return nil, err
	}
	cols, err := parseDimension("column", t.Cols, len(text))
	if err != nil {
		return nil, err
	}

	var rowTexts []string
	var block string
	switch {
	case v == variantTable:
		if len(parts) != 2 {
			return nil, verr.Malformed("a table of the Table subtype has 2 zones; found %v", len(parts))
		}
		rest := strings.SplitN(dims[2], cellSep, rows+1)
		if len(rest) != rows+1 {
			return nil, verr.Malformed("the table has %v rows but only %v row descriptors", rows, len(rest)-1)
		}
		rowTexts = rest[:rows]
		block = rest[rows]
	case rows == 0:
		if len(parts) != 2 {
			return nil, verr.Malformed("a table without rows has 2 zones; found %v", len(parts))
		}
		block = dims[2]
	default:
		if len(parts) != rows+2 {
			return nil, verr.Malformed("the table has %v rows but %v row descriptors", rows, len(parts)-2)
		}
		rowTexts = append([]string{dims[2]}, parts[2:rows+1]...)
		block = parts[rows+1]
	}

	t.RowDescriptors = make([]*SpelloutRow, len(rowTexts))
	for i, rowText := range rowTexts {
		row, err := decodeSpelloutRow(rowText, rt, v)
		if err != nil {
			return nil, err.In(fmt.Sprintf("row %v", i+1))
		}
		t.RowDescriptors[i] = row
	}

	if err := t.decodeColumnBlock(block, rows, cols); err != nil {
		return nil, err.In("columns")
	}

	return t, nil
}

func parseDimension(what, s string, limit int) (int, *verr.CodecError) {
	if !isDigits(s) {
		return 0, verr.Malformed("the %v count must be a decimal number: %q", what, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > limit {
		return 0, verr.Malformed("the %v count is out of range: %v", what, s)
	}
	return n, nil
}

func decodeSpelloutHeader(text string, rt ruletype.RuleType, v tableVariant) (*SpelloutHeader, *verr.CodecError) {
	if v == variantIdentifier {
		return &SpelloutHeader{
			Name: text,
		}, nil
	}

	name, info, ok := strings.Cut(text, cellSep)
	if !ok {
		return nil, verr.Malformed("a header needs a name and %q", cellSep)
	}
	h := &SpelloutHeader{
		Name: name,
	}
	switch v {
	case variantPhraseBuilder:
		p, err := decodeStructurePair(info, rt)
		if err != nil {
			return nil, err
		}
		h.Structures = p
	case variantTable:
		if info == "" {
			break
		}
		fs := strings.Split(info, featureSep)
		if len(fs) != 1 && len(fs) != 3 {
			return nil, verr.Malformed("a header has 1 or 3 features; found %v", len(fs))
		}
		h.Features = fs
	}
	return h, nil
}

func decodeStructurePair(text string, rt ruletype.RuleType) (*StructurePair, *verr.CodecError) {
	segs := strings.Split(text, structurePairSep)
	if len(segs) > 2 {
		return nil, verr.Malformed("structures are an input part and an optional output part; found %v parts", len(segs))
	}
	in, err := decodeInputStructures(segs[0], rt)
	if err != nil {
		return nil, err.In("input structures")
	}
	p := &StructurePair{
		Input: in,
	}
	if len(segs) == 2 {
		out, err := decodeOutputStructures(segs[1], rt)
		if err != nil {
			return nil, err.In("output structures")
		}
		p.Output = out
	}
	return p, nil
}

func decodeSpelloutRow(text string, rt ruletype.RuleType, v tableVariant) (*SpelloutRow, *verr.CodecError) {
	if text == "" {
		return &SpelloutRow{}, nil
	}

	name, info, ok := strings.Cut(text, nameSep)
	if !ok {
		return nil, verr.Malformed("a row descriptor needs %q: %q", nameSep, text)
	}
	row := &SpelloutRow{
		Present: true,
		Name:    name,
	}
	if v == variantPhraseBuilder {
		p, err := decodeStructurePair(info, rt)
		if err != nil {
			return nil, err
		}
		row.Structures = p
		return row, nil
	}

	fs := strings.Split(info, featureSep)
	if want := rowFeatureCount(rt); len(fs) != want {
		return nil, verr.Malformed("a row of %v has %v features; found %v", rt, want, len(fs))
	}
	row.Features = fs
	return row, nil
}

func rowFeatureCount(rt ruletype.RuleType) int {
	if rt == ruletype.Lexical {
		return 1
	}
	return 3
}

func (t *SpelloutTable) decodeColumnBlock(text string, rows, cols int) *verr.CodecError {
	col1, rest, ok := strings.Cut(text, cellSep)
	if !ok {
		return verr.Malformed("the column block needs the first column width")
	}
	t.Col1Width = col1

	fields := strings.SplitN(rest, cellSep, 2*cols+1)
	if len(fields) != 2*cols+1 {
		return verr.Malformed("the table has %v columns but only %v column descriptors", cols, len(fields)/2)
	}
	t.Columns = make([]*SpelloutColumn, cols)
	for i := 0; i < cols; i++ {
		name, feats, hasFeats := strings.Cut(fields[2*i+1], nameSep)
		t.Columns[i] = &SpelloutColumn{
			Width:       fields[2*i],
			Name:        name,
			HasFeatures: hasFeats,
			Features:    feats,
		}
	}

	entries, comments, hasComments := strings.Cut(fields[2*cols], cellCommentSep)
	if entries != "" {
		if !strings.HasSuffix(entries, cellSep) {
			return verr.Malformed("table entries must be %q-terminated", cellSep)
		}
		t.Cells = strings.Split(entries[:len(entries)-len(cellSep)], cellSep)
	}
	if len(t.Cells) != rows*cols {
		return verr.Invariant("a %vx%v table has %v entries", rows, cols, len(t.Cells))
	}

	t.CommentMarker = hasComments
	if comments != "" {
		t.Comments = strings.Split(comments, featureSep)
		if len(t.Comments) != rows*cols+1 {
			return verr.Invariant("a %vx%v table has %v entry comments; want %v", rows, cols, len(t.Comments), rows*cols+1)
		}
	}

	return nil
}

// EncodeSpelloutTable is the inverse of DecodeSpelloutTable.
func EncodeSpelloutTable(t *SpelloutTable, rt ruletype.RuleType, sub ruletype.Subtype) (string, error) {
	text, err := encodeSpelloutTable(t, rt, sub)
	if err != nil {
		return "", err
	}
	return text, nil
}

func encodeSpelloutTable(t *SpelloutTable, rt ruletype.RuleType, sub ruletype.Subtype) (string, *verr.CodecError) {
	if t == nil || t.empty() {
		return "", nil
	}
	v := variantOf(sub)

	if !isDigits(t.Rows) || !isDigits(t.Cols) {
		return "", verr.Invariant("the dimensions must be decimal numbers: %q, %q", t.Rows, t.Cols)
	}
	rows, err := strconv.Atoi(t.Rows)
	if err != nil {
		return "", verr.Invariant("the row count is out of range: %v", t.Rows)
	}
	cols, err := strconv.Atoi(t.Cols)
	if err != nil {
		return "", verr.Invariant("the column count is out of range: %v", t.Cols)
	}
	if len(t.RowDescriptors) != rows {
		return "", verr.Invariant("the table has %v rows but %v row descriptors", rows, len(t.RowDescriptors))
	}
	if len(t.Columns) != cols {
		return "", verr.Invariant("the table has %v columns but %v column descriptors", cols, len(t.Columns))
	}
	if len(t.Cells) != rows*cols {
		return "", verr.Invariant("a %vx%v table has %v entries", rows, cols, len(t.Cells))
	}
	if len(t.Comments) != 0 && len(t.Comments) != rows*cols+1 {
		return "", verr.Invariant("a %vx%v table has %v entry comments; want %v", rows, cols, len(t.Comments), rows*cols+1)
	}

	var b strings.Builder

	if cerr := encodeSpelloutHeader(&b, &t.Header, rt, v); cerr != nil {
		return "", cerr.In("header")
	}
	b.WriteString(zoneSep)

	b.WriteString(t.Rows)
	b.WriteString(cellSep)
	b.WriteString(t.Cols)
	b.WriteString(cellSep)
	for i, row := range t.RowDescriptors {
		if cerr := encodeSpelloutRow(&b, row, rt, v); cerr != nil {
			return "", cerr.In(fmt.Sprintf("row %v", i+1))
		}
		if v == variantTable {
			b.WriteString(cellSep)
		} else {
			b.WriteString(zoneSep)
		}
	}

	b.WriteString(t.Col1Width)
	b.WriteString(cellSep)
	for i, c := range t.Columns {
		if c == nil {
			return "", verr.Invariant("column %v has no descriptor", i+1)
		}
		if strings.Contains(c.Name, nameSep) || (!c.HasFeatures && c.Features != "") {
			return "", verr.Invariant("column %v: features need the %q separator after the name", i+1, nameSep)
		}
		b.WriteString(c.Width)
		b.WriteString(cellSep)
		b.WriteString(c.Name)
		if c.HasFeatures {
			b.WriteString(nameSep)
		}
		b.WriteString(c.Features)
		b.WriteString(cellSep)
	}
	for _, cell := range t.Cells {
		b.WriteString(cell)
		b.WriteString(cellSep)
	}
	if t.CommentMarker || len(t.Comments) > 0 {
		b.WriteString(cellCommentSep)
		b.WriteString(strings.Join(t.Comments, featureSep))
	}

	return b.String(), nil
}

func encodeSpelloutHeader(b *strings.Builder, h *SpelloutHeader, rt ruletype.RuleType, v tableVariant) *verr.CodecError {
	b.WriteString(h.Name)
	switch v {
	case variantPhraseBuilder:
		b.WriteString(cellSep)
		return encodeStructurePair(b, h.Structures, rt)
	case variantTable:
		if n := len(h.Features); n != 0 && n != 1 && n != 3 {
			return verr.Invariant("a header has 1 or 3 features; got %v", n)
		}
		b.WriteString(cellSep)
		b.WriteString(strings.Join(h.Features, featureSep))
	}
	return nil
}

func encodeStructurePair(b *strings.Builder, p *StructurePair, rt ruletype.RuleType) *verr.CodecError {
	if p == nil {
		return nil
	}
	in, err := encodeInputStructures(p.Input, rt)
	if err != nil {
		return err.In("input structures")
	}
	b.WriteString(in)
	if p.Output != nil {
		out, err := encodeOutputStructures(p.Output, rt)
		if err != nil {
			return err.In("output structures")
		}
		b.WriteString(structurePairSep)
		b.WriteString(out)
	}
	return nil
}

func encodeSpelloutRow(b *strings.Builder, row *SpelloutRow, rt ruletype.RuleType, v tableVariant) *verr.CodecError {
	if row == nil || !row.Present {
		return nil
	}
	if strings.Contains(row.Name, nameSep) {
		return verr.Invariant("a row name can't contain %q: %q", nameSep, row.Name)
	}
	b.WriteString(row.Name)
	b.WriteString(nameSep)
	if v == variantPhraseBuilder {
		return encodeStructurePair(b, row.Structures, rt)
	}
	if want := rowFeatureCount(rt); len(row.Features) != want {
		return verr.Invariant("a row of %v has %v features; got %v", rt, want, len(row.Features))
	}
	b.WriteString(strings.Join(row.Features, featureSep))
	return nil
}

// DecodeSpelloutTables splits the text into layers and decodes each.
func DecodeSpelloutTables(text string, rt ruletype.RuleType, sub ruletype.Subtype) (*SpelloutTables, error) {
	layers := strings.Split(text, layerSep)
	ts := &SpelloutTables{
		Layers: make([]*SpelloutTable, len(layers)),
	}
	for i, layer := range layers {
		t, err := decodeSpelloutTable(layer, rt, sub)
		if err != nil {
			return nil, err.In(fmt.Sprintf("layer %v", i+1))
		}
		ts.Layers[i] = t
	}
	return ts, nil
}

// EncodeSpelloutTables is the inverse of DecodeSpelloutTables.
func EncodeSpelloutTables(ts *SpelloutTables, rt ruletype.RuleType, sub ruletype.Subtype) (string, error) {
	if ts == nil {
		return "", nil
	}
	texts := make([]string, len(ts.Layers))
	for i, t := range ts.Layers {
		text, err := encodeSpelloutTable(t, rt, sub)
		if err != nil {
			return "", err.In(fmt.Sprintf("layer %v", i+1))
		}
		texts[i] = text
	}
	return strings.Join(texts, layerSep), nil
}
