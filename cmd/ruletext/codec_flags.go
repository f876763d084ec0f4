package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/ruletext/codec"
	verr "github.com/nihei9/ruletext/error"
	"github.com/spf13/cobra"
)

// codecFlags are the flags shared by decode, encode, and roundtrip.
type codecFlags struct {
	codec    *string
	ruleType *string
	subtype  *string
	source   *string
	output   *string
}

func addCodecFlags(cmd *cobra.Command) *codecFlags {
	f := &codecFlags{}
	f.codec = cmd.Flags().StringP("codec", "c", "", "codec name (input-structure, output-structures, spellout-table, ...)")
	f.ruleType = cmd.Flags().StringP("rule-type", "r", "", "table name or code of the rule type (e.g. Rules_Transfer or 10)")
	f.subtype = cmd.Flags().String("subtype", "", "spellout subtype name or code (spellout table codecs only)")
	f.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	f.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	cmd.MarkFlagRequired("codec")
	cmd.MarkFlagRequired("rule-type")
	return f
}

func (f *codecFlags) parse() (codec.Kind, codec.Options, error) {
	k, err := codec.ParseKind(*f.codec)
	if err != nil {
		return "", codec.Options{}, err
	}
	opts, err := codec.ParseOptions(*f.ruleType, *f.subtype)
	if err != nil {
		return "", codec.Options{}, err
	}
	return k, opts, nil
}

func (f *codecFlags) sourceName() string {
	if *f.source == "" {
		return "stdin"
	}
	return *f.source
}

func (f *codecFlags) readSource() (string, error) {
	src := os.Stdin
	if *f.source != "" {
		file, err := os.Open(*f.source)
		if err != nil {
			return "", fmt.Errorf("Cannot open the source file %s: %w", *f.source, err)
		}
		defer file.Close()
		src = file
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (f *codecFlags) writeOutput(data []byte) error {
	w := os.Stdout
	if *f.output != "" {
		file, err := os.OpenFile(*f.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot open the output file %s: %w", *f.output, err)
		}
		defer file.Close()
		w = file
	}
	_, err := w.Write(data)
	return err
}

// nameRecord names the source in a codec error.
func (f *codecFlags) nameRecord(err error) error {
	var cerr *verr.CodecError
	if errors.As(err, &cerr) {
		cerr.Record = f.sourceName()
	}
	return err
}
