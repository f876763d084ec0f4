package main

import (
	"encoding/json"
	"fmt"

	"github.com/nihei9/ruletext/codec"
	"github.com/spf13/cobra"
)

var encodeFlags *codecFlags

func init() {
	cmd := &cobra.Command{
		Use:     "encode",
		Short:   "Encode JSON produced by decode back into a field",
		Example: `  ruletext encode --codec output-structure --rule-type Rules_Transfer -s field.json -o field.txt`,
		Args:    cobra.NoArgs,
		RunE:    runEncode,
	}
	encodeFlags = addCodecFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	k, opts, err := encodeFlags.parse()
	if err != nil {
		return err
	}
	src, err := encodeFlags.readSource()
	if err != nil {
		return err
	}
	v, err := codec.NewValue(k)
	if err != nil {
		return err
	}
	err = json.Unmarshal([]byte(src), v)
	if err != nil {
		return fmt.Errorf("Cannot read the value %s: %w", encodeFlags.sourceName(), err)
	}
	text, err := codec.Encode(k, v, opts)
	if err != nil {
		return encodeFlags.nameRecord(err)
	}
	return encodeFlags.writeOutput([]byte(text))
}
