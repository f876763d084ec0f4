package main

import (
	"encoding/json"

	"github.com/nihei9/ruletext/codec"
	"github.com/spf13/cobra"
)

var decodeFlags *codecFlags

func init() {
	cmd := &cobra.Command{
		Use:     "decode",
		Short:   "Decode a field into JSON",
		Example: `  ruletext decode --codec output-structure --rule-type Rules_Transfer -s field.txt`,
		Args:    cobra.NoArgs,
		RunE:    runDecode,
	}
	decodeFlags = addCodecFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	k, opts, err := decodeFlags.parse()
	if err != nil {
		return err
	}
	text, err := decodeFlags.readSource()
	if err != nil {
		return err
	}
	v, err := codec.Decode(k, text, opts)
	if err != nil {
		return decodeFlags.nameRecord(err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return decodeFlags.writeOutput(append(b, '\n'))
}
