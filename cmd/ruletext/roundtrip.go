package main

import (
	"github.com/nihei9/ruletext/codec"
	"github.com/spf13/cobra"
)

var roundTripFlags *codecFlags

func init() {
	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Check that a field re-encodes to the identical text",
		Long: `roundtrip decodes a field, encodes the result, and decodes it again.
It writes the re-encoded text, which is identical to the source, and fails otherwise.`,
		Example: `  cat field.txt | ruletext roundtrip --codec input-structures --rule-type Rules_Movement`,
		Args:    cobra.NoArgs,
		RunE:    runRoundTrip,
	}
	roundTripFlags = addCodecFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runRoundTrip(cmd *cobra.Command, args []string) error {
	k, opts, err := roundTripFlags.parse()
	if err != nil {
		return err
	}
	text, err := roundTripFlags.readSource()
	if err != nil {
		return err
	}
	res, err := codec.RoundTrip(k, text, opts)
	if err != nil {
		return roundTripFlags.nameRecord(err)
	}
	return roundTripFlags.writeOutput([]byte(res.Encoded))
}
