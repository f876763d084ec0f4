package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ruletext",
	Short: "Decode and encode the structure fields of exported rule tables",
	Long: `ruletext reads and writes the text mini-languages stored in the fields of exported rule tables:
- input structures, output structures, and spellout tables.
- It round-trips records to check that re-encoding them reproduces the text exactly.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
