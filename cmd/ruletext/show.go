package main

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/nihei9/ruletext/codec"
	"github.com/nihei9/ruletext/ruletype"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:       "show rule-types|syncats|subtypes|clitic-types|base-forms|codecs",
		Short:     "Print a code table in a readable format",
		Example:   `  ruletext show rule-types`,
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"rule-types", "syncats", "subtypes", "clitic-types", "base-forms", "codecs"},
		RunE:      runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	return writeTable(os.Stdout, args[0])
}

const ruleTypesTemplate = `# Rule Types

{{ range . -}}
{{ printf "%3d" .Code.Int }} {{ .Name }}{{ if .Legacy }} (legacy){{ end }}
{{ end }}`

const syncatsTemplate = `# Syntactic Categories

{{ range . -}}
{{ printf "%3s" .Syncat }} {{ .Name }}
{{ end }}`

const subtypesTemplate = `# Spellout Subtypes

{{ range . -}}
{{ .Int }} {{ . }}
{{ end }}`

const cliticTypesTemplate = `# Clitic Types

{{ range . -}}
{{ printf "%d" . }} {{ . }}
{{ end }}`

const baseFormsTemplate = `# Spellout Base Forms

{{ range . -}}
{{ printf "%d" . }} {{ . }}
{{ end }}`

const codecsTemplate = `# Codecs

{{ range . -}}
{{ . }}
{{ end }}`

func writeTable(w io.Writer, name string) error {
	var src string
	var data interface{}
	switch name {
	case "rule-types":
		src = ruleTypesTemplate
		data = ruletype.All()
	case "syncats":
		src = syncatsTemplate
		data = ruletype.Syncats()
	case "subtypes":
		src = subtypesTemplate
		var subs []ruletype.Subtype
		for sub := ruletype.SubtypeSimple; sub.Valid(); sub++ {
			subs = append(subs, sub)
		}
		data = subs
	case "clitic-types":
		src = cliticTypesTemplate
		data = ruletype.CliticTypes()
	case "base-forms":
		src = baseFormsTemplate
		data = ruletype.BaseForms(ruletype.SubtypePhraseBuilder)
	case "codecs":
		src = codecsTemplate
		data = codec.Kinds()
	default:
		return fmt.Errorf("unknown table: %v", name)
	}

	tmpl, err := template.New("").Parse(src)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}
