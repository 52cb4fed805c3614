package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long:  "Prints the merged configuration (defaults, config.yaml, INSIGHT_* environment) with the API key redacted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		printable := *cfg
		if printable.Anthropic.Key != "" {
			printable.Anthropic.Key = "<redacted>"
		}

		out, err := yaml.Marshal(printable)
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
