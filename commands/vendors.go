package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"phonespecs-scraper/scraper/gsmarena"
)

func init() {
	rootCmd.AddCommand(vendorsCmd)
}

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List the vendor rules crawl can use.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Vendor", "Start URL", "Policy", "Output"})

		for _, name := range vendors.Names() {
			rule := vendors[name]
			start, err := gsmarena.StartURL(rule)
			if err != nil {
				start = rule.StartURL
			}

			var policy string
			switch {
			case len(rule.Series) > 0:
				policy = fmt.Sprintf("%d series", len(rule.Series))
			case len(rule.Include) > 0:
				policy = fmt.Sprintf("allow %d, deny %d", len(rule.Include), len(rule.Exclude))
			default:
				policy = fmt.Sprintf("deny %d", len(rule.Exclude))
			}

			t.AppendRow(table.Row{name, start, policy, rule.Output})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
