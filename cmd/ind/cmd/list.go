package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rustyeddy/ind/indicators"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the indicator catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDEFAULT\tMIN ROWS\tSESSIONAL\tDESCRIPTION")
		for _, d := range indicators.All() {
			sessional := ""
			if d.Sessional {
				sessional = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				d.Name(), d.Default, d.MinRows(nil), sessional, d.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
