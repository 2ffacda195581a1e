package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the ind CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ind version %s\n", version)
		fmt.Println("Technical indicators for OHLCV price series")
		fmt.Println("https://github.com/rustyeddy/ind")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
