package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "tailorcv",
	Short: "Tailor your resume to a job offer with a local or hosted LLM",
	Long: `tailorcv prepares a reusable candidate profile from an existing resume
and generates job-specific PDF resumes from it.

Typical flow:
  tailorcv prepare resume.pdf
  tailorcv generate --offer-file offer.txt`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tailorcv version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tailorcv version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")

	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
