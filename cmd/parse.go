package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spigell/portfolio/internal/logger"
	"github.com/spigell/portfolio/internal/resume"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.docx>",
	Short: "Parse a local resume document and print it as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runParse(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().Bool("tables", true, "read skills from tables")
	parseCmd.Flags().Bool("include-table-text", false, "also feed table text to the section parser")
}

func runParse(cmd *cobra.Command, path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading the document", zap.String("filename", path), zap.Error(err))
	}

	opts := resume.DefaultOptions()
	opts.SkillsFromTables, _ = cmd.Flags().GetBool("tables")
	opts.IncludeTableText, _ = cmd.Flags().GetBool("include-table-text")

	record, err := resume.Parse(data, opts)
	if err != nil {
		logger.Fatal("parsing the document", zap.String("filename", path), zap.Error(err))
	}

	if record.IsEmpty() {
		logger.Warn("nothing recognized in the document", zap.String("filename", path))
	}

	pretty, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		logger.Fatal("encoding the record", zap.Error(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}
