package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spigell/portfolio/internal/logger"
	"github.com/spigell/portfolio/internal/render"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	defaultOutput = "index.html"
)

var errExit = errors.New("exit requested")

var overwritePrompt = promptui.Select{
	Label: "Output file exists. Overwrite?",
	Items: []string{PromptYes, PromptNo},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build the portfolio page and write it to a file",
	Run: func(cmd *cobra.Command, _ []string) {
		runRender(cmd)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", defaultOutput, "output html file")
	renderCmd.Flags().BoolP("auto-approve", "y", false, "overwrite the output file without asking")
}

func runRender(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the portfolio render", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	output, _ := cmd.Flags().GetString("output")
	approved, _ := cmd.Flags().GetBool("auto-approve")

	if err := confirmOverwrite(output, approved); err != nil {
		if errors.Is(err, errExit) {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
		logger.Fatal("exiting", zap.Error(err))
	}

	builder, err := newBuilder(cmd, config, logger)
	if err != nil {
		logger.Fatal("preparing the page builder", zap.Error(err))
	}

	page, err := builder.Build(cmd.Context())
	if err != nil {
		logger.Fatal("building the page", zap.Error(err))
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, page, renderOptions(config)); err != nil {
		logger.Fatal("rendering the page", zap.Error(err))
	}

	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		logger.Fatal("writing the page", zap.String("filename", output), zap.Error(err))
	}

	logger.Info("page is written",
		zap.String("filename", output),
		zap.Bool("resume", page.ResumeError == ""),
		zap.Int("projects", len(page.Projects)),
	)
}

// confirmOverwrite asks before replacing an existing file.
func confirmOverwrite(path string, approved bool) error {
	if approved {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	_, answer, err := overwritePrompt.Run()
	if err != nil {
		return err
	}
	if answer != PromptYes {
		return errExit
	}

	return nil
}

func renderOptions(config *Config) render.Options {
	if config.Server == nil {
		return render.Options{}
	}
	return render.Options{Title: config.Server.Title}
}
