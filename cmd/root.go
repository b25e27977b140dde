package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/portfolio/internal/cache"
	"github.com/spigell/portfolio/internal/github"
	"github.com/spigell/portfolio/internal/portfolio"
	"github.com/spigell/portfolio/internal/secrets"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "portfolio"
)

type Config struct {
	portfolio.Config `mapstructure:",squash"`

	GitHub    *GitHubConfig `mapstructure:"github"`
	CacheFile string        `mapstructure:"cache-file"`
	UserAgent string        `mapstructure:"user-agent"`
	Server    *ServerConfig `mapstructure:"server"`
}

type GitHubConfig struct {
	APIURL    string `mapstructure:"api-url" validate:"omitempty,url"`
	TokenFile string `mapstructure:"token-file"`
}

type ServerConfig struct {
	Port  int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Title string `mapstructure:"title"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "portfolio builds a single-page portfolio from a docx resume and GitHub repositories",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("github.token-file", "PORTFOLIO_GITHUB_TOKEN_FILE"); err != nil {
		log.Fatalf("binding PORTFOLIO_GITHUB_TOKEN_FILE environment variable: %v", err)
	}

	viper.SetDefault("cache-file", ".portfolio-cache.json")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("resume.skills-from-tables", true)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is portfolio.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// parse and version work without a config
	if renderCmd.CalledAs() == "" && serveCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

func resolveToken(config *Config) (string, error) {
	tokenFile := ""
	if config.GitHub != nil {
		tokenFile = strings.TrimSpace(config.GitHub.TokenFile)
	}
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("github.token-file"))
	}

	return secrets.LoadOptional(secrets.Source{
		Name: "github token",
		File: tokenFile,
		Env:  []string{"GITHUB_TOKEN"},
	})
}

// newBuilder wires the GitHub client and the cache into a page builder.
func newBuilder(cmd *cobra.Command, config *Config, logger *zap.Logger) (*portfolio.Builder, error) {
	token, err := resolveToken(config)
	if err != nil {
		return nil, err
	}

	if token == "" {
		logger.Warn("github token is not set, using anonymous requests",
			zap.String("hint", "set PORTFOLIO_GITHUB_TOKEN_FILE, GITHUB_TOKEN or the 'github.token-file' key"),
		)
	}

	client := github.New(cmd.Context(), logger, token)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}
	if config.GitHub != nil && config.GitHub.APIURL != "" {
		client.APIURL = strings.TrimRight(config.GitHub.APIURL, "/")
	}

	c, err := cache.Open(config.CacheFile)
	if err != nil {
		logger.Warn("cache is disabled", zap.String("path", config.CacheFile), zap.Error(err))
	}

	return portfolio.New(config.Config, portfolio.Deps{
		Source: client,
		Cache:  c,
		Logger: logger,
	}), nil
}
