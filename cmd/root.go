package cmd

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/antazoey/evm-trace/pkg/ethereum"
)

var (
	log        = logrus.New()
	configFile string
	rpcURL     string
)

// Config is the top-level CLI configuration.
type Config struct {
	// LoggingLevel is a logrus level name.
	LoggingLevel string `yaml:"logging" default:"info"`
	// Ethereum configures the execution node to fetch traces from.
	Ethereum ethereum.Config `yaml:"ethereum"`
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "evm-trace",
	Short: "Decodes Ethereum transaction traces into call trees.",
	Long:  `Fetches parity-style transaction traces from an execution node and reconstructs call trees and gas reports from them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc-url", "", "execution node RPC endpoint (overrides config)")
}

func loadConfig(file string) (*Config, error) {
	explicit := file != ""
	if file == "" {
		file = "config.yaml"
	}

	config := &Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(file)
	if err != nil {
		// A missing default config file is fine, flags cover the rest.
		if !explicit && os.IsNotExist(err) {
			return applyFlags(config)
		}

		return nil, err
	}

	type plain Config

	if err := yaml.Unmarshal(yamlFile, (*plain)(config)); err != nil {
		return nil, err
	}

	return applyFlags(config)
}

func applyFlags(config *Config) (*Config, error) {
	if rpcURL != "" {
		config.Ethereum.Endpoint = rpcURL
	}

	if err := config.Ethereum.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// newNode loads the configuration, sets up logging, and connects to the
// configured execution node.
func newNode() (*ethereum.Node, error) {
	config, err := loadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logrus.ParseLevel(config.LoggingLevel)
	if err != nil {
		log.WithError(err).Warn("Invalid logging level, using info")

		level = logrus.InfoLevel
	}

	log.SetLevel(level)

	node, err := ethereum.NewNode(log, &config.Ethereum)
	if err != nil {
		return nil, fmt.Errorf("failed to create node: %w", err)
	}

	return node, nil
}
