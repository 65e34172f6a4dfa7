package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configFileName = ".portfolio.yaml"

var cfg *viper.Viper

// fileConfig is the on-disk layout of ~/.portfolio.yaml.
type fileConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

func initConfig() error {
	cfg = viper.New()
	cfg.SetConfigName(".portfolio")
	cfg.SetConfigType("yaml")

	home, err := os.UserHomeDir()
	if err == nil {
		cfg.AddConfigPath(home)
	}

	cfg.SetDefault("url", "http://localhost:3000")
	cfg.SetDefault("token", "")

	cfg.SetEnvPrefix("PORTFOLIO")
	cfg.AutomaticEnv()

	// Read config file (ignore if not found)
	cfg.ReadInConfig()

	// CLI flags take highest priority
	if flagURL != "" {
		cfg.Set("url", flagURL)
	}
	if flagToken != "" {
		cfg.Set("token", flagToken)
	}

	return nil
}

func getConfigURL() string {
	return strings.TrimRight(cfg.GetString("url"), "/")
}

func getConfigToken() string {
	return cfg.GetString("token")
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configFileName), nil
}

// readFileConfig loads the config file; a missing file yields defaults.
func readFileConfig(path string) (fileConfig, error) {
	fc := fileConfig{URL: "http://localhost:3000"}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fc, nil
	}
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fc, nil
}

func writeFileConfig(path string, fc fileConfig) error {
	data, err := yaml.Marshal(fc)
	if err != nil {
		return err
	}
	data = append([]byte("# Portfolio CLI configuration\n"), data...)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// saveToken stores token in the config file, keeping the other settings.
func saveToken(token string) (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}
	fc, err := readFileConfig(path)
	if err != nil {
		return "", err
	}
	fc.Token = token
	return path, writeFileConfig(path, fc)
}

func maskToken(token string) string {
	switch {
	case token == "":
		return "(not set)"
	case len(token) > 8:
		return token[:4] + "..." + token[len(token)-4:]
	default:
		return "****"
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a config file template at ~/" + configFileName,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout())

			path, err := configPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil {
				p.Warning("Config file already exists at %s", path)
				return nil
			}

			if err := writeFileConfig(path, fileConfig{URL: getConfigURL()}); err != nil {
				return err
			}

			p.Success("Config file created at %s", path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout())

			p.Info("URL:   %s", getConfigURL())
			p.Info("Token: %s", maskToken(getConfigToken()))

			if cfgFile := cfg.ConfigFileUsed(); cfgFile != "" {
				p.Info("Config file: %s", cfgFile)
			} else {
				p.Info("Config file: (none)")
			}
			return nil
		},
	}
}
