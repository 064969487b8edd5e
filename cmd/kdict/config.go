package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the effective configuration of kdict.
type Config struct {
	Source       string  `yaml:"source"`
	Addr         string  `yaml:"addr"`
	Cache        string  `yaml:"cache"`
	Watch        bool    `yaml:"watch"`
	CacheTTL     string  `yaml:"cache-ttl"`
	Rate         float64 `yaml:"rate"`
	Burst        int     `yaml:"burst"`
	Format       string  `yaml:"format"`
	DebugProfile string  `yaml:"debug-profile"`
	DebugListen  string  `yaml:"debug-listen"`
	Open         bool    `yaml:"open"`
}

// currentConfig reads the effective configuration from viper.
func currentConfig() Config {
	return Config{
		Source:       viper.GetString(keySource),
		Addr:         viper.GetString(keyAddr),
		Cache:        viper.GetString(keyCache),
		Watch:        viper.GetBool(keyWatch),
		CacheTTL:     viper.GetDuration(keyCacheTTL).String(),
		Rate:         viper.GetFloat64(keyRate),
		Burst:        viper.GetInt(keyBurst),
		Format:       viper.GetString(keyFormat),
		DebugProfile: viper.GetString(keyDebugProfile),
		DebugListen:  viper.GetString(keyDebugListen),
		Open:         viper.GetBool(keyOpen),
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	Long: `Display the current configuration as yaml.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (KDICT_*, with '-' replaced by '_')
3. Config file (~/.kdict/config.yaml)
4. Defaults`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(currentConfig()); err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		return encoder.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
