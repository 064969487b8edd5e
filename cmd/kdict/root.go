package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FAU-CDI/kdict"
	"github.com/FAU-CDI/kdict/internal/dictionary"
	"github.com/FAU-CDI/kdict/internal/stats"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	legalFlag bool

	st = stats.NewStats(os.Stderr)

	profiler interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:   "kdict",
	Short: "kdict - a dictionary of K-Pop artists",
	Long: `kdict reads a spreadsheet of K-Pop artists with their company and debut year.

Artists can be searched by (part of) their name, and are described as RDF
triples using the Dublin Core creator and date properties.

The spreadsheet is read from a remote url or a local csv file, see --source.`,
	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if legalFlag {
			fmt.Print(kdict.LegalText())
			os.Exit(0)
		}

		if dir := viper.GetString(keyDebugProfile); dir != "" {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook)
			st.Log("writing cpu profile", "dir", dir)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// configuration keys
const (
	keySource       = "source"
	keyAddr         = "addr"
	keyCache        = "cache"
	keyWatch        = "watch"
	keyCacheTTL     = "cache-ttl"
	keyRate         = "rate"
	keyBurst        = "burst"
	keyFormat       = "format"
	keyDebugProfile = "debug-profile"
	keyDebugListen  = "debug-listen"
	keyOpen         = "open"
)

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.kdict/config.yaml)")
	flags.BoolVar(&legalFlag, "legal", false, "display legal notices and exit")
	flags.String(keySource, "", "url, csv file or directory containing a single csv file to read artists from (default: the public spreadsheet)")
	flags.String(keyCache, "", "store the triple index in the given directory as opposed to memory")
	flags.Duration(keyCacheTTL, dictionary.DefaultCacheTTL, "time to cache serialized artists for, negative to disable")
	flags.String(keyDebugProfile, "", "write a cpu profile to the given directory")

	for _, key := range []string{keySource, keyCache, keyCacheTTL, keyDebugProfile} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".kdict"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match KDICT_*
	viper.SetEnvPrefix("KDICT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		st.LogDebug("using config file", "file", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		st.LogWarn("unable to read config file", "file", cfgFile, "err", err)
	}
}

// location returns the configured source location
func location() (string, error) {
	return kdict.FindSource(viper.GetString(keySource))
}

// options returns the options for new dictionaries
func options() dictionary.Options {
	return dictionary.Options{
		Dir:      viper.GetString(keyCache),
		CacheTTL: viper.GetDuration(keyCacheTTL),
		Stats:    st,
	}
}

// load loads a single dictionary for the configured source
func load(ctx context.Context) (*dictionary.Dictionary, error) {
	loc, err := location()
	if err != nil {
		return nil, fmt.Errorf("failed to find source: %w", err)
	}
	return dictionary.Load(ctx, loc, nil, options())
}
