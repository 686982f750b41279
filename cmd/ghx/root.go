package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ghx-dev/ghx/github"
	"github.com/ghx-dev/ghx/internal/config"
	"github.com/ghx-dev/ghx/internal/log"
	"github.com/ghx-dev/ghx/prompt"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ghx [flags] <github_url>",
	Short: "Extract a file or directory of a GitHub repository",
	Long: `ghx downloads the tarball of a GitHub branch and extracts only the
file or directory the URL points at.

  ghx https://github.com/richardanaya/js-wasm/tree/master/examples/snake
  ghx https://github.com/owner/repo/blob/main/src/main.rs

Entries that would be written outside of the destination, and all
symbolic and hard links, are never extracted. When a file already
exists you are asked whether to override it: y/n answer for this
file, Y/N for every remaining file.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile); err != nil {
			return err
		}
		log.Init(&log.Config{
			Level:    log.LevelFor(config.Verbose(), config.Debug()),
			NoCaller: !config.Debug(),
		})
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		r := &runner{
			out:      cmd.OutOrStdout(),
			logger:   log.SugaredLogger(),
			prompter: prompt.NewTerminal(),
			fetcher:  newFetcher(),
		}
		return r.run(cmd.Context(), args[0])
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolP(config.KeyVerbose, "v", false, "More verbose.")
	flags.BoolP(config.KeyDebug, "d", false, "Debug verbosity. Load the cached archive if it exists, otherwise download it and keep it in the cache file.")
	flags.BoolP(config.KeyYes, "y", false, "Answer yes to all overriding questions.")
	flags.BoolP(config.KeyNo, "n", false, "Answer no to all overriding questions.")
	flags.BoolP(config.KeyTar, "t", false, "Repack the matching entries into a new archive instead of extracting them.")
	flags.StringP(config.KeyPath, "p", "", "Destination directory (or archive file with --tar).")
	flags.String(config.KeyTarFormat, config.DefaultTarFormat, "Compression of the archive written with --tar: tar, gz, zst, xz, bz2, lz4, sz, lz or br.")
	flags.String(config.KeyCacheFile, config.DefaultCacheFile, "Archive cache used in debug mode.")
	flags.String(config.KeyToken, "", "GitHub token for private repositories.")
	flags.Int(config.KeyRetries, config.DefaultRetries, "Retries for failed downloads.")
	flags.StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/ghx/config.yaml).")

	_ = viper.BindPFlags(flags)
}

func newFetcher() *github.Fetcher {
	opts := []github.Option{
		github.WithToken(config.Token()),
		github.WithRetries(config.Retries()),
		github.WithLogger(log.SugaredLogger()),
	}
	if config.Debug() {
		opts = append(opts, github.WithCacheFile(config.CacheFile()))
	}
	return github.NewFetcher(opts...)
}
