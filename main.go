// Package main provides the entry point for the shadowdrill CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/shadowdrill/ui"
)

const appName = "shadowdrill"

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	cfg        appConfig

	rootCmd = &cobra.Command{
		Use:   "shadowdrill [SENTENCES]",
		Short: "Drill spoken sentences in the terminal",
		Long: paragraph(
			fmt.Sprintf("\nPlay sentence recordings one after another and %s or %s along with them.",
				keyword("repeat"), keyword("shadow")),
		),
		Example: paragraph("shadowdrill sentences.tsv\nshadowdrill --mode shadowing --audio-dir ./audio"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOptions(cmd, args)
		},
		RunE: execute,
	}
)

// validateOptions resolves the configuration for commands that need it.
func validateOptions(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "config", "man", "completion":
		return nil
	}
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %s: %w", configFile, err)
		}
	}
	if !cmd.HasParent() && len(args) == 1 {
		viper.Set("sentences", args[0])
	}

	c, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = c
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("configuration", "sentences", cfg.Sentences, "audio_dir", cfg.AudioDir, "store", cfg.Store, "mode", cfg.Mode)
	return nil
}

// outputWidth is the terminal width for plain output, capped for readability.
func outputWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 120
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return min(w, 120)
}

func execute(*cobra.Command, []string) error {
	if cfg.Sentences == "-" {
		return errors.New("the player cannot read sentences from stdin; pass a file or URL")
	}
	return runTUI()
}

func runTUI() error {
	// Read environment to get debugging stuff
	ucfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	ucfg.Source = cfg.Sentences
	ucfg.AudioDir = cfg.AudioDir
	ucfg.EnableMouse = cfg.Mouse

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn("closing session", "error", err)
		}
	}()

	p := ui.NewProgram(ucfg, ui.Session{Controller: s.ctrl, Settings: s.store})
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	pf.StringP("sentences", "f", "", "sentence list: TSV file, URL or - for stdin")
	pf.StringP("audio-dir", "a", "", "directory holding the audio clips")
	pf.String("store", "", "settings and history database")
	pf.Bool("debug", false, "log at debug level")

	f := rootCmd.Flags()
	f.StringP("mode", "m", "", "playback mode: repeating or shadowing")
	f.Float64("volume", 0, "playback volume (0.0 to 1.0)")
	f.Int("sample-rate", 0, "output sample rate (44100 or 48000)")
	f.Bool("mouse", false, "enable mouse support")
	_ = f.MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("sentences", pf.Lookup("sentences"))
	_ = viper.BindPFlag("audio_dir", pf.Lookup("audio-dir"))
	_ = viper.BindPFlag("store", pf.Lookup("store"))
	_ = viper.BindPFlag("debug", pf.Lookup("debug"))
	_ = viper.BindPFlag("mode", f.Lookup("mode"))
	_ = viper.BindPFlag("volume", f.Lookup("volume"))
	_ = viper.BindPFlag("sample_rate", f.Lookup("sample-rate"))
	_ = viper.BindPFlag("mouse", f.Lookup("mouse"))

	setConfigDefaults(viper.GetViper())

	rootCmd.AddCommand(configCmd, manCmd, sectionsCmd, bookmarksCmd, findCmd, historyCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, appName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, appName)}, dirs...)
	}

	if c := os.Getenv("SHADOWDRILL_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName(appName)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(appName)
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], appName+".yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
