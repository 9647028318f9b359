package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# sentence list: TSV file, http(s) URL or - for stdin
sentences: "sentences.tsv"
# directory the audio file names are resolved against
audio_dir: "audio"
# repeating (pause after each clip) or shadowing (no pause)
mode: "repeating"
# settings and practice history database (default: user data dir)
# store: "~/.local/share/shadowdrill/shadowdrill.db"
# playback volume (0.0 to 1.0)
volume: 1.0
# output sample rate: 44100 or 48000
sample_rate: 44100
# mouse support
mouse: false
# log at debug level
debug: false

# decoded clip cache
cache:
  # dir: "~/.cache/shadowdrill/clips"
  memory_mb: 64
  # 0 disables the disk cache
  disk_mb: 512
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the shadowdrill config file",
	Long:    paragraph(fmt.Sprintf("\n%s the shadowdrill config file. EDITOR determines which editor is used. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("shadowdrill config\nshadowdrill config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("shadowdrill", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

// ensureConfigFile writes the default config if none exists yet.
func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
	}
	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	_, err := os.Stat(configFile)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
		return fmt.Errorf("unable create directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}
