package ui

// Config contains TUI-specific configuration.
type Config struct {
	HomeDir string `env:"HOME"`

	// Sentence source: a file path, "-" or a URL. Only local files are watched.
	Source   string
	AudioDir string

	EnableMouse bool

	// Frames per second of the progress animation.
	FPS int `env:"SHADOWDRILL_FPS" envDefault:"30"`

	// Reload the sentence file when it changes on disk.
	Watch bool `env:"SHADOWDRILL_WATCH" envDefault:"true"`
}
