package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings.
type Config struct {
	// User configurable settings
	Model             string
	Tone              string
	Length            string
	AdvancedSEO       bool
	TranscriptsDir    string
	GenerationTimeout time.Duration
	Verbose           bool
	Quiet             bool
	GroqAPIKey        string
	MCPLogEnabled     bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
}

//go:embed config.toml
var defaultFS embed.FS

// EnsureDefaultConfig checks if a config file exists in the XDG config
// directory and creates it from the embedded default if it doesn't exist.
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, "config.toml")
	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile("config.toml")
	if err != nil {
		return fmt.Errorf("reading embedded default configuration: %w", err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default configuration: %w", err)
	}

	fmt.Printf("Created default configuration at %s\n", filePath)
	return nil
}

// InitConfig initializes Viper and loads configuration.
func InitConfig() *Config {
	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "docmind")
	dataDir := filepath.Join(xdg.DataHome, "docmind")
	cacheDir := filepath.Join(xdg.CacheHome, "docmind")

	transcriptsDir := filepath.Join(dataDir, "transcripts")

	v := viper.New()

	// Defaults for configurable settings
	v.SetDefault("model", DefaultModel)
	v.SetDefault("tone", string(ToneProfessional))
	v.SetDefault("length", LengthMedium.String())
	v.SetDefault("advanced_seo", false)
	v.SetDefault("transcripts_dir", transcriptsDir)
	v.SetDefault("generation_timeout", 3*time.Minute)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", false)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("DOCMIND")
	v.AutomaticEnv()

	// Special case for the Groq API key - check the direct env var too
	_ = v.BindEnv("groq_api_key", "GROQ_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := &Config{
		Model:             v.GetString("model"),
		Tone:              v.GetString("tone"),
		Length:            v.GetString("length"),
		AdvancedSEO:       v.GetBool("advanced_seo"),
		TranscriptsDir:    v.GetString("transcripts_dir"),
		GenerationTimeout: v.GetDuration("generation_timeout"),
		Verbose:           v.GetBool("verbose"),
		Quiet:             v.GetBool("quiet"),
		GroqAPIKey:        v.GetString("groq_api_key"),
		MCPLogEnabled:     v.GetBool("mcp_log"),

		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}
