package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"station-api/internal/utils"

	"github.com/joho/godotenv"
	"github.com/kerimovok/go-pkg-utils/config"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/attachments.yaml"

// ServerConfig holds HTTP settings
type ServerConfig struct {
	BasePath  string `yaml:"base_path"`
	BodyLimit string `yaml:"body_limit"`
}

// ValidationRule matches attachments by mimetype, extension or filename glob
type ValidationRule struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
	Patterns   []string `yaml:"patterns"`
	MimeTypes  []string `yaml:"mime_types"`
	MaxSize    string   `yaml:"max_size"`
	Allow      bool     `yaml:"allow"`
}

// AttachmentValidationConfig holds attachment validation settings
type AttachmentValidationConfig struct {
	DefaultMaxSize string           `yaml:"default_max_size"`
	DefaultAction  string           `yaml:"default_action"`
	Rules          []ValidationRule `yaml:"rules"`
}

// ResourceConfig holds the attachment defaults of one collection
type ResourceConfig struct {
	Name             string `yaml:"name"`
	DefaultFilename  string `yaml:"default_filename"`
	DefaultMimetype  string `yaml:"default_mimetype"`
	FallbackMimetype string `yaml:"fallback_mimetype"`
}

// AttachmentsConfig holds the complete attachment configuration
type AttachmentsConfig struct {
	Validation AttachmentValidationConfig `yaml:"validation"`
	Resources  map[string]ResourceConfig  `yaml:"resources"`
}

// MainConfig holds the root configuration
type MainConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Attachments AttachmentsConfig `yaml:"attachments"`
}

var (
	Config = Default()
)

// Default returns the configuration used when the YAML file leaves a
// setting out.
func Default() MainConfig {
	return MainConfig{
		Server: ServerConfig{
			BodyLimit: "16MB",
		},
		Attachments: AttachmentsConfig{
			Validation: AttachmentValidationConfig{
				DefaultMaxSize: "10MB",
				DefaultAction:  "allow",
			},
			Resources: map[string]ResourceConfig{
				"announcements": {
					Name:             "Announcement",
					DefaultFilename:  "attachment",
					DefaultMimetype:  "application/octet-stream",
					FallbackMimetype: "image/jpeg",
				},
				"blotters": {
					Name:             "Blotter",
					DefaultFilename:  "attachment",
					DefaultMimetype:  "application/octet-stream",
					FallbackMimetype: "application/octet-stream",
				},
				"clearances": {
					Name:             "Clearance",
					DefaultFilename:  "proof_{timestamp}.jpg",
					DefaultMimetype:  "application/octet-stream",
					FallbackMimetype: "application/octet-stream",
				},
				"officers": {
					Name:             "Officer",
					DefaultFilename:  "profile_picture",
					DefaultMimetype:  "image/jpeg",
					FallbackMimetype: "image/jpeg",
				},
			},
		},
	}
}

// LoadConfig loads the configuration from CONFIG_PATH, or
// config/attachments.yaml when unset
func LoadConfig() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if config.GetEnv("GO_ENV") != "production" {
			log.Println("Warning: Failed to load .env file")
		}
	}

	path := config.GetEnv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return err
	}

	// Store config globally
	Config = cfg

	log.Printf("Attachment configuration loaded successfully from %s", path)
	return nil
}

// Parse decodes YAML on top of Default, so a partial file keeps the
// defaults of every resource it does not mention.
func Parse(data []byte) (MainConfig, error) {
	var parsed MainConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return MainConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	if parsed.Server.BasePath != "" {
		cfg.Server.BasePath = parsed.Server.BasePath
	}
	if parsed.Server.BodyLimit != "" {
		cfg.Server.BodyLimit = parsed.Server.BodyLimit
	}
	if parsed.Attachments.Validation.DefaultMaxSize != "" {
		cfg.Attachments.Validation.DefaultMaxSize = parsed.Attachments.Validation.DefaultMaxSize
	}
	if parsed.Attachments.Validation.DefaultAction != "" {
		cfg.Attachments.Validation.DefaultAction = parsed.Attachments.Validation.DefaultAction
	}
	cfg.Attachments.Validation.Rules = parsed.Attachments.Validation.Rules

	for key, res := range parsed.Attachments.Resources {
		merged := cfg.Attachments.Resources[key]
		if res.Name != "" {
			merged.Name = res.Name
		}
		if res.DefaultFilename != "" {
			merged.DefaultFilename = res.DefaultFilename
		}
		if res.DefaultMimetype != "" {
			merged.DefaultMimetype = res.DefaultMimetype
		}
		if res.FallbackMimetype != "" {
			merged.FallbackMimetype = res.FallbackMimetype
		}
		cfg.Attachments.Resources[key] = merged
	}

	if _, err := utils.ParseSizeString(cfg.Server.BodyLimit); err != nil {
		return MainConfig{}, fmt.Errorf("invalid server.body_limit: %w", err)
	}
	if _, err := utils.ParseSizeString(cfg.Attachments.Validation.DefaultMaxSize); err != nil {
		return MainConfig{}, fmt.Errorf("invalid attachments.validation.default_max_size: %w", err)
	}

	return cfg, nil
}

// GetConfig returns the current configuration
func GetConfig() MainConfig {
	return Config
}

// BodyLimitBytes returns the request body limit in bytes
func (c ServerConfig) BodyLimitBytes() int {
	size, err := utils.ParseSizeString(c.BodyLimit)
	if err != nil {
		return 16 * 1024 * 1024
	}
	return int(size)
}

// GetDefaultMaxFileSize returns the size limit applied when no rule sets one
func (c AttachmentValidationConfig) GetDefaultMaxFileSize() int64 {
	size, err := utils.ParseSizeString(c.DefaultMaxSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// IsDefaultActionBlock reports whether attachments matching no rule are rejected
func (c AttachmentValidationConfig) IsDefaultActionBlock() bool {
	return strings.EqualFold(c.DefaultAction, "block")
}
