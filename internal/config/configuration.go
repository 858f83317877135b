package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigurationPath = "drivebox.yaml"
	DefaultMaxDepth          = 64
)

type Configuration struct {
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Tree     TreeConfig     `yaml:"tree"`
}

type StorageConfig struct {
	Type string   `yaml:"type" validate:"required,oneof=local s3"`
	Path string   `yaml:"path" validate:"required_if=Type local"`
	S3   S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	AccessKeyID   string `yaml:"accessKeyId"`
	SecretKey     string `yaml:"secretKey"`
	KeyPrefix     string `yaml:"keyPrefix"`
	PublicBaseURL string `yaml:"publicBaseUrl" validate:"omitempty,url"`
}

type ServerConfig struct {
	Port          int           `yaml:"port" validate:"gt=0,lte=65535"`
	Concurrency   int           `yaml:"concurrency" validate:"gte=0"`
	RequestConfig RequestConfig `yaml:"request"`
	LogConfig     LogConfig     `yaml:"log"`
	CleanConfig   CleanConfig   `yaml:"clean"`
}

type RequestConfig struct {
	// SizeLimit is in MiB.
	SizeLimit int `yaml:"sizeLimit" validate:"gt=0"`
}

type LogConfig struct {
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error fatal panic DEBUG INFO WARN ERROR FATAL PANIC"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json text"`
	Output  string `yaml:"output" validate:"omitempty,oneof=stdout file"`
	LogPath string `yaml:"logPath" validate:"required_if=Output file"`
}

type CleanConfig struct {
	Schedule  string        `yaml:"schedule"`
	Retention time.Duration `yaml:"retention" validate:"gte=0"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver" validate:"required,oneof=postgres sqlite"`
	SqlitePath string `yaml:"sqlitePath" validate:"required_if=Driver sqlite"`
}

type TreeConfig struct {
	// MaxDepth bounds every ancestor walk.
	MaxDepth int `yaml:"maxDepth" validate:"gt=0"`
}

var validate = validator.New()

func LoadConfiguration(configurationFilePath string) (*Configuration, error) {
	// A missing .env is fine; DB_* may come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(configurationFilePath)
	if err != nil {
		return nil, err
	}
	return ParseConfiguration(data)
}

func ParseConfiguration(data []byte) (*Configuration, error) {
	var config Configuration
	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	ApplyDefaults(&config)
	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func ApplyDefaults(config *Configuration) {
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.RequestConfig.SizeLimit == 0 {
		config.Server.RequestConfig.SizeLimit = 100
	}
	if config.Server.LogConfig.Level == "" {
		config.Server.LogConfig.Level = "info"
	}
	if config.Server.LogConfig.Format == "" {
		config.Server.LogConfig.Format = "text"
	}
	if config.Server.LogConfig.Output == "" {
		config.Server.LogConfig.Output = "stdout"
	}
	if config.Server.CleanConfig.Schedule == "" {
		config.Server.CleanConfig.Schedule = "@daily"
	}
	if config.Server.CleanConfig.Retention == 0 {
		config.Server.CleanConfig.Retention = 30 * 24 * time.Hour
	}
	if config.Database.Driver == "" {
		config.Database.Driver = "postgres"
	}
	if config.Storage.Type == "" {
		config.Storage.Type = "local"
	}
	if config.Tree.MaxDepth == 0 {
		config.Tree.MaxDepth = DefaultMaxDepth
	}
}

func Validate(config *Configuration) error {
	if err := validate.Struct(config); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value())
		}
		return err
	}
	if config.Storage.Type == "s3" && config.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage.s3.bucket is required when storage.type is s3")
	}
	return nil
}
