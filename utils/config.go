package utils

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config Runtime configuration, loaded from a YAML file with environment
// overrides for the values that differ between deployments.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Storage struct {
		Backend    string `yaml:"backend"`
		UploadsDir string `yaml:"uploads_dir"`
		Minio      struct {
			Endpoint   string `yaml:"endpoint"`
			AccessKey  string `yaml:"access_key"`
			SecretKey  string `yaml:"secret_key"`
			Bucket     string `yaml:"bucket"`
			PublicBase string `yaml:"public_base"`
			UseSSL     bool   `yaml:"use_ssl"`
		} `yaml:"minio"`
	} `yaml:"storage"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
}

// ParseFlags Parse the command line, returning the config path and whether
// debug mode was requested.
func ParseFlags() (string, bool, error) {
	var configPath string
	var debugMode bool

	flag.StringVar(&configPath, "config", "config.yml", "path to the configuration file")
	flag.BoolVar(&debugMode, "debug", false, "enable debug mode")
	flag.Parse()

	if err := validateConfigPath(configPath); err != nil {
		return "", false, err
	}
	return configPath, debugMode, nil
}

func validateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a config file", path)
	}
	return nil
}

// NewConfig Load the YAML config at path. A .env file, when present, and the
// process environment override the secrets so they stay out of the file.
func NewConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	config := &Config{}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(config); err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.Database.DSN = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		config.Storage.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		config.Storage.Minio.SecretKey = v
	}

	if config.Server.Port == "" {
		config.Server.Port = "8000"
	}
	if config.Database.DSN == "" {
		config.Database.DSN = "retinascope.sqlite"
	}
	if config.Storage.UploadsDir == "" {
		config.Storage.UploadsDir = "uploads"
	}
	return config, nil
}
