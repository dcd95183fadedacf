package config

import (
	"fmt"
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server  Server  `yaml:"server"`
	Auth    Auth    `yaml:"auth"`
	Blob    Blob    `yaml:"blob"`
	Scraper Scraper `yaml:"scraper"`
}

type Server struct {
	Listen         string `yaml:"listen"`
	StorageBackend string `yaml:"storageBackend"` // postgres, sqlite
	PostgresDsn    string `yaml:"postgresDsn"`
	SqlitePath     string `yaml:"sqlitePath"`
	RedisAddr      string `yaml:"redisAddr"`
	RedisPassword  string `yaml:"redisPassword"`
	RedisDB        int    `yaml:"redisDB"`
	MemcachedAddr  string `yaml:"memcachedAddr"`
	EnableTrace    bool   `yaml:"enableTrace"`
	TraceEndpoint  string `yaml:"traceEndpoint"`
}

type Auth struct {
	JwtSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
}

type Blob struct {
	Backend       string `yaml:"backend"` // gcs, local
	Bucket        string `yaml:"bucket"`
	PublicBaseURL string `yaml:"publicBaseURL"`
	LocalDir      string `yaml:"localDir"`
}

type Scraper struct {
	Mode            string `yaml:"mode"` // local, remote
	Endpoint        string `yaml:"endpoint"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds"`
	CacheTTLMinutes int    `yaml:"cacheTTLMinutes"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.Server.StorageBackend == "" {
		config.Server.StorageBackend = "postgres"
	}
	if config.Scraper.Mode == "" {
		config.Scraper.Mode = "local"
	}
	if config.Scraper.TimeoutSeconds == 0 {
		config.Scraper.TimeoutSeconds = 5
	}
	if config.Scraper.CacheTTLMinutes == 0 {
		config.Scraper.CacheTTLMinutes = 10
	}
	if config.Blob.Backend == "" {
		config.Blob.Backend = "local"
	}
	if config.Blob.LocalDir == "" {
		config.Blob.LocalDir = "./blobs"
	}
	if config.Auth.JwtSecret == "" {
		return Config{}, fmt.Errorf("auth.jwtSecret is required")
	}

	return config, nil
}
