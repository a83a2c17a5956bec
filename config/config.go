package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT"`
		Env  string `yaml:"env" env:"ENV"`
	} `yaml:"server"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME"`
		AutoMigrate  bool   `yaml:"auto_migrate" env:"AUTOMIGRATE"`
		MigrationDir string `yaml:"migration_dir" env:"MIGRATIONDIR"`
	} `yaml:"database"`
	SMTP struct {
		Host     string `yaml:"host" env:"SMTPHOST"`
		Port     int    `yaml:"port" env:"SMTPPORT"`
		Username string `yaml:"username" env:"SMTPUSERNAME"`
		Password string `yaml:"password" env:"SMTPPASSWORD"`
		Sender   string `yaml:"sender" env:"SMTPSENDER"`
	} `yaml:"smtp"`
	Auth struct {
		Secret string `yaml:"secret" env:"JWTSECRET"`
		Issuer string `yaml:"issuer" env:"JWTISSUER"`
	} `yaml:"auth"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS"`
		Burst   int     `yaml:"burst" env:"BURST"`
		Enabled bool    `yaml:"enabled" env:"LENABLED"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS"`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"USERNAME"`
		Password string `yaml:"password" env:"PASSWORD"`
	} `yaml:"basic_auth"`
}

// Load reads a YAML configuration file into a Config. Values read here act
// as defaults; command line flags parsed in main take precedence.
func Load(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err = dec.Decode(&cfg)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}
