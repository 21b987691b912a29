package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend names accepted in the "backend" key.
const (
	BackendFirebase = "firebase"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Config holds all configuration for the test kit.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Backend   string         `mapstructure:"backend"`
	ProjectID string         `mapstructure:"project_id"`
	Emulator  EmulatorConfig `mapstructure:"emulator"`
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	S3        S3Config       `mapstructure:"s3"`
	JWT       JWTConfig      `mapstructure:"jwt"`
	Prefs     PrefsConfig    `mapstructure:"prefs"`
	Log       LogConfig      `mapstructure:"log"`
}

// EmulatorConfig points the auth and document-store clients at local emulators.
type EmulatorConfig struct {
	Host          string `mapstructure:"host"`
	AuthPort      int    `mapstructure:"auth_port"`
	FirestorePort int    `mapstructure:"firestore_port"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig is only read by the mongo backend.
type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig configures the fixture tokens handed out by the API server.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// PrefsConfig selects where UI preferences (the theme mode) are persisted.
type PrefsConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	Prefix  string `mapstructure:"prefix"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// emulator.auth_port -> EMULATOR_AUTH_PORT
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Running on defaults and env vars only is the common case in CI.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendFirebase)
	v.SetDefault("project_id", "demo-fitness-test")

	v.SetDefault("emulator.host", "localhost")
	v.SetDefault("emulator.auth_port", 9099)
	v.SetDefault("emulator.firestore_port", 8080)

	v.SetDefault("server.address", ":8088")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitness_test")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)

	v.SetDefault("jwt.secret", "emulator-only-fixture-secret")
	v.SetDefault("jwt.expiration", "1h")

	v.SetDefault("prefs.backend", "file")
	v.SetDefault("prefs.path", "")
	v.SetDefault("prefs.prefix", "prefs")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}
