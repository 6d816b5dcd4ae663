package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageS3       = "s3"
)

type (
	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		Currency     string
		Location     *time.Location
		RollbarToken string
		Storage      StorageConfig
		Server       ServerConfig
	}

	StorageConfig struct {
		Backend       string
		DataDir       string
		KeyPrefix     string
		PostgresURL   string
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		S3Bucket      string
		S3Region      string
		AWSProfile    string
	}

	ServerConfig struct {
		Host string
		Addr string
	}
)

// NewConfig reads the configuration from defaults, the optional `config/.env.<env>` file and
// environment variables prefixed with the current ENV (eg. DEV_DATADIR).
func NewConfig() (*Config, error) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", false)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Tuition")
	conf.SetDefault("build", "dev")
	conf.SetDefault("currency", "₹")
	conf.SetDefault("timezone", "Local")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("storage.backend", StorageFile)
	conf.SetDefault("storage.dataDir", ".")
	conf.SetDefault("storage.keyPrefix", "tuition:")
	conf.SetDefault("storage.postgresURL", "")
	conf.SetDefault("storage.redisAddr", "localhost:6379")
	conf.SetDefault("storage.redisPassword", "")
	conf.SetDefault("storage.redisDB", 0)
	conf.SetDefault("storage.s3Bucket", "")
	conf.SetDefault("storage.s3Region", "")
	conf.SetDefault("storage.awsProfile", "")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.addr", "127.0.0.1:8080")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
		conf.SetDefault("debug", true)
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	loc := time.Local
	if tz := conf.GetString("timezone"); tz != "" && tz != "Local" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return nil, errors.Wrapf(err, "loading timezone %q", tz)
		}
	}

	cfg := &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		Currency:     conf.GetString("currency"),
		Location:     loc,
		RollbarToken: conf.GetString("rollbarToken"),
		Storage: StorageConfig{
			Backend:       strings.ToLower(conf.GetString("storage.backend")),
			DataDir:       conf.GetString("storage.dataDir"),
			KeyPrefix:     conf.GetString("storage.keyPrefix"),
			PostgresURL:   conf.GetString("storage.postgresURL"),
			RedisAddr:     conf.GetString("storage.redisAddr"),
			RedisPassword: conf.GetString("storage.redisPassword"),
			RedisDB:       conf.GetInt("storage.redisDB"),
			S3Bucket:      conf.GetString("storage.s3Bucket"),
			S3Region:      conf.GetString("storage.s3Region"),
			AWSProfile:    conf.GetString("storage.awsProfile"),
		},
		Server: ServerConfig{
			Host: conf.GetString("server.host"),
			Addr: conf.GetString("server.addr"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageFile:
	case StoragePostgres:
		if c.Storage.PostgresURL == "" {
			return errors.New("storage.postgresURL is required for the postgres backend")
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redisAddr is required for the redis backend")
		}
	case StorageS3:
		if c.Storage.S3Bucket == "" {
			return errors.New("storage.s3Bucket is required for the s3 backend")
		}
	default:
		return errors.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
