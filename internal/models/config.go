package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type LocalConfig struct {
	DatasetFile  string        `mapstructure:"dataset_file"`
	SearchDelay  time.Duration `mapstructure:"search_delay"`
	DetailsDelay time.Duration `mapstructure:"details_delay"`
}

type YelpConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"` // zero means no client-side timeout
}

type PostgresConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type EventsConfig struct {
	Destination     string `mapstructure:"destination"` // none, console, file, kafka, postgres
	OutputPath      string `mapstructure:"output_path"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`
	DatabaseURL     string `mapstructure:"database_url"` // defaults to postgres.database_url
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type ExportConfig struct {
	Format       string             `mapstructure:"format"`      // parquet, csv, json
	Destination  string             `mapstructure:"destination"` // local or cloud
	OutputPath   string             `mapstructure:"output_path"`
	OutputFolder string             `mapstructure:"output_folder"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
}

type APIConfig struct {
	Port           string        `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
}

type Config struct {
	Provider        string              `mapstructure:"provider"`
	DefaultLocation string              `mapstructure:"default_location"`
	DefaultLimit    int                 `mapstructure:"default_limit"`
	Local           LocalConfig         `mapstructure:"local"`
	Yelp            YelpConfig          `mapstructure:"yelp"`
	Postgres        PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch   ElasticsearchConfig `mapstructure:"elasticsearch"`
	Events          EventsConfig        `mapstructure:"events"`
	Export          ExportConfig        `mapstructure:"export"`
	API             APIConfig           `mapstructure:"api"`
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderLocal)
	v.SetDefault("default_location", DefaultLocation)
	v.SetDefault("default_limit", DefaultLimit)

	v.SetDefault("local.dataset_file", "")
	v.SetDefault("local.search_delay", 600*time.Millisecond)
	v.SetDefault("local.details_delay", 400*time.Millisecond)

	v.SetDefault("yelp.base_url", "https://api.yelp.com/v3")
	v.SetDefault("yelp.api_key", "")
	v.SetDefault("yelp.timeout", time.Duration(0))

	v.SetDefault("postgres.database_url", "postgres://localhost:5432/foodiq?sslmode=disable")

	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.index", "businesses")
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")

	v.SetDefault("events.destination", "none")
	v.SetDefault("events.output_path", "output")
	v.SetDefault("events.kafka_broker_list", "localhost:9092")
	v.SetDefault("events.database_url", "")

	v.SetDefault("export.format", "parquet")
	v.SetDefault("export.destination", "local")
	v.SetDefault("export.output_path", "output")
	v.SetDefault("export.output_folder", "exports")
	v.SetDefault("export.cloud_storage.provider", "s3")
	v.SetDefault("export.cloud_storage.region", "us-east-1")
	v.SetDefault("export.cloud_storage.bucket_name", "")

	v.SetDefault("api.port", "3003")
	v.SetDefault("api.allowed_origins", []string{"http://localhost:3000", "http://localhost:8081", "http://localhost:19006"})
	v.SetDefault("api.jwt_secret", "")
	v.SetDefault("api.token_ttl", time.Hour)
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// config file is fine: defaults and environment variables cover everything.
func LoadConfig(cfgFile string) (*Config, error) {
	return loadConfig(viper.GetViper(), cfgFile)
}

func loadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("examples")
		v.SetConfigName("foodiq")
		v.SetConfigType("yaml")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("postgres.database_url", "POSTGRES_DATABASE_URL", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if config.Events.DatabaseURL == "" {
		config.Events.DatabaseURL = config.Postgres.DatabaseURL
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the settings that would otherwise fail late.
func (cfg *Config) Validate() error {
	switch cfg.Provider {
	case ProviderLocal, ProviderPostgres, ProviderElasticsearch:
	case ProviderYelp:
		if cfg.Yelp.APIKey == "" {
			return fmt.Errorf("provider %q requires yelp.api_key (or YELP_API_KEY)", cfg.Provider)
		}
	default:
		return fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	if cfg.DefaultLimit < 0 {
		return fmt.Errorf("default_limit must not be negative, got %d", cfg.DefaultLimit)
	}
	return nil
}
