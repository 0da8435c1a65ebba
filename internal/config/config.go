package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port    string `mapstructure:"port"`
		Env     string `mapstructure:"env"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
	Page struct {
		// Revalidate is the age after which a generated page is served stale
		// and regenerated in the background.
		Revalidate time.Duration `mapstructure:"revalidate"`
		// Fallback is "true", "blocking" or "false".
		Fallback string        `mapstructure:"fallback"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"page"`
	Query struct {
		StaleTime time.Duration `mapstructure:"stale_time"`
		// GCTime drops query entries unread for this long.
		GCTime     time.Duration `mapstructure:"gc_time"`
		MaxEntries int           `mapstructure:"max_entries"`
	} `mapstructure:"query"`
	Prerender struct {
		Concurrency int `mapstructure:"concurrency"`
	} `mapstructure:"prerender"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("kafka.group_id", "page-revalidator-group")
	v.SetDefault("auth.token_lifespan", time.Hour)
	v.SetDefault("page.revalidate", time.Second)
	v.SetDefault("page.fallback", "true")
	v.SetDefault("page.cache_ttl", 24*time.Hour)
	v.SetDefault("query.stale_time", time.Second)
	v.SetDefault("query.gc_time", 5*time.Minute)
	v.SetDefault("query.max_entries", 10000)
	v.SetDefault("prerender.concurrency", 4)
}

// LoadConfig reads .env, then config.yaml from the given paths (default
// "."), then environment variables, later sources winning.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	setDefaults(v)

	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.base_url", "APP_BASE_URL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("jaeger.otlp_endpoint", "JAEGER_OTLP_ENDPOINT")

	v.BindEnv("page.revalidate", "PAGE_REVALIDATE")
	v.BindEnv("page.fallback", "PAGE_FALLBACK")
	v.BindEnv("page.cache_ttl", "PAGE_CACHE_TTL")
	v.BindEnv("query.stale_time", "QUERY_STALE_TIME")
	v.BindEnv("query.gc_time", "QUERY_GC_TIME")
	v.BindEnv("query.max_entries", "QUERY_MAX_ENTRIES")
	v.BindEnv("prerender.concurrency", "PRERENDER_CONCURRENCY")

	err = v.Unmarshal(&cfg)
	if err != nil {
		return
	}

	// A comma separated KAFKA_BROKERS arrives as a single element.
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}
	return
}
