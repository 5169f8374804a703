package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/tariff"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPPort       = "8080"
	defaultPresenceTTL    = 5 * time.Minute
	defaultOSRMTimeout    = 3 * time.Second
	defaultDispatchGroup  = "dispatch"
	defaultRequestedTopic = "orders.requested"
	defaultChangedTopic   = "orders.changed"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	Rates    tariff.Rates
	DepotLat float64
	DepotLng float64

	OSRMURL      string
	OSRMTimeout  time.Duration
	SecondsPerKm float64

	JWTSecret string

	KafkaBrokers             []string
	KafkaConsumerGroup       string
	KafkaOrderRequestedTopic string
	KafkaOrderChangedTopic   string

	CourierPresenceTTL time.Duration
}

// DSN is the Postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaEnabled reports whether brokers are configured.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// LoadConfig reads the environment, with .env applied first when present.
// Values already set in the environment win over .env.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	p := envParser{}
	cfg := Config{
		HTTPPort:   p.str("HTTP_PORT", defaultHTTPPort),
		DBHost:     p.str("DB_HOST", "localhost"),
		DBPort:     p.str("DB_PORT", "5432"),
		DBUser:     p.str("DB_USER", ""),
		DBPassword: p.str("DB_PASSWORD", ""),
		DBName:     p.str("DB_NAME", ""),
		DBSslMode:  p.str("DB_SSLMODE", "disable"),

		Rates: tariff.Rates{
			BaseFee:          p.int64("TARIFF_BASE_FEE", tariff.DefaultBaseFee),
			PerKmRate:        p.int64("TARIFF_PER_KM_RATE", tariff.DefaultPerKmRate),
			MinimumLegFee:    p.int64("TARIFF_MINIMUM_LEG_FEE", tariff.DefaultMinimumLegFee),
			ExpressSurcharge: p.int64("TARIFF_EXPRESS_SURCHARGE", tariff.DefaultExpressSurcharge),
			SameDaySurcharge: p.int64("TARIFF_SAME_DAY_SURCHARGE", tariff.DefaultSameDaySurcharge),
		},
		DepotLat: p.float("DEPOT_LAT", 0),
		DepotLng: p.float("DEPOT_LNG", 0),

		OSRMURL:      p.str("OSRM_URL", ""),
		OSRMTimeout:  p.duration("OSRM_TIMEOUT", defaultOSRMTimeout),
		SecondsPerKm: p.float("FALLBACK_SECONDS_PER_KM", 0),

		JWTSecret: p.str("JWT_SECRET", ""),

		KafkaBrokers:             p.list("KAFKA_BROKERS"),
		KafkaConsumerGroup:       p.str("KAFKA_CONSUMER_GROUP", defaultDispatchGroup),
		KafkaOrderRequestedTopic: p.str("KAFKA_ORDER_REQUESTED_TOPIC", defaultRequestedTopic),
		KafkaOrderChangedTopic:   p.str("KAFKA_ORDER_CHANGED_TOPIC", defaultChangedTopic),

		CourierPresenceTTL: p.duration("COURIER_PRESENCE_TTL", defaultPresenceTTL),
	}

	if cfg.JWTSecret == "" {
		p.errs = append(p.errs, errors.New("JWT_SECRET is required"))
	}
	if cfg.DBName == "" {
		p.errs = append(p.errs, errors.New("DB_NAME is required"))
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envParser collects every malformed variable instead of stopping at the first.
type envParser struct {
	errs []error
}

func (p *envParser) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *envParser) int64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *envParser) float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (p *envParser) list(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
