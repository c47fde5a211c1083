package config

import (
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

type Config struct {
	NodeURL           string // node base url, or "auto" to browse mDNS
	ListenAddr        string
	ClockInterval     time.Duration
	DiscoveryInterval time.Duration // 0 scans on demand only
	RequestTimeout    time.Duration
	NATSURL           string // empty disables the bus mirror
	DevBucket         string
	OutcomeSubject    string
	DatabaseDSN       string // empty disables the snapshot store
	LogLevel          string
	MDNSService       string
	MDNSTimeout       time.Duration
}

// MustLoad loads the required settings for the system to operate
func MustLoad() Config {
	return Config{
		NodeURL:           getenv("NODE_URL", "http://localhost"),
		ListenAddr:        getenv("LISTEN_ADDR", ":9090"),
		ClockInterval:     seconds("CLOCK_INTERVAL_SEC", 60),
		DiscoveryInterval: seconds("DISCOVERY_INTERVAL_SEC", 0),
		RequestTimeout:    seconds("REQUEST_TIMEOUT_SEC", 10),
		NATSURL:           getenv("NATS_URL", ""),
		DevBucket:         getenv("DEV_BUCKET", "ethoscopes"),
		OutcomeSubject:    getenv("OUTCOME_SUBJECT", "ethoscopes.outcomes"),
		DatabaseDSN:       getenv("DATABASE_DSN", ""),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		MDNSService:       getenv("MDNS_SERVICE", "_ethoscope-node._tcp"),
		MDNSTimeout:       seconds("MDNS_TIMEOUT_SEC", 5),
	}
}

// BindFlags registers command-line overrides for cfg on fs.
func (cfg *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfg.NodeURL, "node", cfg.NodeURL, `node base URL, or "auto" to locate it over mDNS`)
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address")
	fs.DurationVar(&cfg.ClockInterval, "clock-interval", cfg.ClockInterval, "node time refresh interval")
	fs.DurationVar(&cfg.DiscoveryInterval, "discovery-interval", cfg.DiscoveryInterval, "periodic device scan interval (0 disables)")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout towards the node")
	fs.StringVar(&cfg.NATSURL, "nats", cfg.NATSURL, "NATS URL for the device mirror (empty disables)")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "Postgres DSN for stored records (empty disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
}

// getenv fetches the env variables for the application to run
func getenv(k, d string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return d
}

func seconds(k string, d int) time.Duration {
	n, err := strconv.Atoi(getenv(k, strconv.Itoa(d)))
	if err != nil || n < 0 {
		n = d
	}
	return time.Duration(n) * time.Second
}
