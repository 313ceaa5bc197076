package config

import "time"

const defaultPort = 8080

const defaultLogLevel = "info"

var defaultProvider = Provider{
	APIURL:            "https://rest-api.wm.com/",
	Timeout:           10 * time.Second,
	OperationTimeout:  15 * time.Second,
	RequestsPerSecond: 2,
	Burst:             4,
}

var defaultRetry = Retry{
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "wm",
	Pass: "wm",
	Name: "wm_pickup",
}

var defaultKafka = Kafka{
	DelayTopic: "pickup-delays",
}

var defaultSync = Sync{
	Interval:    6 * time.Hour,
	HolidayType: "all",
}

var defaultRateLimit = RateLimit{
	Enabled: true,
	Rate:    5,
	Burst:   10,
	TTL:     10 * time.Minute,
	MaxKeys: 10000,
}

// DefaultPort returns the default HTTP port.
func DefaultPort() int {
	return defaultPort
}

// DefaultProvider returns the default provider API settings.
func DefaultProvider() Provider {
	return defaultProvider
}

// DefaultRetry returns the default gateway retry settings.
func DefaultRetry() Retry {
	return defaultRetry
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultKafka returns the default Kafka settings (no brokers).
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultSync returns the default sync worker settings.
func DefaultSync() Sync {
	return defaultSync
}

// DefaultRateLimit returns the default inbound rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
