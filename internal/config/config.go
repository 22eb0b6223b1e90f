package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config aggregates all tunables for the auction service. Fields are
// populated from environment variables; every field carries a default so the
// binary runs with no environment at all.
type Config struct {
	// Port is the TCP port the HTTP server binds to.
	Port string `env:"PORT" envDefault:"8080"`

	// LogLevel controls the minimum logrus level (debug, info, warn, error).
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// SweepInterval is how often the expiration sweeper runs. Keep it in
	// seconds so the expired-but-biddable race window stays negligible.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"2s"`

	// AuctionCacheTTL bounds how long a single-auction cache entry may serve
	// reads without revalidation.
	AuctionCacheTTL time.Duration `env:"AUCTION_CACHE_TTL" envDefault:"30m"`

	// ActiveListCacheTTL bounds the active-auction listing cache. Shorter
	// than the single-auction TTL because listings go stale on every open
	// and expiration.
	ActiveListCacheTTL time.Duration `env:"ACTIVE_LIST_CACHE_TTL" envDefault:"15s"`

	// RetryMaxAttempts bounds conditional-write retries under bid contention.
	RetryMaxAttempts int `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`

	// RetryBaseDelay is the base backoff between contention retries.
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY" envDefault:"25ms"`

	// FraudThreshold is the risk score at or above which bids and auction
	// creations are rejected.
	FraudThreshold float64 `env:"FRAUD_THRESHOLD" envDefault:"0.8"`

	// FraudTimeout bounds every fraud-checker call.
	FraudTimeout time.Duration `env:"FRAUD_TIMEOUT" envDefault:"500ms"`

	// FraudFailOpen decides whether operations proceed when the fraud
	// checker is unreachable. This is a deployment choice and must be
	// explicit.
	FraudFailOpen bool `env:"FRAUD_FAIL_OPEN" envDefault:"true"`

	// CollaboratorTimeout bounds pricing and settlement collaborator calls.
	CollaboratorTimeout time.Duration `env:"COLLABORATOR_TIMEOUT" envDefault:"1s"`

	// DefaultBasePrice seeds the starting bid when the seller supplied none
	// and the pricing recommender is unavailable.
	DefaultBasePrice float64 `env:"DEFAULT_BASE_PRICE" envDefault:"50"`

	// RecommenderRatePerSecond configures the built-in static recommender.
	RecommenderRatePerSecond float64 `env:"RECOMMENDER_RATE_PER_SECOND" envDefault:"2.5"`

	// SubscriberBuffer is the per-subscriber event channel capacity. A
	// subscriber that falls this far behind starts missing events.
	SubscriberBuffer int `env:"SUBSCRIBER_BUFFER" envDefault:"32"`
}

// Load reads configuration from environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
