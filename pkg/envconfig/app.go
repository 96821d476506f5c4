package envconfig

import (
	"os"
	"strconv"
	"time"

	"github.com/Sima922/clouds-pos/pkg/money"
)

// LoadDisplayConfig loads the currency presentation rules from environment
// variables. The result is passed explicitly to formatting code; nothing
// reads these settings from ambient state later.
func LoadDisplayConfig() money.DisplayConfig {
	config := money.DefaultDisplayConfig()

	if symbol := GetEnv("CURRENCY_SYMBOL", ""); symbol != "" {
		config.Symbol = symbol
	}

	if placesStr := GetEnv("CURRENCY_DECIMAL_PLACES", ""); placesStr != "" {
		if places, err := strconv.Atoi(placesStr); err == nil && places >= 0 {
			config.DecimalPlaces = int32(places)
		}
	}

	// An explicitly empty separator disables grouping
	if sep, ok := os.LookupEnv("CURRENCY_THOUSAND_SEPARATOR"); ok {
		config.ThousandSeparator = sep
	}

	return config
}

// GetCompletionTimeout bounds one order-completion workflow, retries
// included, so contention cannot stall a register indefinitely.
func GetCompletionTimeout() time.Duration {
	if s := GetEnv("ORDER_COMPLETION_TIMEOUT", ""); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			return d
		}
	}
	return 10 * time.Second
}
