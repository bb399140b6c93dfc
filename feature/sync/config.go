package sync

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration for the synchronization pipeline.
type Config struct {
	// Enabled controls whether the background scheduler runs.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// BaseURL is the provider API base URL.
	BaseURL string `mapstructure:"base_url" default:"https://leap-api.tickete.co"`
	// APIKey is the provider credential sent as x-api-key.
	APIKey string `mapstructure:"api_key" default:""`
	// ProductIDs is the comma-separated list of product ids to sync.
	ProductIDs string `mapstructure:"product_ids" default:"14,15"`
	// ProductRules optionally restricts products to weekdays, e.g. "14:1-3;15:0"
	// (0 = Sunday). Products without a rule are synced for every date.
	ProductRules string `mapstructure:"product_rules" default:""`
	// RequestsPerMinute is the provider rate limit ceiling.
	RequestsPerMinute int `mapstructure:"requests_per_minute" default:"30"`
	// TimeoutSeconds is the per-request timeout for provider calls.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// ParseProductIDs parses the configured product id list.
func (c Config) ParseProductIDs() ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(c.ProductIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q: %w", part, err)
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no product ids configured")
	}
	return ids, nil
}

// ParseProductRules parses the optional weekday rules. The format is
// "productID:days" entries separated by semicolons, where days is a comma
// list of weekday numbers (0 = Sunday) or a single "from-to" range.
func (c Config) ParseProductRules() (map[uint][]time.Weekday, error) {
	rules := make(map[uint][]time.Weekday)
	if strings.TrimSpace(c.ProductRules) == "" {
		return rules, nil
	}

	for _, entry := range strings.Split(c.ProductRules, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, spec, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("invalid product rule %q: missing ':'", entry)
		}
		productID, err := strconv.ParseUint(strings.TrimSpace(id), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid product rule %q: %w", entry, err)
		}

		days, err := parseWeekdays(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid product rule %q: %w", entry, err)
		}
		rules[uint(productID)] = days
	}
	return rules, nil
}

func parseWeekdays(spec string) ([]time.Weekday, error) {
	if from, to, found := strings.Cut(spec, "-"); found {
		lo, err := parseWeekday(from)
		if err != nil {
			return nil, err
		}
		hi, err := parseWeekday(to)
		if err != nil {
			return nil, err
		}
		if hi < lo {
			return nil, fmt.Errorf("weekday range %q is inverted", spec)
		}
		var days []time.Weekday
		for d := lo; d <= hi; d++ {
			days = append(days, d)
		}
		return days, nil
	}

	var days []time.Weekday
	for _, part := range strings.Split(spec, ",") {
		d, err := parseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 6 {
		return 0, fmt.Errorf("invalid weekday %q", s)
	}
	return time.Weekday(n), nil
}
