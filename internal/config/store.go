package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Store defaults
const (
	DefaultStoreBaseURL = "https://store.steampowered.com/"
	DefaultCountry      = "us"
	DefaultTimeout      = 10 * time.Second
	DefaultRetries      = 3
)

// StoreConfig holds configuration for the storefront under test
type StoreConfig struct {
	BaseURL  string        // pages are visited here
	APIURL   string        // appdetails is fetched from here, defaults to BaseURL
	Country  string        // cc query parameter
	Timeout  time.Duration // wait timeout for page checks and API calls
	Headless bool
	Retries  int
}

// LoadStoreConfig loads storefront configuration from environment variables
func LoadStoreConfig(getenv func(string) string) (*StoreConfig, error) {
	config := StoreConfig{
		BaseURL:  getenv("STORE_BASE_URL"),
		APIURL:   getenv("STORE_API_URL"),
		Country:  strings.ToLower(getenv("STORE_COUNTRY")),
		Timeout:  DefaultTimeout,
		Headless: true,
		Retries:  DefaultRetries,
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultStoreBaseURL
	}
	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		return nil, fmt.Errorf("STORE_BASE_URL is invalid: %w", err)
	}
	if config.APIURL == "" {
		config.APIURL = config.BaseURL
	}
	if config.Country == "" {
		config.Country = DefaultCountry
	}
	if len(config.Country) != 2 {
		return nil, fmt.Errorf("STORE_COUNTRY must be a two-letter code, got %q", config.Country)
	}

	if v := getenv("STORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("STORE_TIMEOUT is invalid: %w", err)
		}
		config.Timeout = d
	}
	if v := getenv("STORE_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("STORE_HEADLESS is invalid: %w", err)
		}
		config.Headless = b
	}
	if v := getenv("STORE_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("STORE_RETRIES must be a non-negative integer, got %q", v)
		}
		config.Retries = n
	}

	return &config, nil
}

// URL joins path onto the store base URL
func (c *StoreConfig) URL(path string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
