package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/themizzi/storecheck/internal/config"
	"github.com/themizzi/storecheck/internal/models"
	"go.uber.org/zap"
)

// AppDetailsPath is the product-info endpoint, relative to the API base URL
const AppDetailsPath = "/api/appdetails"

// ProductInfoClient fetches raw product records from the product-info API
type ProductInfoClient interface {
	AppDetails(ctx context.Context, ids []string, cc string) (models.AppDetailsResponse, error)
}

// HTTPProductInfoClient implements ProductInfoClient using resty
type HTTPProductInfoClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewProductInfoClient creates a product-info API client
func NewProductInfoClient(cfg *config.StoreConfig, logger *zap.Logger) ProductInfoClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = config.DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.APIURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() == 429 || resp.StatusCode() >= 500
		})

	return &HTTPProductInfoClient{httpClient: httpClient, logger: logger}
}

// AppDetails fetches the records for ids priced for country cc
func (c *HTTPProductInfoClient) AppDetails(ctx context.Context, ids []string, cc string) (models.AppDetailsResponse, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no product IDs requested")
	}

	appids := strings.Join(ids, ",")
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("appids", appids).
		SetQueryParam("cc", cc).
		Get(AppDetailsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.IsError() {
		c.logger.Warn("appdetails request failed",
			zap.String("appids", appids),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var details models.AppDetailsResponse
	if err := json.Unmarshal(resp.Body(), &details); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	c.logger.Debug("appdetails fetched",
		zap.String("appids", appids),
		zap.String("cc", cc),
		zap.Duration("elapsed", resp.Time()))
	return details, nil
}
