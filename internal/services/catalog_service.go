package services

import (
	"context"
	"fmt"

	"github.com/themizzi/storecheck/internal/models"
	"github.com/themizzi/storecheck/internal/normalize"
	"go.uber.org/zap"
)

// CatalogService builds item collections from the product-info API
type CatalogService interface {
	Collect(ctx context.Context, ids []string, cc string) (*models.ItemCollection, error)
}

// CatalogServiceImpl implements CatalogService
type CatalogServiceImpl struct {
	client ProductInfoClient
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(client ProductInfoClient, logger *zap.Logger) CatalogService {
	return &CatalogServiceImpl{
		client: client,
		logger: logger,
	}
}

// Collect fetches and normalizes each product in order, one request per ID.
// The first failure aborts the collection; a normalization failure is returned
// as a *models.NormalizationError.
func (s *CatalogServiceImpl) Collect(ctx context.Context, ids []string, cc string) (*models.ItemCollection, error) {
	items := models.NewItemCollection()

	for _, id := range ids {
		resp, err := s.client.AppDetails(ctx, []string{id}, cc)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
		}

		item, err := normalize.FromResponse(id, resp)
		if err != nil {
			s.logger.Error("product data rejected", zap.String("id", id), zap.Error(err))
			return nil, err
		}

		items.Add(id, item)
		s.logger.Debug("product collected",
			zap.String("id", id),
			zap.String("name", item.Name),
			zap.String("cc", cc))
	}

	return items, nil
}
