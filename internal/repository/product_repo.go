package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/themizzi/storecheck/internal/models"
)

// MaxSearchResults caps the suggestions returned by Search
const MaxSearchResults = 5

// ProductRepository serves the product records of the fixture storefront.
// Records are read once from a directory holding one <appid>.json file each.
type ProductRepository struct {
	products map[int64]*models.RawProduct
	order    []int64
}

// NewProductRepository creates a repository over already loaded records
func NewProductRepository(products ...models.RawProduct) (*ProductRepository, error) {
	repo := &ProductRepository{products: map[int64]*models.RawProduct{}}
	for i := range products {
		if err := repo.add(products[i]); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// LoadProductRepository reads every *.json record in dir
func LoadProductRepository(dir string) (*ProductRepository, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no product fixtures in %s", dir)
	}

	products := make([]models.RawProduct, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture: %w", err)
		}
		var product models.RawProduct
		if err := json.Unmarshal(data, &product); err != nil {
			return nil, fmt.Errorf("failed to parse fixture %s: %w", filepath.Base(path), err)
		}
		products = append(products, product)
	}
	return NewProductRepository(products...)
}

func (r *ProductRepository) add(product models.RawProduct) error {
	if product.SteamAppID <= 0 {
		return fmt.Errorf("product %q: %w", product.Name, models.ErrInvalidAppID)
	}
	if product.Name == "" {
		return fmt.Errorf("product %d: %w", product.SteamAppID, models.ErrInvalidProductName)
	}
	if _, ok := r.products[product.SteamAppID]; ok {
		return fmt.Errorf("product %d: %w", product.SteamAppID, models.ErrDuplicateItem)
	}

	r.products[product.SteamAppID] = &product
	r.order = append(r.order, product.SteamAppID)
	sort.Slice(r.order, func(i, j int) bool { return r.order[i] < r.order[j] })
	return nil
}

// Get returns a copy of the record for appID
func (r *ProductRepository) Get(appID int64) (*models.RawProduct, error) {
	product, ok := r.products[appID]
	if !ok {
		return nil, fmt.Errorf("app %d: %w", appID, models.ErrProductNotFound)
	}
	out := *product
	return &out, nil
}

// All returns copies of every record ordered by app ID
func (r *ProductRepository) All() []models.RawProduct {
	out := make([]models.RawProduct, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.products[id])
	}
	return out
}

// Search returns records whose app ID or name contains term, case-insensitively
func (r *ProductRepository) Search(term string) []models.RawProduct {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var out []models.RawProduct
	for _, id := range r.order {
		product := r.products[id]
		if strings.Contains(strconv.FormatInt(id, 10), term) ||
			strings.Contains(strings.ToLower(product.Name), term) {
			out = append(out, *product)
			if len(out) == MaxSearchResults {
				break
			}
		}
	}
	return out
}
