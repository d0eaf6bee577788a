package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/storecheck/internal/models"
)

func TestLoadProductRepository(t *testing.T) {
	repo, err := LoadProductRepository("../../testdata/appdetails")
	require.NoError(t, err)

	all := repo.All()
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].SteamAppID, all[i].SteamAppID)
	}

	factorio, err := repo.Get(427520)
	require.NoError(t, err)
	assert.Equal(t, "Factorio", factorio.Name)
	require.NotNil(t, factorio.PriceOverview)

	gated, err := repo.Get(609320)
	require.NoError(t, err)
	assert.Equal(t, models.FlexInt(18), gated.RequiredAge)
}

func TestLoadProductRepository_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name:  "empty directory",
			files: map[string]string{},
		},
		{
			name:  "malformed json",
			files: map[string]string{"1.json": `{"name":`},
		},
		{
			name:  "missing app id",
			files: map[string]string{"1.json": `{"name":"No ID"}`},
		},
		{
			name: "duplicate app id",
			files: map[string]string{
				"1.json": `{"name":"One","steam_appid":1}`,
				"2.json": `{"name":"Also One","steam_appid":1}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, body := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
			}

			_, err := LoadProductRepository(dir)
			if err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestProductRepository_Get_NotFound(t *testing.T) {
	repo, err := NewProductRepository(models.RawProduct{Name: "Factorio", SteamAppID: 427520})
	require.NoError(t, err)

	_, err = repo.Get(1)
	if !errors.Is(err, models.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_Get_ReturnsCopy(t *testing.T) {
	repo, err := NewProductRepository(models.RawProduct{Name: "Factorio", SteamAppID: 427520})
	require.NoError(t, err)

	first, err := repo.Get(427520)
	require.NoError(t, err)
	first.Name = "changed"

	second, err := repo.Get(427520)
	require.NoError(t, err)
	assert.Equal(t, "Factorio", second.Name)
}

func TestProductRepository_Search(t *testing.T) {
	repo, err := NewProductRepository(
		models.RawProduct{Name: "Factorio", SteamAppID: 427520},
		models.RawProduct{Name: "Raft", SteamAppID: 648800},
		models.RawProduct{Name: "Dorfromantik", SteamAppID: 1455840},
	)
	require.NoError(t, err)

	tests := []struct {
		name string
		term string
		want []int64
	}{
		{"by full id", "648800", []int64{648800}},
		{"by partial id", "8", []int64{648800, 1455840}},
		{"by name", "factorio", []int64{427520}},
		{"by name fragment", "RA", []int64{648800}},
		{"blank term", "  ", nil},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int64
			for _, p := range repo.Search(tt.term) {
				got = append(got, p.SteamAppID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductRepository_Search_Limit(t *testing.T) {
	var products []models.RawProduct
	for i := int64(1); i <= MaxSearchResults+3; i++ {
		products = append(products, models.RawProduct{Name: "Game", SteamAppID: i})
	}
	repo, err := NewProductRepository(products...)
	require.NoError(t, err)

	assert.Len(t, repo.Search("game"), MaxSearchResults)
}
