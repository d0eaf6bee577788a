package normalize

import (
	"fmt"
	"strings"

	"github.com/themizzi/storecheck/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// HeaderImageMarker is where the site-relative part of a header image URL starts
const HeaderImageMarker = "/steam"

var groupPrinter = message.NewPrinter(language.English)

// FromResponse extracts the record for id from an API body and normalizes it
func FromResponse(id string, resp models.AppDetailsResponse) (*models.NormalizedProduct, error) {
	entry, ok := resp[id]
	if !ok {
		return nil, &models.NormalizationError{ProductID: id, Field: "data", Reason: "id missing from response"}
	}
	if !entry.Success {
		return nil, &models.NormalizationError{ProductID: id, Field: "success", Reason: "api reported failure"}
	}
	return Product(id, entry.Data)
}

// Product normalizes one raw record. It has no side effects.
func Product(id string, raw models.RawProduct) (*models.NormalizedProduct, error) {
	minimum, err := ParseRequirements(raw.PCRequirements.Minimum)
	if err != nil {
		return nil, withProduct(err, id, "pc_requirements.minimum")
	}
	recommended, err := ParseRequirements(raw.PCRequirements.Recommended)
	if err != nil {
		return nil, withProduct(err, id, "pc_requirements.recommended")
	}

	headerImage, err := HeaderImage(raw.HeaderImage)
	if err != nil {
		return nil, withProduct(err, id, "header_image")
	}

	total, err := GroupThousands(raw.Recommendations.Total)
	if err != nil {
		return nil, withProduct(err, id, "recommendations.total")
	}

	return &models.NormalizedProduct{
		Type:             raw.Type,
		Name:             raw.Name,
		SteamAppID:       raw.SteamAppID,
		RequiredAge:      int(raw.RequiredAge),
		IsFree:           raw.IsFree,
		HeaderImage:      headerImage,
		ShortDescription: raw.ShortDescription,
		ReleaseDate:      raw.ReleaseDate,
		Developers:       raw.Developers,
		Publishers:       raw.Publishers,
		PriceOverview:    raw.PriceOverview,
		PCRequirements: models.Requirements{
			Minimum:     minimum,
			Recommended: recommended,
		},
		Recommendations: models.Recommendations{Total: total},
		Genres:          raw.Genres,
	}, nil
}

// HeaderImage reduces an absolute image URL to the path starting at HeaderImageMarker.
// Applying it to its own output returns the same string.
func HeaderImage(url string) (string, error) {
	idx := strings.Index(url, HeaderImageMarker)
	if idx < 0 {
		return "", &models.NormalizationError{
			Field:  "header_image",
			Reason: fmt.Sprintf("marker %q not found in %q", HeaderImageMarker, url),
		}
	}
	return url[idx:], nil
}

// GroupThousands renders n with a comma every three digits: 1234567 -> "1,234,567"
func GroupThousands(n int64) (string, error) {
	if n < 0 {
		return "", &models.NormalizationError{
			Field:  "recommendations.total",
			Reason: fmt.Sprintf("negative count %d", n),
		}
	}
	return groupPrinter.Sprintf("%d", n), nil
}

// withProduct stamps product id and field onto a NormalizationError
func withProduct(err error, id, field string) error {
	if ne, ok := err.(*models.NormalizationError); ok {
		return &models.NormalizationError{ProductID: id, Field: field, Reason: ne.Reason}
	}
	return fmt.Errorf("normalize product %s field %s: %w", id, field, err)
}
