package models

// PriceOverview is the pricing block of an appdetails record
type PriceOverview struct {
	Currency         string `json:"currency"`
	Initial          int64  `json:"initial"`
	Final            int64  `json:"final"`
	DiscountPercent  int    `json:"discount_percent"`
	InitialFormatted string `json:"initial_formatted"`
	FinalFormatted   string `json:"final_formatted"`
}

// ReleaseDate is the release block of an appdetails record
type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// Genre is a single store genre
type Genre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// RawRequirements holds the requirement blocks as markup fragments
type RawRequirements struct {
	Minimum     string `json:"minimum"`
	Recommended string `json:"recommended"`
}

// RawRecommendations holds the review count as returned by the API
type RawRecommendations struct {
	Total int64 `json:"total"`
}

// RawProduct is one product as returned by the product-info API
type RawProduct struct {
	Type             string             `json:"type"`
	Name             string             `json:"name"`
	SteamAppID       int64              `json:"steam_appid"`
	RequiredAge      FlexInt            `json:"required_age"`
	IsFree           bool               `json:"is_free"`
	HeaderImage      string             `json:"header_image"`
	ShortDescription string             `json:"short_description"`
	ReleaseDate      ReleaseDate        `json:"release_date"`
	Developers       []string           `json:"developers"`
	Publishers       []string           `json:"publishers"`
	PriceOverview    *PriceOverview     `json:"price_overview,omitempty"`
	PCRequirements   RawRequirements    `json:"pc_requirements"`
	Recommendations  RawRecommendations `json:"recommendations"`
	Genres           []Genre            `json:"genres"`
}

// AppDetailsEntry is the envelope around a RawProduct for one requested ID
type AppDetailsEntry struct {
	Success bool       `json:"success"`
	Data    RawProduct `json:"data"`
}

// AppDetailsResponse is the full API body, keyed by product ID
type AppDetailsResponse map[string]AppDetailsEntry

// RequirementMap maps a requirement label (e.g. "OS", "Memory") to its display value
type RequirementMap map[string]string

// Requirements holds both parsed requirement blocks
type Requirements struct {
	Minimum     RequirementMap `json:"minimum"`
	Recommended RequirementMap `json:"recommended"`
}

// Recommendations holds the review count in its display form
type Recommendations struct {
	Total string `json:"total"`
}

// NormalizedProduct is a RawProduct reshaped for page assertions
type NormalizedProduct struct {
	Type             string          `json:"type"`
	Name             string          `json:"name"`
	SteamAppID       int64           `json:"steam_appid"`
	RequiredAge      int             `json:"required_age"`
	IsFree           bool            `json:"is_free"`
	HeaderImage      string          `json:"header_image"`
	ShortDescription string          `json:"short_description"`
	ReleaseDate      ReleaseDate     `json:"release_date"`
	Developers       []string        `json:"developers"`
	Publishers       []string        `json:"publishers"`
	PriceOverview    *PriceOverview  `json:"price_overview,omitempty"`
	PCRequirements   Requirements    `json:"pc_requirements"`
	Recommendations  Recommendations `json:"recommendations"`
	Genres           []Genre         `json:"genres"`
}

// Developer returns the first listed developer, or "" when none is listed
func (p *NormalizedProduct) Developer() string {
	if len(p.Developers) == 0 {
		return ""
	}
	return p.Developers[0]
}

// Publisher returns the first listed publisher, or "" when none is listed
func (p *NormalizedProduct) Publisher() string {
	if len(p.Publishers) == 0 {
		return ""
	}
	return p.Publishers[0]
}
