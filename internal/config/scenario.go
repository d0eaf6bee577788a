package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ScenarioKind selects what a scenario checks
type ScenarioKind string

const (
	// KindItem checks each product page against its API data
	KindItem ScenarioKind = "item"
	// KindCart adds every product to the cart and checks the total
	KindCart ScenarioKind = "cart"
)

// Scenario is one entry of a scenario file
type Scenario struct {
	Name           string       `yaml:"name"`
	Kind           ScenarioKind `yaml:"kind"`
	Country        string       `yaml:"country"`
	Items          []string     `yaml:"items"`
	ResolveCookies bool         `yaml:"resolve_cookies"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// DefaultItems are the products checked when no scenario file is given
var DefaultItems = []string{"1455840", "427520", "648800", "609320"}

// DefaultScenarios returns the item details and cart total scenarios over DefaultItems
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "item details", Kind: KindItem, Country: "us", Items: append([]string(nil), DefaultItems...)},
		{Name: "cart total", Kind: KindCart, Country: "ro", Items: append([]string(nil), DefaultItems...)},
	}
}

// LoadScenarios reads and validates a YAML scenario file
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes and validates YAML scenarios, filling default countries
func ParseScenarios(data []byte) ([]Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file has no scenarios")
	}

	for i := range file.Scenarios {
		if err := file.Scenarios[i].validate(); err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
	}
	return file.Scenarios, nil
}

func (s *Scenario) validate() error {
	switch s.Kind {
	case KindItem:
		if s.Country == "" {
			s.Country = "us"
		}
	case KindCart:
		if s.Country == "" {
			s.Country = "ro"
		}
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	if len(s.Country) != 2 {
		return fmt.Errorf("country must be a two-letter code, got %q", s.Country)
	}
	if len(s.Items) == 0 {
		return fmt.Errorf("no items")
	}
	for _, id := range s.Items {
		if n, err := strconv.ParseInt(id, 10, 64); err != nil || n <= 0 {
			return fmt.Errorf("item %q is not a product ID", id)
		}
	}
	if s.Name == "" {
		s.Name = string(s.Kind)
	}
	return nil
}
