package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Criteria is the buyer's search profile. It is treated as immutable once
// loaded and is passed by value to the scorer.
type Criteria struct {
	Industries       []string `yaml:"industries"`
	Locations        []string `yaml:"locations"`
	PositiveKeywords []string `yaml:"keywords_positive"`
	NegativeKeywords []string `yaml:"keywords_negative"`
	MinPrice         int64    `yaml:"min_price"`
	MaxPrice         int64    `yaml:"max_price"`
	// RegionCodes decide the "in-region" location badge in the report.
	RegionCodes []string `yaml:"region_codes"`
}

// DefaultCriteria returns the healthcare acquisition profile the finder ships with.
func DefaultCriteria() Criteria {
	return Criteria{
		Industries: []string{
			"medical practice", "healthcare", "home health", "home care",
			"senior care", "hospice", "physical therapy", "occupational therapy",
			"behavioral health", "mental health", "healthcare staffing",
			"medical billing", "dental practice", "optometry", "dermatology",
			"urgent care", "clinic", "nursing", "assisted living", "pharmacy",
			"psychiatry", "psychology", "counseling", "therapy", "ABA",
			"substance abuse", "addiction treatment", "rehabilitation",
		},
		Locations: []string{"California", "CA", "Kentucky", "KY", "remote", "anywhere"},
		PositiveKeywords: []string{
			"absentee", "semi-absentee", "manager in place", "management in place",
			"passive", "turnkey", "established", "stable", "recurring revenue",
			"SBA", "SBA eligible", "SBA qualified", "cash flow positive",
			"EBITDA", "cash flow", "SDE", "seller discretionary",
		},
		NegativeKeywords: []string{
			"owner-operator required", "full-time owner", "hands-on required",
		},
		MinPrice:    1_000_000,
		MaxPrice:    5_000_000,
		RegionCodes: []string{"CA", "CALIFORNIA", "KY", "KENTUCKY"},
	}
}

// LoadCriteria decodes a YAML criteria file. Keys absent from the file keep
// their default values.
func LoadCriteria(path string) (Criteria, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Criteria{}, fmt.Errorf("read criteria file %q: %w", path, err)
	}

	c := DefaultCriteria()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Criteria{}, fmt.Errorf("parse criteria file %q: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

// Validate checks that the price window is usable.
func (c Criteria) Validate() error {
	if c.MinPrice < 0 || c.MaxPrice < 0 {
		return fmt.Errorf("criteria: prices must be non-negative")
	}
	if c.MinPrice > c.MaxPrice {
		return fmt.Errorf("criteria: min_price %d exceeds max_price %d", c.MinPrice, c.MaxPrice)
	}
	return nil
}
