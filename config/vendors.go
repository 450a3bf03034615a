package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// SeriesPattern labels listing titles matching Pattern with Name.
type SeriesPattern struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// VendorRule describes one manufacturer catalog crawl: where it starts, which
// rows count as phones and where the results are written.
type VendorRule struct {
	Description string            `json:"description"`
	StartURL    string            `json:"start_url"`
	Query       map[string]string `json:"query"`
	Include     []string          `json:"include"`
	Exclude     []string          `json:"exclude"`
	Series      []SeriesPattern   `json:"series"`
	Output      string            `json:"output"`
	Summary     string            `json:"summary"`
}

// VendorSet maps a vendor name (as used on the command line) to its rule.
type VendorSet map[string]VendorRule

// Names returns the vendor names in sorted order.
func (s VendorSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the rule for name, case-insensitively.
func (s VendorSet) Lookup(name string) (VendorRule, error) {
	if rule, ok := s[strings.ToLower(name)]; ok {
		return rule, nil
	}
	return VendorRule{}, fmt.Errorf("unknown vendor %q (known: %s)", name, strings.Join(s.Names(), ", "))
}

const gsmarenaBase = "https://www.gsmarena.com/"

// DefaultVendors returns the built-in rule set.
func DefaultVendors() VendorSet {
	return VendorSet{
		"google": {
			Description: "Google Pixel phones",
			StartURL:    gsmarenaBase + "google-phones-107.php",
			Include: []string{
				`\bpixel\s+\d+`,
				`\bpixel\s+\d+\s*pro`,
				`\bpixel\s+\d+[a-z]`,
				`\bpixel\s+\d+\s*xl`,
				`\bpixel\s+xl$`,
				`^pixel$`,
			},
			Exclude: []string{`\btablet`, `\bwatch`, `\bc$`, `\bslate`, `\bbuds`, `\bearbuds`},
			Output:  "google_pixel_phones.json",
			Summary: "google_pixel_phones_summary.json",
		},
		"oneplus": {
			Description: "OnePlus phones",
			StartURL:    gsmarenaBase + "oneplus-phones-95.php",
			Exclude:     []string{`\bpad\b`, `\btablet\b`, `\bwatch\b`, `\bbuds\b`, `\bmonitor\b`, `\btv\b`},
			Output:      "oneplus_phones.json",
			Summary:     "oneplus_phones_summary.json",
		},
		"samsung": {
			Description: "Samsung Galaxy S, Note, Z Fold and Z Flip",
			StartURL:    gsmarenaBase + "samsung-phones-9.php",
			Series: []SeriesPattern{
				{Name: "Galaxy S", Pattern: `\bgalaxy\s+s\d+`},
				{Name: "Galaxy Note", Pattern: `\bgalaxy\s+note`},
				{Name: "Galaxy Z Fold", Pattern: `\bgalaxy\s+z?\s*fold`},
				{Name: "Galaxy Z Flip", Pattern: `\bgalaxy\s+z?\s*flip`},
			},
			Output:  "samsung_flagship_phones.json",
			Summary: "samsung_flagship_summary.json",
		},
		"generic": {
			Description: "Phone finder results query",
			StartURL:    gsmarenaBase + "results.php3",
			Query: map[string]string{
				"sMakers":         "48",
				"sAvailabilities": "1,3",
				"idOS":            "3",
			},
			Output:  "gsmarena_phones.json",
			Summary: "gsmarena_phones_with_summary.json",
		},
	}
}

// LoadVendorRules returns the built-in vendors merged with the rules in path
// and then with <name>.local.<ext> beside it. Missing files are skipped;
// fields set in a file override the built-in value for that vendor.
func LoadVendorRules(path string) (VendorSet, error) {
	set := DefaultVendors()
	if path == "" {
		return set, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	local := filepath.Join(dir, strings.TrimSuffix(base, ext)+".local"+ext)

	for _, p := range []string{path, local} {
		overrides, err := readVendorFile(p)
		if err != nil {
			return nil, err
		}
		if err := set.merge(overrides); err != nil {
			return nil, fmt.Errorf("vendor rules %s: %w", p, err)
		}
	}
	return set, nil
}

func readVendorFile(path string) (VendorSet, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vendor rules: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var set VendorSet
	if err := json5.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("vendor rules: parse %s: %w", path, err)
	}
	return set, nil
}

func (s VendorSet) merge(overrides VendorSet) error {
	for name, override := range overrides {
		name = strings.ToLower(name)
		current, ok := s[name]
		if !ok {
			s[name] = override
			continue
		}
		if err := mergo.Merge(&current, override, mergo.WithOverride); err != nil {
			return fmt.Errorf("merge %q: %w", name, err)
		}
		s[name] = current
	}
	return nil
}
