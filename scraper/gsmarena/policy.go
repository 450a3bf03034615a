package gsmarena

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"phonespecs-scraper/config"
)

// InclusionPolicy decides whether a listing row is a device worth keeping.
// series is non-empty only for policies that label rows.
type InclusionPolicy interface {
	Classify(title string) (keep bool, series string)
}

// PatternPolicy keeps titles that match no exclude pattern and, when any
// include patterns are configured, at least one of those. Patterns are
// matched against the lower-cased title.
type PatternPolicy struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

func (p *PatternPolicy) Classify(title string) (bool, string) {
	lower := strings.ToLower(title)
	for _, re := range p.Exclude {
		if re.MatchString(lower) {
			return false, ""
		}
	}
	if len(p.Include) == 0 {
		return true, ""
	}
	for _, re := range p.Include {
		if re.MatchString(lower) {
			return true, ""
		}
	}
	return false, ""
}

// Series is one labelled title pattern.
type Series struct {
	Name    string
	Pattern *regexp.Regexp
}

// SeriesPolicy keeps titles matching one of its series, labelling them
// with the first series that matches.
type SeriesPolicy struct {
	Series []Series
}

func (p *SeriesPolicy) Classify(title string) (bool, string) {
	lower := strings.ToLower(title)
	for _, s := range p.Series {
		if s.Pattern.MatchString(lower) {
			return true, s.Name
		}
	}
	return false, ""
}

// PolicyFor compiles the inclusion policy described by a vendor rule.
// A rule with series patterns yields a SeriesPolicy.
func PolicyFor(rule config.VendorRule) (InclusionPolicy, error) {
	if len(rule.Series) > 0 {
		p := &SeriesPolicy{}
		for _, s := range rule.Series {
			re, err := regexp.Compile(s.Pattern)
			if err != nil {
				return nil, fmt.Errorf("series %q: %w", s.Name, err)
			}
			p.Series = append(p.Series, Series{Name: s.Name, Pattern: re})
		}
		return p, nil
	}

	include, err := compileAll(rule.Include)
	if err != nil {
		return nil, fmt.Errorf("include: %w", err)
	}
	exclude, err := compileAll(rule.Exclude)
	if err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}
	return &PatternPolicy{Include: include, Exclude: exclude}, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// StartURL returns the rule's first listing page with its query parameters applied.
func StartURL(rule config.VendorRule) (string, error) {
	u, err := url.Parse(rule.StartURL)
	if err != nil {
		return "", fmt.Errorf("start url %q: %w", rule.StartURL, err)
	}
	if len(rule.Query) > 0 {
		q := u.Query()
		for k, v := range rule.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
