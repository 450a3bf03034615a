package gsmarena

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	numberRe   = regexp.MustCompile(`(\d+\.?\d*)`)
	releasedRe = regexp.MustCompile(`Released (\d{4}), (\w+) (\d+)`)
	gbRe       = regexp.MustCompile(`(\d+)GB`)
	ramRe      = regexp.MustCompile(`(\d+)GB RAM`)
)

// parseName splits a device title into manufacturer, brand and model.
// Apple titles use "iPhone" as the brand; the model is what follows it.
func parseName(name string) (manufacturer string, brand *string, model string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", nil, ""
	}
	manufacturer = parts[0]
	if manufacturer == "Apple" {
		iphone := "iPhone"
		rest := parts[1:]
		if len(rest) > 0 && rest[0] == iphone {
			rest = rest[1:]
		}
		return manufacturer, &iphone, strings.Join(rest, " ")
	}
	if len(parts) > 1 {
		b := parts[1]
		brand = &b
	}
	if len(parts) > 2 {
		model = strings.Join(parts[2:], " ")
	}
	return manufacturer, brand, model
}

// parseReleaseDate turns "Released 2023, September 22" into "2023-09-22".
func parseReleaseDate(status string) *string {
	m := releasedRe.FindStringSubmatch(status)
	if m == nil {
		return nil
	}
	month, ok := parseMonth(m[2])
	if !ok {
		return nil
	}
	day, err := strconv.Atoi(m[3])
	if err != nil {
		return nil
	}
	date := fmt.Sprintf("%s-%02d-%02d", m[1], int(month), day)
	return &date
}

func parseMonth(s string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, true
		}
	}
	return 0, false
}

// firstNumber returns the first integer or decimal token in text converted
// to T. A decimal token cannot become an int, which yields nil.
func firstNumber[T int | float64](text string) *T {
	m := numberRe.FindString(text)
	if m == "" {
		return nil
	}

	var v T
	switch any(v).(type) {
	case int:
		n, err := strconv.Atoi(m)
		if err != nil {
			return nil
		}
		v = T(n)
	case float64:
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		v = T(f)
	}
	return &v
}

// parseMemory extracts storage and RAM sizes in GB from an internal memory
// string such as "128GB 8GB RAM, 256GB 8GB RAM, 1TB". Both results are
// sorted and deduplicated; empty results are nil.
func parseMemory(text string) (storage, ram []int) {
	for _, idx := range gbRe.FindAllStringSubmatchIndex(text, -1) {
		if strings.HasPrefix(text[idx[1]:], " RAM") {
			continue
		}
		if n, err := strconv.Atoi(text[idx[2]:idx[3]]); err == nil {
			storage = append(storage, n)
		}
	}
	if strings.Contains(text, "1TB") {
		storage = append(storage, 1024)
	}
	if strings.Contains(text, "2TB") {
		storage = append(storage, 2048)
	}

	for _, m := range ramRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			ram = append(ram, n)
		}
	}

	return uniqueSorted(storage), uniqueSorted(ram)
}

func uniqueSorted(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	sort.Ints(values)
	out := values[:1]
	for _, v := range values[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// splitList splits a comma separated value, dropping blank items.
func splitList(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// optString returns nil for blank text.
func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// beforeFirst returns the part of s preceding the first sep, or all of s.
func beforeFirst(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}

// afterLast returns the part of s following the last sep, or all of s.
func afterLast(s, sep string) string {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}
