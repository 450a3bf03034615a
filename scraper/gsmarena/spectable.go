package gsmarena

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNoPhoneName is returned for a detail page without the device name heading.
var ErrNoPhoneName = errors.New("phone name heading not found")

const (
	nameSelector  = "h1.specs-phone-name-title"
	specsSelector = "#specs-list"
)

// SpecTable is the category -> key -> text table scraped from one detail
// page. Categories and keys keep document order.
type SpecTable struct {
	Name string

	order      []string
	categories map[string]*specCategory
}

type specCategory struct {
	keys   []string
	values map[string]string
}

// NewSpecTable returns an empty table for the device called name.
func NewSpecTable(name string) *SpecTable {
	return &SpecTable{Name: name, categories: make(map[string]*specCategory)}
}

// StartCategory begins (or restarts) a category. Restarting drops its earlier keys.
func (t *SpecTable) StartCategory(name string) {
	if _, ok := t.categories[name]; !ok {
		t.order = append(t.order, name)
	}
	t.categories[name] = &specCategory{values: make(map[string]string)}
}

// Set stores value under category/key, creating the category if needed.
func (t *SpecTable) Set(category, key, value string) {
	c, ok := t.categories[category]
	if !ok {
		t.StartCategory(category)
		c = t.categories[category]
	}
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Get returns the text at category/key, or "" when absent.
func (t *SpecTable) Get(category, key string) string {
	if c, ok := t.categories[category]; ok {
		return c.values[key]
	}
	return ""
}

// Keys lists the keys of category in document order.
func (t *SpecTable) Keys(category string) []string {
	if c, ok := t.categories[category]; ok {
		return c.keys
	}
	return nil
}

// Categories lists category names in document order.
func (t *SpecTable) Categories() []string {
	return t.order
}

// FirstKeyExcept returns the first key of category not in skip.
func (t *SpecTable) FirstKeyExcept(category string, skip ...string) (string, bool) {
	for _, k := range t.Keys(category) {
		excluded := false
		for _, s := range skip {
			if k == s {
				excluded = true
				break
			}
		}
		if !excluded {
			return k, true
		}
	}
	return "", false
}

// CategoryText flattens a whole category into "key: value" pairs.
func (t *SpecTable) CategoryText(category string) string {
	c, ok := t.categories[category]
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		parts = append(parts, k+": "+c.values[k])
	}
	return strings.Join(parts, "; ")
}

// ParseSpecTable reads the device name and every specs table from a detail
// page. Tables without a header cell are skipped; within a table only rows
// with exactly two data cells are kept.
func ParseSpecTable(doc *goquery.Document) (*SpecTable, error) {
	heading := doc.Find(nameSelector).First()
	if heading.Length() == 0 {
		return nil, ErrNoPhoneName
	}
	table := NewSpecTable(strippedText(heading))

	doc.Find(specsSelector).First().Find("table").Each(func(_ int, tbl *goquery.Selection) {
		th := tbl.Find("th").First()
		if th.Length() == 0 {
			return
		}
		category := strippedText(th)
		table.StartCategory(category)

		tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() != 2 {
				return
			}
			table.Set(category, strippedText(cells.Eq(0)), strippedText(cells.Eq(1)))
		})
	})

	return table, nil
}

// strippedText concatenates every non-blank text node under sel, each
// trimmed of surrounding whitespace, with no separator.
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}
