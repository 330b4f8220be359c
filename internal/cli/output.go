package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"rentgrip/internal/catalog"
	"rentgrip/internal/domain"
	"rentgrip/internal/engine"
	"rentgrip/internal/ui/logic"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

func parseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// TableFormatter helps format tabular output
type TableFormatter struct {
	writer *tabwriter.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

// Header writes the table header
func (t *TableFormatter) Header(columns ...string) {
	fmt.Fprintln(t.writer, strings.Join(columns, "\t"))
}

// Row writes a table row
func (t *TableFormatter) Row(values ...string) {
	fmt.Fprintln(t.writer, strings.Join(values, "\t"))
}

// Flush writes the buffered table to output
func (t *TableFormatter) Flush() error {
	return t.writer.Flush()
}

// encode writes data as JSON or YAML
func encode(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// queryResult is the structured form of one result page
type queryResult struct {
	Query      string        `json:"query,omitempty" yaml:"query,omitempty"`
	Sort       string        `json:"sort" yaml:"sort"`
	Total      int           `json:"total" yaml:"total"`
	Page       int           `json:"page" yaml:"page"`
	TotalPages int           `json:"total_pages" yaml:"total_pages"`
	Items      []domain.Item `json:"items" yaml:"items"`
}

func newQueryResult(v engine.View) queryResult {
	items := v.PageItems
	if items == nil {
		items = []domain.Item{}
	}
	return queryResult{
		Query:      v.CommittedSearch,
		Sort:       v.SortMode.String(),
		Total:      v.ResultCount,
		Page:       v.CurrentPage,
		TotalPages: v.TotalPages,
		Items:      items,
	}
}

func writeQueryResult(w io.Writer, format OutputFormat, v engine.View) error {
	if format != FormatText {
		return encode(w, format, newQueryResult(v))
	}

	if v.ResultCount == 0 {
		_, err := fmt.Fprintln(w, "No items match.")
		return err
	}

	t := NewTableFormatter(w)
	t.Header("ID", "NAME", "PRICE", "BRAND", "CATEGORY", "CONDITION", "LOCATION", "RATING")
	for _, item := range v.PageItems {
		rating := "-"
		if item.HasRating() {
			rating = fmt.Sprintf("%.1f", *item.Rating)
		}
		t.Row(
			fmt.Sprint(item.ID),
			item.Name,
			priceLabel(item),
			item.Brand,
			item.Category.String(),
			item.Condition,
			item.Location,
			rating,
		)
	}
	if err := t.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d-%d of %d items, page %d/%d, sorted by %s\n",
		v.PageStart+1, v.PageStart+len(v.PageItems), v.ResultCount,
		v.CurrentPage, v.TotalPages, v.SortMode)
	return err
}

func priceLabel(item domain.Item) string {
	if item.Period == "" {
		return logic.FormatPrice(item.PricePerPeriod)
	}
	return logic.FormatPrice(item.PricePerPeriod) + "/" + item.Period
}

// facetsResult is the structured form of the facet universe
type facetsResult struct {
	Categories []domain.CategoryNode `json:"categories" yaml:"categories"`
	Brands     []string              `json:"brands" yaml:"brands"`
	Conditions []string              `json:"conditions" yaml:"conditions"`
	Locations  []string              `json:"locations" yaml:"locations"`
	MaxPrice   *float64              `json:"max_price,omitempty" yaml:"max_price,omitempty"`
}

func writeFacets(w io.Writer, format OutputFormat, f catalog.Facets) error {
	if format != FormatText {
		out := facetsResult{
			Categories: nonNil(f.Categories),
			Brands:     nonNil(f.Brands),
			Conditions: nonNil(f.Conditions),
			Locations:  nonNil(f.Locations),
		}
		if f.HasPrices {
			maxPrice := f.MaxPrice
			out.MaxPrice = &maxPrice
		}
		return encode(w, format, out)
	}

	var b strings.Builder
	b.WriteString("Categories:\n")
	for _, c := range f.Categories {
		fmt.Fprintf(&b, "  %s\n", c.Name)
		for _, s := range c.Subcategories {
			fmt.Fprintf(&b, "    %s\n", s.Name)
			for _, l := range s.Leaves {
				fmt.Fprintf(&b, "      %s\n", l)
			}
		}
	}
	writeList(&b, "Brands", f.Brands)
	writeList(&b, "Conditions", f.Conditions)
	writeList(&b, "Locations", f.Locations)
	if f.HasPrices {
		fmt.Fprintf(&b, "Max price: %s\n", logic.FormatPrice(f.MaxPrice))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(b, "%s: -\n", title)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", title, strings.Join(values, ", "))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
