package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

const notAvailable = "N/A"

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			WidthMax:         60,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// orNA returns s, or N/A when s is blank.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func formatRating(rating *float64) string {
	if rating == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.1f", *rating)
}

// formatPriceLevel turns "PRICE_LEVEL_MODERATE" into "Moderate".
func formatPriceLevel(level string) string {
	level = strings.TrimPrefix(level, "PRICE_LEVEL_")
	if level == "" || level == "UNSPECIFIED" {
		return notAvailable
	}
	words := strings.Split(strings.ToLower(level), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Local().Format("2006-01-02 15:04")
}

// placeRows builds the restaurant search table rows.
func placeRows(candidates []domain.PlaceCandidate) [][]string {
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		registered := "-"
		if c.IsResolved() {
			registered = c.RestaurantID
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			c.Name,
			orNA(c.Place.Address),
			orNA(c.Place.Phone),
			formatPriceLevel(c.Place.PriceLevel),
			formatRating(c.Place.Rating),
			registered,
		})
	}
	return rows
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
