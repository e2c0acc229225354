package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"ctdoc/internal"
)

// serialEpoch is the Lotus/Excel day-zero (1899-12-30). Day counts
// produced by spreadsheet tools decode correctly against it for every
// date from 1900-03-01 on; counts at or below 60 inherit the historical
// off-by-one of the 1900 leap-year bug and are decoded as-is, never
// corrected.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	reDigits     = regexp.MustCompile(`^\d+$`)
	reKoreanDate = regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`)
)

// Year-month-day first, then day-first, then month-first. Layouts use
// unpadded verbs so both "2022.5.3" and "2022.05.03" parse.
var delimitedLayouts = []string{
	"2006-1-2",
	"2006.1.2",
	"2006/1/2",
	"2006-1-2 15:04:05",
	"2006.1.2 15:04:05",
	"2006/1/2 15:04:05",
	"2-1-2006",
	"2.1.2006",
	"2/1/2006",
	"1-2-2006",
	"1.2.2006",
	"1/2/2006",
}

// NormalizeDate converts a raw cell to a canonical YYYY-MM-DD string. It
// never fails: when every strategy misses (including structurally
// invalid dates such as "2023.02.30") the original trimmed text comes
// back unchanged. Blank cells normalize to "".
func NormalizeDate(c internal.Cell) string {
	if c.Kind == internal.CellNumber {
		if c.Number > 1 {
			return serialEpoch.AddDate(0, 0, int(c.Number)).Format("2006-01-02")
		}
		return c.Raw()
	}

	raw := strings.TrimSpace(c.Text)
	if raw == "" {
		return ""
	}

	if reDigits.MatchString(raw) {
		switch len(raw) {
		case 8:
			if t, err := time.Parse("20060102", raw); err == nil {
				return t.Format("2006-01-02")
			}
		case 6:
			if t, err := time.Parse("060102", raw); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}

	if m := reKoreanDate.FindStringSubmatch(raw); m != nil {
		joined := fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
		if t, err := time.Parse("2006-1-2", joined); err == nil {
			return t.Format("2006-01-02")
		}
	}

	for _, layout := range delimitedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.Format("2006-01-02")
	}

	return raw
}

// normalizeDatePtr is NormalizeDate for document fields: nil when the
// cell normalizes to nothing at all.
func normalizeDatePtr(c internal.Cell) *string {
	v := NormalizeDate(c)
	if v == "" {
		return nil
	}
	return &v
}
