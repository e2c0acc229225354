package extract

import (
	"strings"

	"ctdoc/internal"
	"ctdoc/internal/util"
)

// Clean collapses a raw cell to nil or a trimmed scalar. Blank cells,
// whitespace-only text and the literal "nan" (any case) all clean to nil;
// numbers pass through in their shortest string form. Every input has a
// defined output, there is no failure path.
func Clean(c internal.Cell) *string {
	switch c.Kind {
	case internal.CellBlank:
		return nil
	case internal.CellNumber:
		return util.StringPtr(c.Raw())
	}

	trimmed := strings.TrimSpace(c.Text)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") {
		return nil
	}
	return util.StringPtr(trimmed)
}

// label reads a cell the way section sentinels are matched: trimmed text,
// empty string for anything blank-like.
func label(c internal.Cell) string {
	return util.Deref(Clean(c))
}
