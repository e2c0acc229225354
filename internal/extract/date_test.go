package extract

import (
	"testing"

	"ctdoc/internal"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		name string
		cell internal.Cell
		want string
	}{
		{name: "blank", cell: internal.BlankCell(), want: ""},
		{name: "serial day count", cell: internal.NumberCell(44694), want: "2022-05-13"},
		{name: "serial with time fraction", cell: internal.NumberCell(44694.75), want: "2022-05-13"},
		{name: "serial before leap bug", cell: internal.NumberCell(59), want: "1900-02-27"},
		{name: "serial after leap bug", cell: internal.NumberCell(61), want: "1900-03-01"},
		{name: "tiny number passes through", cell: internal.NumberCell(0.5), want: "0.5"},
		{name: "compact eight digits", cell: internal.TextCell("20220513"), want: "2022-05-13"},
		{name: "compact six digits", cell: internal.TextCell("220513"), want: "2022-05-13"},
		{name: "dotted", cell: internal.TextCell("2022.05.13"), want: "2022-05-13"},
		{name: "dotted unpadded", cell: internal.TextCell("2022.5.3"), want: "2022-05-03"},
		{name: "dashed", cell: internal.TextCell("2022-05-13"), want: "2022-05-13"},
		{name: "slashed", cell: internal.TextCell("2022/05/13"), want: "2022-05-13"},
		{name: "with time", cell: internal.TextCell("2022-05-13 09:30:00"), want: "2022-05-13"},
		{name: "korean form", cell: internal.TextCell("2022년 5월 13일"), want: "2022-05-13"},
		{name: "korean form no spaces", cell: internal.TextCell("2022년5월13일"), want: "2022-05-13"},
		{name: "surrounding whitespace", cell: internal.TextCell("  2022.05.13  "), want: "2022-05-13"},
		{name: "nonexistent day verbatim", cell: internal.TextCell("2023.02.30"), want: "2023.02.30"},
		{name: "free text verbatim", cell: internal.TextCell("추후 협의"), want: "추후 협의"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeDate(tc.cell)
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeDatePtr(t *testing.T) {
	if v := normalizeDatePtr(internal.BlankCell()); v != nil {
		t.Fatalf("blank cell got %q want nil", *v)
	}
	v := normalizeDatePtr(internal.TextCell("2022.05.13"))
	if v == nil || *v != "2022-05-13" {
		t.Fatalf("got %v want 2022-05-13", v)
	}
}
