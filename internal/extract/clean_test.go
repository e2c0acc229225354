package extract

import (
	"testing"

	"ctdoc/internal"
)

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		cell internal.Cell
		want *string
	}{
		{name: "blank", cell: internal.BlankCell(), want: nil},
		{name: "whitespace only", cell: internal.TextCell("   \t"), want: nil},
		{name: "nan lowercase", cell: internal.TextCell("nan"), want: nil},
		{name: "nan mixed case", cell: internal.TextCell("NaN"), want: nil},
		{name: "padded nan", cell: internal.TextCell("  nan "), want: nil},
		{name: "padded text", cell: internal.TextCell("  용기  "), want: strp("용기")},
		{name: "plain text", cell: internal.TextCell("PET"), want: strp("PET")},
		{name: "integer number", cell: internal.NumberCell(10), want: strp("10")},
		{name: "decimal number", cell: internal.NumberCell(17.8), want: strp("17.8")},
		{name: "trailing zeros dropped", cell: internal.NumberCell(2.50), want: strp("2.5")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Clean(tc.cell)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("got %q want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("got nil want %q", *tc.want)
			}
			if *got != *tc.want {
				t.Fatalf("got %q want %q", *got, *tc.want)
			}
		})
	}
}

func strp(v string) *string { return &v }
