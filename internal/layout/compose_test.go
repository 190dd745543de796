package layout

import (
	"fmt"
	"testing"
)

func textBlock(s string) Block {
	return Block{Type: BlockText, Text: &TextBlock{Content: s}}
}

func TestComposeSection_GridPacking(t *testing.T) {
	// columns=3 with 7 blocks: 2 full rows plus 1 row with a single
	// block and 2 empty cells, in original order.
	sec := Section{Grid: Grid{Columns: 3}}
	for i := 0; i < 7; i++ {
		sec.Grid.Items = append(sec.Grid.Items, textBlock(fmt.Sprintf("b%d", i)))
	}

	out := ComposeSection(sec, Context{})
	if len(out.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(out.Rows))
	}
	for i, row := range out.Rows {
		if len(row) != 3 {
			t.Errorf("row %d has width %d, want 3", i, len(row))
		}
	}
	idx := 0
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			want := fmt.Sprintf("b%d", idx)
			if out.Rows[r][c].Text != want {
				t.Errorf("row %d col %d = %q, want %q", r, c, out.Rows[r][c].Text, want)
			}
			idx++
		}
	}
	last := out.Rows[2]
	if last[0].Text != "b6" {
		t.Errorf("last row first cell = %q, want b6", last[0].Text)
	}
	if last[1].Kind != NodeEmpty || last[2].Kind != NodeEmpty {
		t.Error("trailing cells of a partial row must be empty")
	}
}

func TestComposeSection_TitleAndSingleColumn(t *testing.T) {
	sec := Section{
		Title: "Vitals",
		Grid:  Grid{Columns: 1, Items: []Block{textBlock("a"), textBlock("b")}},
	}
	out := ComposeSection(sec, Context{})
	if out.Title != "Vitals" {
		t.Errorf("title lost: %q", out.Title)
	}
	if len(out.Rows) != 2 || len(out.Rows[0]) != 1 {
		t.Errorf("unexpected shape: %d rows", len(out.Rows))
	}
}

func TestComposeSection_ColumnsClamped(t *testing.T) {
	out := ComposeSection(Section{Grid: Grid{Columns: 0, Items: []Block{textBlock("x")}}}, Context{})
	if out.Columns != 1 {
		t.Errorf("columns 0 should clamp to 1, got %d", out.Columns)
	}
	out = ComposeSection(Section{Grid: Grid{Columns: 9, Items: []Block{textBlock("x")}}}, Context{})
	if out.Columns != 4 {
		t.Errorf("columns 9 should clamp to 4, got %d", out.Columns)
	}
}

func TestComposeSection_EmptySection(t *testing.T) {
	out := ComposeSection(Section{Grid: Grid{Columns: 2}}, Context{})
	if len(out.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(out.Rows))
	}
}
