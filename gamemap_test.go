package main

import "testing"

const testArena = `
########
#......#
#..##..#
#......#
########
`

func testMap(t *testing.T) *GameMap {
	t.Helper()
	m, err := ParseMap("test", testArena)
	if err != nil {
		t.Fatalf("parse test map: %v", err)
	}
	return m
}

func TestParseMapDimensions(t *testing.T) {
	m := testMap(t)
	if m.Cols != 8 || m.Rows != 5 {
		t.Errorf("expected 8x5 grid, got %dx%d", m.Cols, m.Rows)
	}
	if m.Width() != 8*CellSize || m.Height() != 5*CellSize {
		t.Errorf("unexpected world size %fx%f", m.Width(), m.Height())
	}
}

func TestParseMapBlocks(t *testing.T) {
	m := testMap(t)
	// 8+8 border rows, 2 per middle row sides, plus the 2x1 island
	want := 8 + 8 + 3*2 + 2
	if len(m.Blocks) != want {
		t.Errorf("expected %d blocks, got %d", want, len(m.Blocks))
	}

	found := false
	for _, b := range m.Blocks {
		if b.GX == 3 && b.GY == 2 {
			found = true
		}
		if b.GX == 1 && b.GY == 1 {
			t.Errorf("open cell (1,1) marked solid")
		}
	}
	if !found {
		t.Errorf("island block (3,2) missing")
	}
}

func TestParseMapEmpty(t *testing.T) {
	if _, err := ParseMap("empty", ""); err == nil {
		t.Error("expected error for empty map")
	}
}

func TestLoadMapsBuiltin(t *testing.T) {
	maps, err := LoadMaps("")
	if err != nil {
		t.Fatalf("builtin maps: %v", err)
	}
	if len(maps) != 1 {
		t.Fatalf("expected 1 builtin map, got %d", len(maps))
	}
	if len(maps[0].Blocks) == 0 {
		t.Error("builtin arena has no blocks")
	}
}

func TestLoadMapsMissingDir(t *testing.T) {
	if _, err := LoadMaps("/nonexistent/maps"); err == nil {
		t.Error("expected error for missing maps dir")
	}
}

func TestLoadMapsEmptyDir(t *testing.T) {
	if _, err := LoadMaps(t.TempDir()); err == nil {
		t.Error("expected error for dir without maps")
	}
}
