package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const CellSize = 40.0 // world units per map grid cell

// Block is one solid terrain cell, addressed by grid coordinates
type Block struct {
	GX int `json:"gx" msgpack:"gx"`
	GY int `json:"gy" msgpack:"gy"`
}

// GameMap is the immutable-per-round tile map: dimensions plus occupied cells
type GameMap struct {
	Name   string
	Cols   int
	Rows   int
	Blocks []Block
}

// Width returns the playfield width in world units
func (m *GameMap) Width() float64 { return float64(m.Cols) * CellSize }

// Height returns the playfield height in world units
func (m *GameMap) Height() float64 { return float64(m.Rows) * CellSize }

// Center returns the world-space center of the playfield
func (m *GameMap) Center() (float64, float64) {
	return m.Width() / 2, m.Height() / 2
}

// ParseMap reads a text tile grid: '#' marks a solid block, anything else is
// open floor. All rows are padded to the widest row.
func ParseMap(name, text string) (*GameMap, error) {
	m := &GameMap{Name: name}
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if m.Rows == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		for x, ch := range line {
			if ch == '#' {
				m.Blocks = append(m.Blocks, Block{GX: x, GY: m.Rows})
			}
		}
		if len(line) > m.Cols {
			m.Cols = len(line)
		}
		m.Rows++
	}
	if m.Cols == 0 || m.Rows == 0 {
		return nil, fmt.Errorf("map %s: empty grid", name)
	}
	return m, nil
}

// defaultArena is used when no maps directory is configured
const defaultArena = `
####################
#..................#
#..................#
#....##......##....#
#..................#
#........##........#
#........##........#
#..................#
#....##......##....#
#..................#
#..................#
####################
`

// LoadMaps loads every *.txt map from dir, or the built-in arena when dir is
// empty. Returning an error here is fatal at startup: the server cannot run
// without at least one map.
func LoadMaps(dir string) ([]*GameMap, error) {
	if dir == "" {
		m, err := ParseMap("arena", defaultArena)
		if err != nil {
			return nil, err
		}
		return []*GameMap{m}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("maps dir %s: %w", dir, err)
	}

	var maps []*GameMap
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read map %s: %w", name, err)
		}
		m, err := ParseMap(strings.TrimSuffix(name, ".txt"), string(data))
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	if len(maps) == 0 {
		return nil, fmt.Errorf("maps dir %s: no .txt maps found", dir)
	}
	return maps, nil
}
