package main

import "math"

// BlockIndex is a grid-keyed index of solid map cells. It is rebuilt whenever
// the round's map changes and is read-only while a round runs.
type BlockIndex struct {
	cols  int
	rows  int
	solid map[int]Block // key = gy*cols + gx
}

// NewBlockIndex creates an empty index
func NewBlockIndex() *BlockIndex {
	return &BlockIndex{solid: make(map[int]Block)}
}

// Rebuild repopulates the index from a map snapshot
func (ix *BlockIndex) Rebuild(m *GameMap) {
	ix.cols = m.Cols
	ix.rows = m.Rows
	ix.solid = make(map[int]Block, len(m.Blocks))
	for _, b := range m.Blocks {
		ix.solid[b.GY*m.Cols+b.GX] = b
	}
}

// Nearby appends to buf every solid block whose cell overlaps the bounding box
// of a circle at (x, y) with the given radius, and returns the extended slice.
func (ix *BlockIndex) Nearby(x, y, radius float64, buf []Block) []Block {
	minGX := int(math.Floor((x - radius) / CellSize))
	maxGX := int(math.Floor((x + radius) / CellSize))
	minGY := int(math.Floor((y - radius) / CellSize))
	maxGY := int(math.Floor((y + radius) / CellSize))
	if minGX < 0 {
		minGX = 0
	}
	if maxGX >= ix.cols {
		maxGX = ix.cols - 1
	}
	if minGY < 0 {
		minGY = 0
	}
	if maxGY >= ix.rows {
		maxGY = ix.rows - 1
	}
	for gy := minGY; gy <= maxGY; gy++ {
		for gx := minGX; gx <= maxGX; gx++ {
			if b, ok := ix.solid[gy*ix.cols+gx]; ok {
				buf = append(buf, b)
			}
		}
	}
	return buf
}

// HitTest returns the first block a circle at (x, y) actually overlaps, using
// closest-point circle-vs-cell narrow phase over the Nearby candidates.
func (ix *BlockIndex) HitTest(x, y, radius float64) (Block, bool) {
	var scratch [9]Block
	for _, b := range ix.Nearby(x, y, radius, scratch[:0]) {
		if circleHitsCell(x, y, radius, b) {
			return b, true
		}
	}
	return Block{}, false
}

// circleHitsCell tests a circle against one cell's axis-aligned box
func circleHitsCell(x, y, r float64, b Block) bool {
	minX := float64(b.GX) * CellSize
	minY := float64(b.GY) * CellSize
	cx := Clamp(x, minX, minX+CellSize)
	cy := Clamp(y, minY, minY+CellSize)
	dx := x - cx
	dy := y - cy
	return dx*dx+dy*dy <= r*r
}

// contactNormal returns the unit normal at the point where a circle at (x, y)
// touches block b. Falls back to the cell-center direction when the circle
// center is inside the cell.
func contactNormal(x, y float64, b Block) (float64, float64) {
	minX := float64(b.GX) * CellSize
	minY := float64(b.GY) * CellSize
	cx := Clamp(x, minX, minX+CellSize)
	cy := Clamp(y, minY, minY+CellSize)
	nx := x - cx
	ny := y - cy
	if nx == 0 && ny == 0 {
		nx = x - (minX + CellSize/2)
		ny = y - (minY + CellSize/2)
	}
	mag := math.Sqrt(nx*nx + ny*ny)
	if mag == 0 {
		return 0, -1
	}
	return nx / mag, ny / mag
}
