package narrowphase

import (
	"sort"
	"testing"

	"github.com/akmonengine/narrowphase/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestWorldToCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	tests := []struct {
		name     string
		position mgl64.Vec3
		expected CellKey
	}{
		{"origine", mgl64.Vec3{0, 0, 0}, CellKey{0, 0, 0}},
		{"positif", mgl64.Vec3{1.5, 2.3, 3.7}, CellKey{1, 2, 3}},
		{"negatif", mgl64.Vec3{-1.5, -2.3, -3.7}, CellKey{-2, -3, -4}},
		{"fractionnaire", mgl64.Vec3{0.5, 0.5, 0.5}, CellKey{0, 0, 0}},
		{"grand", mgl64.Vec3{100.7, -200.3, 50.1}, CellKey{100, -201, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.worldToCell(tt.position)
			if result != tt.expected {
				t.Errorf("worldToCell(%v) = %v, want %v", tt.position, result, tt.expected)
			}
		})
	}
}

func TestHashCellRange(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16) // 16 cellules, mask = 15

	for x := -20; x <= 20; x++ {
		for y := -20; y <= 20; y++ {
			key := CellKey{x, y, x - y}
			result := grid.hashCell(key)
			if result < 0 || result >= len(grid.cells) {
				t.Fatalf("hashCell(%v) = %d, out of range [0, %d)", key, result, len(grid.cells))
			}
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := map[int]int{-3: 1, 0: 1, 1: 1, 3: 4, 16: 16, 1000: 1024}

	for n, expected := range tests {
		if got := nextPowerOfTwo(n); got != expected {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", n, got, expected)
		}
	}
}

func cellContains(grid *SpatialGrid, object *actor.CollisionObject, index int) bool {
	minCell, maxCell := grid.cellRange(object)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				for _, idx := range grid.cells[grid.hashCell(CellKey{x, y, z})].objectIndices {
					if idx == index {
						return true
					}
				}
			}
		}
	}
	return false
}

func TestInsertAndClear(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	objects := []*actor.CollisionObject{
		createTestBox(mgl64.Vec3{1.0, 1.0, 1.0}, mgl64.Vec3{0.4, 0.4, 0.4}),
		createTestBox(mgl64.Vec3{2.0, 2.0, 2.0}, mgl64.Vec3{0.4, 0.4, 0.4}),
		createTestBox(mgl64.Vec3{3.0, 3.0, 3.0}, mgl64.Vec3{0.4, 0.4, 0.4}),
	}

	for i, object := range objects {
		grid.Insert(i, object)
	}

	for i, object := range objects {
		if !cellContains(grid, object, i) {
			t.Errorf("Object %d not found in any cell after insertion", i)
		}
	}

	grid.Clear()

	for _, cell := range grid.cells {
		if len(cell.objectIndices) != 0 {
			t.Error("Cells should be empty after clear")
		}
	}
}

func TestInsertPadsBounds(t *testing.T) {
	grid := NewSpatialGrid(1.0, 64)

	// Bounds [0.01, 0.99] fit in one cell, the margin reaches the neighbours
	object := createTestBox(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0.49, 0.49, 0.49})
	grid.Insert(0, object)

	minCell, maxCell := grid.cellRange(object)
	if minCell != (CellKey{-1, -1, -1}) || maxCell != (CellKey{1, 1, 1}) {
		t.Errorf("cellRange() = %v, %v, want {-1 -1 -1}, {1 1 1}", minCell, maxCell)
	}

	for _, key := range []CellKey{{-1, 0, 0}, {1, 1, 1}, {0, 0, 0}} {
		found := false
		for _, idx := range grid.cells[grid.hashCell(key)].objectIndices {
			if idx == 0 {
				found = true
			}
		}
		if !found {
			t.Errorf("object missing from cell %v", key)
		}
	}
}

func TestInsertOversized(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	huge := createTestBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{50, 0.5, 50})

	grid.Insert(0, huge)

	if len(grid.oversized) != 1 || !grid.isOversized(0) {
		t.Errorf("oversized = %v, want [0]", grid.oversized)
	}
	for _, cell := range grid.cells {
		if len(cell.objectIndices) > 0 {
			t.Error("Regular cells should be empty when inserting an oversized object")
		}
	}
}

func TestSortCells(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	// Insérer des indices dans la même cellule dans un ordre aléatoire
	grid.cells[0].objectIndices = append(grid.cells[0].objectIndices, 5, 2, 8, 1, 9, 3)

	grid.SortCells()

	if !sort.IntsAreSorted(grid.cells[0].objectIndices) {
		t.Error("Cell indices should be sorted")
	}
}

func findPairs(objects []*actor.CollisionObject) []Pair {
	grid := NewSpatialGrid(1.0, 64)
	for i, object := range objects {
		grid.Insert(i, object)
	}
	grid.SortCells()

	return grid.FindPairs(objects)
}

func TestFindPairs(t *testing.T) {
	half := mgl64.Vec3{0.4, 0.4, 0.4}

	t.Run("no collision", func(t *testing.T) {
		pairs := findPairs([]*actor.CollisionObject{
			createTestBox(mgl64.Vec3{0, 0, 0}, half),
			createTestBox(mgl64.Vec3{10, 10, 10}, half),
		})

		if len(pairs) != 0 {
			t.Errorf("Expected 0 pairs, got %d", len(pairs))
		}
	})

	t.Run("overlapping across several shared cells is reported once", func(t *testing.T) {
		// Both boxes straddle the cell boundaries around the origin
		objects := []*actor.CollisionObject{
			createTestBox(mgl64.Vec3{0, 0, 0}, half),
			createTestBox(mgl64.Vec3{0.1, 0.1, 0.1}, half),
		}
		pairs := findPairs(objects)

		if len(pairs) != 1 {
			t.Fatalf("Expected 1 pair, got %d", len(pairs))
		}
		if pairs[0].A != objects[0] || pairs[0].B != objects[1] {
			t.Error("Pair should follow insertion order")
		}
	})

	t.Run("deterministic order", func(t *testing.T) {
		objects := []*actor.CollisionObject{
			createTestBox(mgl64.Vec3{0, 0, 0}, half),
			createTestBox(mgl64.Vec3{0.5, 0, 0}, half),
			createTestBox(mgl64.Vec3{0, 0.5, 0}, half),
		}
		pairs := findPairs(objects)

		expected := []Pair{
			{A: objects[0], B: objects[1]},
			{A: objects[0], B: objects[2]},
			{A: objects[1], B: objects[2]},
		}
		if len(pairs) != len(expected) {
			t.Fatalf("Expected %d pairs, got %d", len(expected), len(pairs))
		}
		for i := range expected {
			if pairs[i] != expected[i] {
				t.Errorf("pair %d out of order", i)
			}
		}
	})

	t.Run("static and kinematic pairs are skipped", func(t *testing.T) {
		quad, err := actor.NewQuad(mgl64.Vec3{-2, 0, 2}, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 0, -4})
		if err != nil {
			t.Fatal(err)
		}
		floor := actor.NewStaticQuadObject(quad, actor.CollisionLayerAll)

		kinematic := createTestBox(mgl64.Vec3{0, 0.2, 0}, half)
		kinematic.Body.MarkKinematic()
		otherKinematic := createTestBox(mgl64.Vec3{0.3, 0.2, 0}, half)
		otherKinematic.Body.MarkKinematic()

		pairs := findPairs([]*actor.CollisionObject{floor, kinematic, otherKinematic})

		if len(pairs) != 0 {
			t.Errorf("Expected 0 pairs between static objects, got %d", len(pairs))
		}
	})

	t.Run("layer-disjoint objects are skipped", func(t *testing.T) {
		ball := createTestBox(mgl64.Vec3{0, 0, 0}, half)
		ball.Layers = actor.CollisionLayerBall
		prop := createTestBox(mgl64.Vec3{0.2, 0, 0}, half)
		prop.Layers = actor.CollisionLayerTangible

		if pairs := findPairs([]*actor.CollisionObject{ball, prop}); len(pairs) != 0 {
			t.Errorf("Expected 0 pairs, got %d", len(pairs))
		}
	})

	t.Run("oversized objects meet everything", func(t *testing.T) {
		huge := createTestBox(mgl64.Vec3{0, -1, 0}, mgl64.Vec3{50, 0.5, 50})
		small := createTestBox(mgl64.Vec3{30, -0.2, -20}, half)

		pairs := findPairs([]*actor.CollisionObject{small, huge})
		if len(pairs) != 1 {
			t.Fatalf("Expected 1 pair, got %d", len(pairs))
		}
		if pairs[0].A != small || pairs[0].B != huge {
			t.Error("Pair should follow insertion order")
		}
	})
}
