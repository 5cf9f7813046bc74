package narrowphase

import (
	"math"
	"sort"

	"github.com/akmonengine/narrowphase/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey - Coordonnées d'une cellule dans l'espace 3D
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the objects overlapping it
type Cell struct {
	objectIndices []int
}

// Pair - Paire d'objets potentiellement en collision
type Pair struct {
	A *actor.CollisionObject
	B *actor.CollisionObject
}

// BroadPhaseMargin pads object bounds when they are spread over cells
const BroadPhaseMargin = 0.02

// SpatialGrid - Grille spatiale uniforme avec hashing pour broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
	margin   float64

	// maxCellsPerAxis caps how many cells one object is spread over per axis;
	// bigger objects go to the oversized list and are tested against everything.
	maxCellsPerAxis int
	oversized       []int
}

// NewSpatialGrid - Crée une nouvelle grille spatiale
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].objectIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize:        cellSize,
		cells:           cells,
		cellMask:        numCells - 1,
		margin:          BroadPhaseMargin,
		maxCellsPerAxis: 16,
	}
}

// nextPowerOfTwo - Arrondit à la puissance de 2 supérieure
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - Insère un objet dans toutes les cellules qu'il occupe
func (sg *SpatialGrid) Insert(objectIndex int, object *actor.CollisionObject) {
	minCell, maxCell := sg.cellRange(object)

	if maxCell.X-minCell.X >= sg.maxCellsPerAxis ||
		maxCell.Y-minCell.Y >= sg.maxCellsPerAxis ||
		maxCell.Z-minCell.Z >= sg.maxCellsPerAxis {
		sg.oversized = append(sg.oversized, objectIndex)
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})

				sg.cells[cellIdx].objectIndices = append(
					sg.cells[cellIdx].objectIndices,
					objectIndex,
				)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].objectIndices = sg.cells[i].objectIndices[:0]
	}
	sg.oversized = sg.oversized[:0]
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].objectIndices) > 1 {
			sort.Ints(sg.cells[i].objectIndices)
		}
	}
}

// FindPairs returns every candidate pair once, ordered by the lower object index
// then by the higher one, so a tick always processes pairs in the same order.
func (sg *SpatialGrid) FindPairs(objects []*actor.CollisionObject) []Pair {
	pairs := make([]Pair, 0, len(objects)/2)
	seen := make([]bool, len(objects))
	candidates := make([]int, 0, 16)

	for objectIdx, objectA := range objects {
		clear(seen)
		candidates = candidates[:0]

		collect := func(otherIdx int) {
			// ========== ORDRE DÉTERMINISTE ==========
			if otherIdx <= objectIdx || seen[otherIdx] {
				return
			}
			seen[otherIdx] = true
			candidates = append(candidates, otherIdx)
		}

		if sg.isOversized(objectIdx) {
			for otherIdx := range objects {
				collect(otherIdx)
			}
		} else {
			minCell, maxCell := sg.cellRange(objectA)

			for x := minCell.X; x <= maxCell.X; x++ {
				for y := minCell.Y; y <= maxCell.Y; y++ {
					for z := minCell.Z; z <= maxCell.Z; z++ {
						for _, otherIdx := range sg.cells[sg.hashCell(CellKey{x, y, z})].objectIndices {
							collect(otherIdx)
						}
					}
				}
			}
			for _, otherIdx := range sg.oversized {
				collect(otherIdx)
			}
		}

		sort.Ints(candidates)

		for _, otherIdx := range candidates {
			objectB := objects[otherIdx]

			if objectA.IsStatic() && objectB.IsStatic() {
				continue
			}
			if !objectA.CanCollideWith(objectB) {
				continue
			}
			if objectA.BoundingBox.Overlaps(objectB.BoundingBox) {
				pairs = append(pairs, Pair{A: objectA, B: objectB})
			}
		}
	}

	return pairs
}

func (sg *SpatialGrid) isOversized(objectIdx int) bool {
	for _, idx := range sg.oversized {
		if idx == objectIdx {
			return true
		}
	}
	return false
}

// cellRange returns the cells covered by the padded bounds of object
func (sg *SpatialGrid) cellRange(object *actor.CollisionObject) (CellKey, CellKey) {
	bounds := object.BoundingBox.Expand(sg.margin)
	return sg.worldToCell(bounds.Min), sg.worldToCell(bounds.Max)
}

// worldToCell - Convertit une position monde en coordonnées de cellule
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - Hash une cellule vers un index dans l'array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
