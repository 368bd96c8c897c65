package ai

import (
	"github.com/udisondev/gravemarch/internal/geom"
	"github.com/udisondev/gravemarch/internal/mapdata"
	"github.com/udisondev/gravemarch/internal/world"
)

// Survey summarizes the world for the exit log.
type Survey struct {
	Nodes      int // nodes of the creature index
	Depth      int // deepest node of the creature index
	Visible    int // objects of both indexes on the map
	InVillages int // living creatures standing in a village
	InCastles  int // living creatures standing in a castle
}

// TakeSurvey walks the creature index of w and counts the living creatures
// standing in the areas of md.
func TakeSurvey(w *world.Manager, md *mapdata.Map) Survey {
	var s Survey
	w.Walk(func(_ geom.Rectangle, depth int, _ []world.Object) {
		s.Nodes++
		s.Depth = max(s.Depth, depth)
	})
	s.Visible = len(w.VisibleObjects(w.MapRect()))

	for _, c := range w.Creatures() {
		if c.IsDead() {
			continue
		}
		switch {
		case md.InArea(mapdata.Village, c.Position()):
			s.InVillages++
		case md.InArea(mapdata.Castle, c.Position()):
			s.InCastles++
		}
	}
	return s
}
