package satisfy

import (
	"github.com/ppiankov/transfermatch/internal/honors"
	"github.com/ppiankov/transfermatch/internal/model"
)

// Summarize describes the shape of a requirement tree
func Summarize(node model.LogicNode) model.LogicSummary {
	s := model.LogicSummary{
		NoArticulation: node.IsNoArticulation(),
		HonorsRequired: honors.RequiresHonorsOnly(node),
	}
	if s.NoArticulation {
		return s
	}

	switch node.Kind() {
	case model.KindLeaf, model.KindAnd, model.KindOr:
	default:
		return s
	}

	alternatives := []model.LogicNode{node}
	if node.Kind() == model.KindOr {
		alternatives = node.Children()
	}

	s.OptionCount = len(alternatives)
	for _, alt := range alternatives {
		if minCourses(alt) > 1 {
			s.MultiCourseOptions++
		}
	}

	honorsCodes, _ := honors.Split(node)
	s.HasHonorsOptions = len(honorsCodes) > 0
	s.MinCoursesRequired = minCourses(node)
	return s
}

// minCourses is the fewest courses that satisfy node. Unsatisfiable
// alternatives are skipped; a node that can never hold counts as zero.
func minCourses(node model.LogicNode) int {
	n, ok := cheapest(node)
	if !ok {
		return 0
	}
	return n
}

func cheapest(node model.LogicNode) (int, bool) {
	switch node.Kind() {
	case model.KindLeaf:
		if node.IsNoArticulation() {
			return 0, false
		}
		return 1, true
	case model.KindAnd:
		total := 0
		for i := 0; i < node.Len(); i++ {
			n, ok := cheapest(node.Child(i))
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true
	case model.KindOr:
		best, found := 0, false
		for i := 0; i < node.Len(); i++ {
			if n, ok := cheapest(node.Child(i)); ok && (!found || n < best) {
				best, found = n, true
			}
		}
		return best, found
	default:
		return 0, false
	}
}
