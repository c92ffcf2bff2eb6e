package satisfy

import "github.com/ppiankov/transfermatch/internal/model"

// ValidateSingle answers whether one course helps with a requirement.
//
// For a leaf or a flat OR of leaves the course either matches outright or
// every listed course is returned as a miss. For an OR of combinations the
// first branch containing the course is active: matches holds the course and
// misses the rest of that branch, and valid is true only when the branch
// needs nothing else. A top-level AND is a single branch. Branches nested
// deeper than two levels are flattened depth-first.
//
// Codes in matches are normalized; misses are display forms with honors
// annotated. Both slices are non-nil.
func ValidateSingle(code string, node model.LogicNode) (valid bool, matches, misses []string) {
	matches, misses = []string{}, []string{}

	target := model.NormalizeCode(code)
	if target == "" || node.IsNoArticulation() {
		return false, matches, misses
	}

	switch node.Kind() {
	case model.KindLeaf:
		c, _ := node.Course()
		if c.Code == target {
			return true, append(matches, target), misses
		}
		return false, matches, append(misses, c.Display())

	case model.KindAnd:
		return validateBranches(target, [][]model.CourseOption{node.Leaves()})

	case model.KindOr:
		if flat, ok := flatLeaves(node); ok {
			for _, c := range flat {
				if c.Code == target {
					return true, append(matches, target), misses
				}
			}
			return false, matches, displays(flat)
		}
		branches := make([][]model.CourseOption, node.Len())
		for i := range branches {
			branches[i] = node.Child(i).Leaves()
		}
		return validateBranches(target, branches)

	default:
		return false, matches, misses
	}
}

// Single wraps ValidateSingle in a result record
func Single(code string, node model.LogicNode) model.SingleResult {
	valid, matches, misses := ValidateSingle(code, node)
	return model.SingleResult{
		Course:  model.NormalizeCode(code),
		Valid:   valid,
		Matches: matches,
		Misses:  misses,
	}
}

func validateBranches(target string, branches [][]model.CourseOption) (bool, []string, []string) {
	for _, branch := range branches {
		if !containsCode(branch, target) {
			continue
		}
		var others []model.CourseOption
		for _, c := range branch {
			if c.Code != target {
				others = append(others, c)
			}
		}
		misses := displays(others)
		return len(misses) == 0, []string{target}, misses
	}

	var all []model.CourseOption
	for _, branch := range branches {
		all = append(all, branch...)
	}
	return false, []string{}, displays(all)
}

// flatLeaves returns the children of an OR when every child is a leaf
func flatLeaves(node model.LogicNode) ([]model.CourseOption, bool) {
	out := make([]model.CourseOption, 0, node.Len())
	for i := 0; i < node.Len(); i++ {
		c, ok := node.Child(i).Course()
		if !ok {
			return nil, false
		}
		out = append(out, c)
	}
	return out, true
}

func containsCode(courses []model.CourseOption, code string) bool {
	for _, c := range courses {
		if c.Code == code {
			return true
		}
	}
	return false
}

// displays renders courses for people, skipping the N/A placeholder
func displays(courses []model.CourseOption) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		if c.IsNoArticulation() {
			continue
		}
		out = append(out, c.Display())
	}
	return out
}
