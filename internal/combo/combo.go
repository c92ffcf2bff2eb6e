// Package combo validates combinations of courses against multi-section
// requirement groups.
package combo

import (
	"fmt"

	"github.com/ppiankov/transfermatch/internal/model"
	"github.com/ppiankov/transfermatch/internal/satisfy"
)

// ValidateGroup evaluates every section of the group and combines the
// section outcomes with the group's logic
func ValidateGroup(ccc []string, group model.Group) model.GroupVerdict {
	return ValidateGroupWith(ccc, group, satisfy.Options{})
}

// ValidateGroupWith is ValidateGroup with explicit evaluation options
func ValidateGroupWith(ccc []string, group model.Group, opts satisfy.Options) model.GroupVerdict {
	v := model.GroupVerdict{
		GroupID: group.ID,
		Title:   group.Title,
		Logic:   group.Logic,
	}

	for _, s := range group.Sections {
		sv := ValidateSection(ccc, s, opts)
		if sv.Satisfied {
			v.SatisfiedCount++
			v.SatisfiedSections = append(v.SatisfiedSections, s.ID)
		}
		v.Sections = append(v.Sections, sv)
	}

	switch group.Logic.Kind {
	case model.LogicAllRequired:
		v.RequiredCount = len(group.Sections)
		v.Satisfied = v.RequiredCount > 0 && v.SatisfiedCount == v.RequiredCount
	case model.LogicChooseOneSection:
		v.RequiredCount = 1
		v.Satisfied = v.SatisfiedCount >= 1
	case model.LogicSelectN:
		if group.Logic.N < 1 {
			v.Malformed = true
			v.Reason = fmt.Sprintf("%s needs at least one section, got %d", model.WireSelectNCourses, group.Logic.N)
			return v
		}
		v.RequiredCount = group.Logic.N
		v.Satisfied = v.SatisfiedCount >= group.Logic.N
	default:
		v.Malformed = true
		v.Reason = "unknown group logic"
	}

	return v
}

// ValidateSection evaluates one section under its own logic. A section
// declaring choose_one_section is malformed: that logic only chooses
// between sections.
func ValidateSection(ccc []string, section model.Section, opts satisfy.Options) model.SectionVerdict {
	v := model.SectionVerdict{
		SectionID: section.ID,
		Title:     section.Title,
		Logic:     section.Logic,
	}

	for _, r := range section.Courses {
		ok, e := satisfy.Explain(r.Logic, ccc, opts)
		if ok {
			v.SatisfiedCount++
		}
		v.Requirements = append(v.Requirements, model.RequirementVerdict{
			UCCourse:    r.ID,
			Title:       r.Title,
			Satisfied:   ok,
			Explanation: e,
		})
	}

	switch section.Logic.Kind {
	case model.LogicAllRequired:
		v.RequiredCount = len(section.Courses)
		v.Satisfied = v.RequiredCount > 0 && v.SatisfiedCount == v.RequiredCount
	case model.LogicSelectN:
		if section.Logic.N < 1 {
			v.Malformed = true
			v.Reason = fmt.Sprintf("%s needs at least one course, got %d", model.WireSelectNCourses, section.Logic.N)
			return v
		}
		v.RequiredCount = section.Logic.N
		v.Satisfied = v.SatisfiedCount >= section.Logic.N
	case model.LogicChooseOneSection:
		v.Malformed = true
		v.Reason = model.WireChooseOneSection + " is not valid inside a section"
	default:
		v.Malformed = true
		v.Reason = "unknown section logic"
	}

	return v
}

// ValidateUCCoursesAgainstSections reports the first section that lists
// every target UC course with its articulation satisfied by ccc. Targets
// spread over several sections do not count.
func ValidateUCCoursesAgainstSections(targets []string, group model.Group, ccc []string) (string, bool) {
	if len(targets) == 0 {
		return "", false
	}

	sel := model.NewSelection(ccc...)
	for _, s := range group.Sections {
		if coversAll(s, targets, sel) {
			return s.ID, true
		}
	}
	return "", false
}

func coversAll(s model.Section, targets []string, sel model.Selection) bool {
	for _, t := range targets {
		r, ok := findRequirement(s, t)
		if !ok || !satisfy.IsSatisfied(r.Logic, sel) {
			return false
		}
	}
	return true
}

func findRequirement(s model.Section, ucCourse string) (model.UcCourseRequirement, bool) {
	for _, r := range s.Courses {
		if model.SameCode(r.ID, ucCourse) {
			return r, true
		}
	}
	return model.UcCourseRequirement{}, false
}

// ValidateAgreement evaluates every group of the agreement in order
func ValidateAgreement(ccc []string, agreement model.Agreement, opts satisfy.Options) []model.GroupVerdict {
	verdicts := make([]model.GroupVerdict, 0, len(agreement.Groups))
	for _, g := range agreement.Groups {
		verdicts = append(verdicts, ValidateGroupWith(ccc, g, opts))
	}
	return verdicts
}

// CourseReach lists the UC courses one CCC course satisfies alone and the
// ones where it is only part of a required combination
func CourseReach(code string, agreement model.Agreement) model.CourseReach {
	target := model.NormalizeCode(code)
	reach := model.CourseReach{Course: target}
	seen := make(map[string]bool)

	for _, r := range agreement.Requirements() {
		if seen[r.ID] || !mentions(r.Logic, target) {
			continue
		}
		seen[r.ID] = true
		if satisfy.SatisfiedBy(r.Logic, target) {
			reach.Direct = append(reach.Direct, r.ID)
		} else {
			reach.Contributes = append(reach.Contributes, r.ID)
		}
	}
	return reach
}

func mentions(node model.LogicNode, code string) bool {
	for _, c := range node.Leaves() {
		if c.Code == code {
			return true
		}
	}
	return false
}
