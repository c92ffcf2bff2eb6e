package combo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/transfermatch/internal/model"
	"github.com/ppiankov/transfermatch/internal/satisfy"
)

func req(uc string, logic model.LogicNode) model.UcCourseRequirement {
	return model.UcCourseRequirement{ID: uc, Logic: logic}
}

func course(code string) model.LogicNode { return model.Course(code, false) }

func section(id string, logic model.SectionLogic, reqs ...model.UcCourseRequirement) model.Section {
	return model.Section{ID: id, Logic: logic, Courses: reqs}
}

// threeSections has one UC course per section, each articulated by a
// single CCC course
func threeSections(logic model.SectionLogic) model.Group {
	return model.Group{
		ID:    "G1",
		Logic: logic,
		Sections: []model.Section{
			section("A", model.AllRequired(), req("MATH 19A", course("MATH 1A"))),
			section("B", model.AllRequired(), req("MATH 19B", course("MATH 1B"))),
			section("C", model.AllRequired(), req("MATH 23A", course("MATH 1C"))),
		},
	}
}

func TestValidateGroup_SelectNSections(t *testing.T) {
	group := threeSections(model.SelectN(2))

	v := ValidateGroup([]string{"MATH 1A", "MATH 1C"}, group)
	assert.True(t, v.Satisfied)
	assert.Equal(t, 2, v.SatisfiedCount)
	assert.Equal(t, 2, v.RequiredCount)
	assert.Equal(t, []string{"A", "C"}, v.SatisfiedSections)

	v = ValidateGroup([]string{"MATH 1A"}, group)
	assert.False(t, v.Satisfied)
	assert.Equal(t, 1, v.SatisfiedCount)
}

func TestValidateGroup_AllRequired(t *testing.T) {
	group := threeSections(model.AllRequired())

	assert.True(t, ValidateGroup([]string{"MATH 1A", "MATH 1B", "MATH 1C"}, group).Satisfied)
	assert.False(t, ValidateGroup([]string{"MATH 1A", "MATH 1B"}, group).Satisfied)
	assert.False(t, ValidateGroup(nil, model.Group{Logic: model.AllRequired()}).Satisfied)
}

func TestValidateGroup_ChooseOneSection(t *testing.T) {
	group := threeSections(model.ChooseOneSection())

	v := ValidateGroup([]string{"math1b"}, group)
	assert.True(t, v.Satisfied)
	assert.Equal(t, []string{"B"}, v.SatisfiedSections)

	assert.False(t, ValidateGroup([]string{"HIST 17A"}, group).Satisfied)
}

func TestValidateGroup_Malformed(t *testing.T) {
	v := ValidateGroup([]string{"MATH 1A", "MATH 1B", "MATH 1C"}, threeSections(model.SelectN(0)))
	assert.False(t, v.Satisfied)
	assert.True(t, v.Malformed)
	assert.NotEmpty(t, v.Reason)

	v = ValidateGroup([]string{"MATH 1A"}, threeSections(model.SectionLogic{}))
	assert.False(t, v.Satisfied)
	assert.True(t, v.Malformed)
}

func TestValidateSection(t *testing.T) {
	s := section("S", model.SelectN(2),
		req("CSE 12", course("CS 12")),
		req("CSE 13", course("CS 13")),
		req("CSE 16", course("CS 16")),
	)

	v := ValidateSection([]string{"CS 12", "CS 16"}, s, satisfy.Options{})
	assert.True(t, v.Satisfied)
	assert.Equal(t, []string{"CSE 12", "CSE 16"}, v.SatisfiedCourses())
	assert.Equal(t, []string{"CSE 13"}, v.UnsatisfiedCourses())

	v = ValidateSection([]string{"CS 12"}, s, satisfy.Options{})
	assert.False(t, v.Satisfied)
	require.Len(t, v.Requirements, 3)
	assert.Equal(t, []string{"CS 13"}, v.Requirements[1].Explanation.Missing)
}

func TestValidateSection_ChooseOneInsideSectionIsMalformed(t *testing.T) {
	s := section("S", model.ChooseOneSection(), req("CSE 12", course("CS 12")))

	v := ValidateSection([]string{"CS 12"}, s, satisfy.Options{})
	assert.False(t, v.Satisfied)
	assert.True(t, v.Malformed)
	assert.Equal(t, 1, v.SatisfiedCount)

	g := ValidateGroup([]string{"CS 12"}, model.Group{Logic: model.ChooseOneSection(), Sections: []model.Section{s}})
	assert.False(t, g.Satisfied)
}

func TestValidateSection_EmptyAllRequired(t *testing.T) {
	v := ValidateSection([]string{"CS 12"}, section("S", model.AllRequired()), satisfy.Options{})
	assert.False(t, v.Satisfied)
}

func TestValidateGroup_HonorsPairsOption(t *testing.T) {
	group := threeSections(model.ChooseOneSection())
	opts := satisfy.Options{HonorsPairs: map[string]string{"MATH 1AH": "MATH 1A"}}

	assert.False(t, ValidateGroupWith([]string{"MATH 1AH"}, group, satisfy.Options{}).Satisfied)
	assert.True(t, ValidateGroupWith([]string{"MATH 1AH"}, group, opts).Satisfied)
}

func TestValidateUCCoursesAgainstSections(t *testing.T) {
	group := model.Group{
		Logic: model.ChooseOneSection(),
		Sections: []model.Section{
			section("A", model.AllRequired(),
				req("MATH 19A", course("MATH 1A")),
				req("MATH 19B", course("MATH 1B")),
			),
			section("B", model.AllRequired(),
				req("MATH 19A", course("MATH 1A")),
				req("AM 10", course("MATH 5")),
			),
		},
	}

	id, ok := ValidateUCCoursesAgainstSections([]string{"MATH 19A", "AM 10"}, group, []string{"MATH 1A", "MATH 5"})
	assert.True(t, ok)
	assert.Equal(t, "B", id)

	id, ok = ValidateUCCoursesAgainstSections([]string{"math19a"}, group, []string{"MATH 1A"})
	assert.True(t, ok)
	assert.Equal(t, "A", id, "first qualifying section wins")

	// MATH 19B and AM 10 live in different sections.
	_, ok = ValidateUCCoursesAgainstSections([]string{"MATH 19B", "AM 10"}, group, []string{"MATH 1B", "MATH 5"})
	assert.False(t, ok)

	_, ok = ValidateUCCoursesAgainstSections([]string{"MATH 19A", "MATH 19B"}, group, []string{"MATH 1A"})
	assert.False(t, ok)

	_, ok = ValidateUCCoursesAgainstSections(nil, group, []string{"MATH 1A"})
	assert.False(t, ok)
}

func TestValidateAgreement(t *testing.T) {
	agreement := model.Agreement{
		Major: "Mathematics",
		Groups: []model.Group{
			threeSections(model.AllRequired()),
			threeSections(model.ChooseOneSection()),
		},
	}

	verdicts := ValidateAgreement([]string{"MATH 1A"}, agreement, satisfy.Options{})
	require.Len(t, verdicts, 2)
	assert.False(t, verdicts[0].Satisfied)
	assert.True(t, verdicts[1].Satisfied)
}

func TestCourseReach(t *testing.T) {
	agreement := model.Agreement{Groups: []model.Group{{
		Logic: model.AllRequired(),
		Sections: []model.Section{
			section("A", model.AllRequired(),
				req("MATH 18", model.Or(course("MATH 2B"), model.Course("MATH 2BH", true))),
				req("MATH 20A", model.And(course("MATH 2B"), course("MATH 3A"))),
				req("CSE 8A", course("CS 1")),
			),
		},
	}}}

	reach := CourseReach("math 2b", agreement)
	assert.Equal(t, "MATH 2B", reach.Course)
	assert.Equal(t, []string{"MATH 18"}, reach.Direct)
	assert.Equal(t, []string{"MATH 20A"}, reach.Contributes)

	assert.Empty(t, CourseReach("HIST 17A", agreement).Direct)
}

func TestValidateGroup_Idempotent(t *testing.T) {
	group := threeSections(model.SelectN(2))
	ccc := []string{"MATH 1A", "MATH 1C"}
	assert.Equal(t, ValidateGroup(ccc, group), ValidateGroup(ccc, group))
}
