package explain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/transfermatch/internal/combo"
	"github.com/ppiankov/transfermatch/internal/model"
	"github.com/ppiankov/transfermatch/internal/satisfy"
)

func TestCorrect_AloneOnlySatisfies(t *testing.T) {
	out := Correct("No, MATH 2BH alone only satisfies MATH 18.")

	assert.True(t, strings.HasPrefix(out, HeaderYes), out)
	assert.Contains(t, out, "MATH 2BH")
	assert.Contains(t, out, "MATH 18")
	assert.Contains(t, out, "satisfies")
	assert.NotContains(t, out, "No,")
}

func TestCorrect_Variants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bold with cross mark",
			in:   "❌ No, **MATH 2BH** alone only satisfies **MATH 18**.",
			want: "✅ Yes, **MATH 2BH** satisfies **MATH 18**.",
		},
		{
			name: "embedded in prose",
			in:   "Good question.\nNo, CHEM 1A alone only satisfies CHEM 2A.\nTake CHEM 1B next.",
			want: "Good question.\n✅ Yes, **CHEM 1A** satisfies **CHEM 2A**.\nTake CHEM 1B next.",
		},
		{
			name: "untouched",
			in:   "❌ No, MATH 1A does not satisfy MATH 20A.",
			want: "❌ No, MATH 1A does not satisfy MATH 20A.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Correct(tt.in))
		})
	}
}

func TestCorrect_Idempotent(t *testing.T) {
	once := Correct("No, MATH 2BH alone only satisfies MATH 18.")
	assert.Equal(t, once, Correct(once))
}

func TestWithHeader(t *testing.T) {
	assert.Equal(t, "✅ Yes\n\nbody", WithHeader(true, "body"))
	assert.Equal(t, "❌ No\n\nbody", WithHeader(false, "  body\n"))
	assert.Equal(t, "❌ No", WithHeader(false, ""))
	assert.Equal(t, "✅ Yes, done.", WithHeader(false, "✅ Yes, done."))
}

func calculusBlock() model.LogicNode {
	return model.Or(
		model.And(model.Course("MATH 1A", false), model.Course("PHYS 1A", false)),
		model.And(model.Course("CHEM 1A", false)),
		model.And(model.Course("MATH 1A", false), model.Course("MATH 1B", false)),
	)
}

func TestFinalize_ListsEveryPartialOption(t *testing.T) {
	_, e := satisfy.Explain(calculusBlock(), []string{"MATH 1A"}, satisfy.Options{})
	e = Finalize(e)

	assert.True(t, strings.HasPrefix(e.Summary, HeaderNo), e.Summary)
	assert.Contains(t, e.Summary, "Option A: completed MATH 1A; still needed PHYS 1A.")
	assert.Contains(t, e.Summary, "Option C: completed MATH 1A; still needed MATH 1B.")
	assert.NotContains(t, e.Summary, "Option B")
	assert.NotContains(t, e.Summary, "%")
}

func TestFinalize_Satisfied(t *testing.T) {
	_, e := satisfy.Explain(calculusBlock(), []string{"CHEM 1A"}, satisfy.Options{})
	e = Finalize(e)

	assert.Equal(t, "✅ Yes\n\nSatisfied by Option B: CHEM 1A.", e.Summary)
}

func TestFinalize_SingleAlternative(t *testing.T) {
	node := model.And(model.Course("MATH 1A", false), model.Course("MATH 1B", false))
	_, e := satisfy.Explain(node, []string{"MATH 1A"}, satisfy.Options{})
	e = Finalize(e)

	assert.Contains(t, e.Summary, "the required courses: completed MATH 1A; still needed MATH 1B.")
}

func TestFinalize_NothingMatched(t *testing.T) {
	_, e := satisfy.Explain(calculusBlock(), []string{"HIST 17A"}, satisfy.Options{})
	e = Finalize(e)

	assert.Contains(t, e.Summary, "None of the completed courses")
	assert.Contains(t, e.Summary, "Needed: MATH 1A; PHYS 1A; CHEM 1A; MATH 1B.")
}

func TestFinalize_NotesAndSpecialCases(t *testing.T) {
	node := model.Or(model.Course("MATH 1A", false), model.Course("MATH 1AH", true))
	_, e := satisfy.Explain(node, []string{"MATH 1A", "MATH 1AH"}, satisfy.Options{DetectRedundant: true})
	e = Finalize(e)
	assert.True(t, strings.HasPrefix(e.Summary, HeaderYes))
	assert.Contains(t, e.Summary, "Note: MATH 1A and MATH 1AH are equivalent")

	_, e = satisfy.Explain(model.NoArticulation(), nil, satisfy.Options{})
	e = Finalize(e)
	assert.True(t, strings.HasPrefix(e.Summary, HeaderNo))
	assert.Contains(t, e.Summary, "completed at the university")

	_, e = satisfy.Explain(model.Course("MATH 1AH", true), nil, satisfy.Options{})
	assert.Contains(t, Finalize(e).Summary, "Only honors sections")
}

func TestRenderLogic(t *testing.T) {
	node := model.Or(
		model.And(model.Course("MATH 1A", false), model.Course("PHYS 1A", false)),
		model.Course("MATH 1AH", true),
	)
	out := RenderLogic(node)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Option A: MATH 1A and PHYS 1A", lines[0])
	assert.Equal(t, "Option B: MATH 1AH (Honors)", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Note: MATH 1A and MATH 1AH are equivalent"))

	assert.Equal(t, "No course articulated.", RenderLogic(model.NoArticulation()))
	assert.Equal(t, "CHEM 1A", RenderLogic(model.And(model.Course("CHEM 1A", false))))
}

func TestRenderReach(t *testing.T) {
	out := RenderReach(model.CourseReach{Course: "MATH 2BH", Direct: []string{"MATH 18"}, Contributes: []string{"MATH 20A"}})
	assert.True(t, strings.HasPrefix(out, HeaderYes))
	assert.Contains(t, out, "**MATH 2BH** satisfies **MATH 18** on its own.")
	assert.Contains(t, out, "counts toward **MATH 20A**")

	out = RenderReach(model.CourseReach{Course: "HIST 17A"})
	assert.True(t, strings.HasPrefix(out, HeaderNo))
	assert.Contains(t, out, "does not appear")
}

func TestRenderGroup(t *testing.T) {
	group := model.Group{
		ID:    "G1",
		Title: "Calculus",
		Logic: model.ChooseOneSection(),
		Sections: []model.Section{
			{ID: "A", Logic: model.AllRequired(), Courses: []model.UcCourseRequirement{
				{ID: "MATH 19A", Logic: model.Course("MATH 1A", false)},
				{ID: "MATH 19B", Logic: model.Course("MATH 1B", false)},
			}},
			{ID: "B", Logic: model.AllRequired(), Courses: []model.UcCourseRequirement{
				{ID: "AM 15", Logic: model.NoArticulation()},
			}},
		},
	}

	out := RenderGroup(combo.ValidateGroup([]string{"MATH 1A"}, group))

	assert.Contains(t, out, "### Calculus")
	assert.Contains(t, out, "❌ No: one section required, none satisfied")
	assert.Contains(t, out, "**Section A** ✗ (1 of 2)")
	assert.Contains(t, out, "| MATH 19A | ✅ | MATH 1A | - |")
	assert.Contains(t, out, "| MATH 19B | ❌ | - | MATH 1B |")
	assert.Contains(t, out, "| AM 15 | No articulation | - | - |")
}

func TestRenderSingle(t *testing.T) {
	block := model.Or(
		model.And(model.Course("MATH 1A", false), model.Course("MATH 1B", false)),
		model.Course("MATH 2BH", true),
	)

	out := RenderSingle(satisfy.Single("math 2bh", block), "MATH 18")
	assert.Equal(t, "✅ Yes\n\n**MATH 2BH** satisfies **MATH 18**.", out)

	out = RenderSingle(satisfy.Single("MATH 1A", block), "MATH 18")
	assert.True(t, strings.HasPrefix(out, HeaderNo))
	assert.Contains(t, out, "only together with MATH 1B")

	out = RenderSingle(satisfy.Single("CHEM 1A", model.Or(model.Course("MATH 2B", false), model.Course("MATH 2BH", true))), "MATH 18")
	assert.Contains(t, out, "Accepted: MATH 2B, MATH 2BH (Honors).")

	out = RenderSingle(satisfy.Single("CSE 11", model.NoArticulation()), "CSE 20")
	assert.Contains(t, out, "no course articulates")
}
