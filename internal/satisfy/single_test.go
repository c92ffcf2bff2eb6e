package satisfy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/transfermatch/internal/model"
)

func TestValidateSingle_Leaf(t *testing.T) {
	valid, matches, misses := ValidateSingle("math1a", leaf("MATH 1A"))
	assert.True(t, valid)
	assert.Equal(t, []string{"MATH 1A"}, matches)
	assert.Empty(t, misses)

	valid, matches, misses = ValidateSingle("MATH 1A", honorsLeaf("MATH 1AH"))
	assert.False(t, valid)
	assert.Empty(t, matches)
	assert.Equal(t, []string{"MATH 1AH (Honors)"}, misses)
}

func TestValidateSingle_FlatOr(t *testing.T) {
	block := model.Or(leaf("MATH 1A"), leaf("MATH 2A"), honorsLeaf("MATH 3A"))

	valid, matches, misses := ValidateSingle("BIO 1A", block)
	assert.False(t, valid)
	assert.Equal(t, []string{}, matches)
	assert.Equal(t, []string{"MATH 1A", "MATH 2A", "MATH 3A (Honors)"}, misses)

	valid, matches, misses = ValidateSingle("math 2a", block)
	assert.True(t, valid)
	assert.Equal(t, []string{"MATH 2A"}, matches)
	assert.Empty(t, misses)
}

func TestValidateSingle_OrOfAndBranches(t *testing.T) {
	valid, matches, misses := ValidateSingle("MATH 1A", calculusBlock())
	assert.False(t, valid)
	assert.Equal(t, []string{"MATH 1A"}, matches)
	assert.Contains(t, misses, "PHYS 1A")
	assert.NotContains(t, misses, "CHEM 1A")

	valid, matches, misses = ValidateSingle("CHEM 1A", calculusBlock())
	assert.True(t, valid)
	assert.Equal(t, []string{"CHEM 1A"}, matches)
	assert.Empty(t, misses)

	valid, matches, misses = ValidateSingle("BIO 1A", calculusBlock())
	assert.False(t, valid)
	assert.Empty(t, matches)
	assert.Equal(t, []string{"MATH 1A", "PHYS 1A", "CHEM 1A"}, misses)
}

func TestValidateSingle_FirstBranchWins(t *testing.T) {
	block := model.Or(
		model.And(leaf("MATH 1A"), leaf("MATH 1B")),
		model.And(leaf("MATH 1A")),
	)
	valid, _, misses := ValidateSingle("MATH 1A", block)
	assert.False(t, valid)
	assert.Equal(t, []string{"MATH 1B"}, misses)
}

func TestValidateSingle_TopLevelAnd(t *testing.T) {
	node := model.And(leaf("CS 1"), leaf("CS 2"))

	valid, matches, misses := ValidateSingle("CS 2", node)
	assert.False(t, valid)
	assert.Equal(t, []string{"CS 2"}, matches)
	assert.Equal(t, []string{"CS 1"}, misses)
}

func TestValidateSingle_DeepBranchesFlattened(t *testing.T) {
	block := model.Or(
		model.And(leaf("CS 1"), model.Or(leaf("CS 2"), leaf("CS 3"))),
		leaf("CS 9"),
	)
	valid, matches, misses := ValidateSingle("CS 3", block)
	assert.False(t, valid)
	assert.Equal(t, []string{"CS 3"}, matches)
	assert.Equal(t, []string{"CS 1", "CS 2"}, misses)
}

func TestValidateSingle_Degenerate(t *testing.T) {
	for _, node := range []model.LogicNode{
		model.NoArticulation(),
		model.Unparseable("bad"),
		{},
	} {
		valid, matches, misses := ValidateSingle("N/A", node)
		assert.False(t, valid)
		assert.Empty(t, matches)
		assert.Empty(t, misses)
	}

	valid, _, _ := ValidateSingle("  ", leaf("MATH 1A"))
	assert.False(t, valid)
}

func TestSingle(t *testing.T) {
	r := Single("chem1a", calculusBlock())
	assert.Equal(t, model.SingleResult{
		Course:  "CHEM 1A",
		Valid:   true,
		Matches: []string{"CHEM 1A"},
		Misses:  []string{},
	}, r)
}

func TestSummarize(t *testing.T) {
	s := Summarize(calculusBlock())
	assert.Equal(t, model.LogicSummary{
		OptionCount:        2,
		MultiCourseOptions: 1,
		MinCoursesRequired: 1,
	}, s)

	s = Summarize(model.Or(leaf("MATH 1A"), honorsLeaf("MATH 1AH")))
	assert.Equal(t, 2, s.OptionCount)
	assert.True(t, s.HasHonorsOptions)
	assert.False(t, s.HonorsRequired)

	s = Summarize(model.And(leaf("CS 1"), model.Or(leaf("CS 2"), model.And(leaf("CS 3"), leaf("CS 4")))))
	assert.Equal(t, 1, s.OptionCount)
	assert.Equal(t, 1, s.MultiCourseOptions)
	assert.Equal(t, 2, s.MinCoursesRequired)

	s = Summarize(model.NoArticulation())
	assert.True(t, s.NoArticulation)
	assert.Zero(t, s.OptionCount)
	assert.Zero(t, s.MinCoursesRequired)
}
