package honors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/transfermatch/internal/model"
)

func mathBlock() model.LogicNode {
	return model.Or(
		model.And(model.Course("MATH 1A", false)),
		model.And(model.Course("MATH 1AH", true)),
	)
}

func TestIsHonorsPair(t *testing.T) {
	block := mathBlock()

	assert.True(t, IsHonorsPair(block, "MATH 1A", "MATH 1AH"))
	assert.True(t, IsHonorsPair(block, "math1ah", "Math 1A"), "case and order must not matter")
	assert.False(t, IsHonorsPair(block, "MATH 1A", "CHEM 1A"))
	assert.False(t, IsHonorsPair(block, "MATH 1A", "MATH 1A"))
	assert.False(t, IsHonorsPair(model.And(block.Children()...), "MATH 1A", "MATH 1AH"), "only OR nodes carry pairs")
}

func TestIsHonorsPair_BothNonHonors(t *testing.T) {
	block := model.Or(model.Course("MATH 1A", false), model.Course("CHEM 1A", false))
	assert.False(t, IsHonorsPair(block, "MATH 1A", "CHEM 1A"))
}

func TestIsHonorsPair_IgnoresMultiCourseBranches(t *testing.T) {
	block := model.Or(
		model.And(model.Course("MATH 1A", false), model.Course("PHYS 1A", false)),
		model.Course("MATH 1AH", true),
	)
	assert.False(t, IsHonorsPair(block, "MATH 1A", "MATH 1AH"))
}

func TestSuffixPair(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"MATH 1A", "MATH 1AH", true},
		{"math1ah", "MATH 1A", true},
		{"CHEM 1A", "CHEM 1B", false},
		{"CHEM 1A", "PHYS 1AH", false},
		{"MATH 1A", "MATH 1A", false},
		{"MATH 1A", "MATH 1AHH", false},
		{"ENGL C1000", "ENGL C1000H", true},
		{"N/A", "N/AH", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, SuffixPair(tt.a, tt.b))
		})
	}
}

func TestDetectRedundant_PatternFallback(t *testing.T) {
	pairs := DetectRedundant([]string{"MATH 1A", "MATH 1AH"}, model.Or())
	assert.Equal(t, [][2]string{{"MATH 1A", "MATH 1AH"}}, pairs)

	pairs = DetectRedundant([]string{"MATH 1A", "MATH 1AH"}, model.Course("HIST 17A", false))
	assert.Equal(t, [][2]string{{"MATH 1A", "MATH 1AH"}}, pairs)

	pairs = DetectRedundant([]string{"MATH 1AH", "math1a"}, model.LogicNode{})
	assert.Equal(t, [][2]string{{"MATH 1A", "MATH 1AH"}}, pairs)
}

func TestDetectRedundant_TwoPairsAnyOrder(t *testing.T) {
	want := [][2]string{{"CHEM 1A", "CHEM 1AH"}, {"PHYS 1A", "PHYS 1AH"}}
	node := model.Or(model.Course("CHEM 1A", false), model.Course("CHEM 1AH", true))

	assert.Equal(t, want, DetectRedundant([]string{"CHEM 1A", "CHEM 1AH", "PHYS 1A", "PHYS 1AH"}, node))
	assert.Equal(t, want, DetectRedundant([]string{"PHYS 1AH", "CHEM 1AH", "PHYS 1A", "CHEM 1A"}, node))
}

func TestDetectRedundant_TreeEvidence(t *testing.T) {
	// Codes that do not follow the suffix pattern are still paired when the
	// tree lists them as honors alternatives of one another.
	node := model.And(
		model.Course("ENGL 1A", false),
		model.Or(model.Course("MATH 3A", false), model.Course("MATH 3AX", true)),
	)
	pairs := DetectRedundant([]string{"MATH 3A", "MATH 3AX", "ENGL 1A"}, node)
	assert.Equal(t, [][2]string{{"MATH 3A", "MATH 3AX"}}, pairs)
}

func TestDetectRedundant_NoPairs(t *testing.T) {
	assert.Empty(t, DetectRedundant([]string{"MATH 1A", "MATH 1A", "math 1a"}, mathBlock()))
	assert.Empty(t, DetectRedundant([]string{"MATH 1A", "CHEM 1A"}, mathBlock()))
	assert.Empty(t, DetectRedundant(nil, mathBlock()))
}

func TestExplainEquivalence(t *testing.T) {
	for _, args := range [][2]string{{"MATH 1A", "MATH 1AH"}, {"math1ah", "math 1a"}} {
		text := ExplainEquivalence(args[0], args[1])
		assert.True(t, strings.HasPrefix(text, "MATH 1A and MATH 1AH"), text)
		assert.Contains(t, text, "equivalent")
		assert.Contains(t, text, "honors")
		assert.Contains(t, text, "non-honors")
	}
}

func TestRequiresHonorsOnly(t *testing.T) {
	honorsOnly := model.Or(model.Course("MATH 1AH", true), model.And(model.Course("MATH 2AH", true)))

	tests := []struct {
		name string
		node model.LogicNode
		want bool
	}{
		{"honors leaf", model.Course("MATH 1AH", true), true},
		{"regular leaf", model.Course("MATH 1A", false), false},
		{"all honors", honorsOnly, true},
		{"mixed", mathBlock(), false},
		{"and with one regular", model.And(model.Course("MATH 1AH", true), model.Course("PHYS 1A", false)), false},
		{"empty group", model.And(), false},
		{"no articulation", model.NoArticulation(), false},
		{"unparseable", model.Unparseable("bad"), false},
		{"absent", model.LogicNode{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiresHonorsOnly(tt.node))
		})
	}
}

func TestRequiresHonorsOnlyAny(t *testing.T) {
	regular := model.Course("MATH 1A", false)
	honorsLeaf := model.Course("MATH 1AH", true)

	assert.True(t, RequiresHonorsOnlyAny([]model.LogicNode{regular, honorsLeaf}))
	assert.False(t, RequiresHonorsOnlyAny([]model.LogicNode{regular, mathBlock()}))
	assert.False(t, RequiresHonorsOnlyAny(nil))
	// The composite form of the same courses is not honors-only.
	assert.False(t, RequiresHonorsOnly(model.And(regular, honorsLeaf)))
}

func TestSplit(t *testing.T) {
	node := model.Or(
		model.And(model.Course("MATH 1A", false), model.Course("PHYS 1A", false)),
		model.And(model.Course("MATH 1AH", true), model.Course("PHYS 1A", false)),
		model.NoArticulation(),
	)
	honorsCodes, regular := Split(node)
	assert.Equal(t, []string{"MATH 1AH"}, honorsCodes)
	assert.Equal(t, []string{"MATH 1A", "PHYS 1A"}, regular)
}
