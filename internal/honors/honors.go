// Package honors resolves honors/non-honors equivalence between course codes
// and detects redundant selections.
package honors

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/transfermatch/internal/model"
)

// IsHonorsPair reports whether a and b are direct alternatives of the same OR
// node, one an honors section and the other not. A direct alternative is a
// leaf child or an AND child holding exactly one leaf. Order of a and b does
// not matter.
func IsHonorsPair(orNode model.LogicNode, a, b string) bool {
	if orNode.Kind() != model.KindOr {
		return false
	}

	na, nb := model.NormalizeCode(a), model.NormalizeCode(b)
	if na == "" || nb == "" || na == nb {
		return false
	}

	var foundA, foundB, honorsA, honorsB bool
	for i := 0; i < orNode.Len(); i++ {
		c, ok := orNode.Child(i).SoleLeaf()
		if !ok || c.IsNoArticulation() {
			continue
		}
		switch model.NormalizeCode(c.Code) {
		case na:
			if !foundA {
				foundA, honorsA = true, c.Honors
			}
		case nb:
			if !foundB {
				foundB, honorsB = true, c.Honors
			}
		}
	}

	return foundA && foundB && honorsA != honorsB
}

// PairInTree reports whether any OR node of the tree holds a and b as an
// honors pair
func PairInTree(node model.LogicNode, a, b string) bool {
	found := false
	node.Walk(func(n model.LogicNode) bool {
		if found {
			return false
		}
		if IsHonorsPair(n, a, b) {
			found = true
			return false
		}
		return true
	})
	return found
}

// SuffixPair reports whether two codes follow the honors naming pattern:
// same subject prefix, and bodies that differ only by one trailing "H"
// ("MATH 1A" and "MATH 1AH"). The shorter body must contain a digit so
// that plain letters are not mistaken for a course number.
func SuffixPair(a, b string) bool {
	pa, ba, okA := model.SplitCode(a)
	pb, bb, okB := model.SplitCode(b)
	if !okA || !okB || pa != pb || ba == bb {
		return false
	}
	if len(ba) > len(bb) {
		ba, bb = bb, ba
	}
	return bb == ba+"H" && strings.IndexFunc(ba, unicode.IsDigit) >= 0
}

// DetectRedundant returns every unordered pair of distinct selected courses
// that are honors and non-honors versions of the same course. Evidence is
// either the tree (IsHonorsPair on any OR node) or the suffix pattern; node
// may be the zero LogicNode when no tree is available. Each pair is ordered
// lexically and the result is sorted without duplicates.
func DetectRedundant(selected []string, node model.LogicNode) [][2]string {
	codes := model.NormalizeCodes(selected)
	seen := make(map[[2]string]bool)
	var pairs [][2]string

	for i := 0; i < len(codes); i++ {
		for j := i + 1; j < len(codes); j++ {
			a, b := codes[i], codes[j]
			if !SuffixPair(a, b) && !PairInTree(node, a, b) {
				continue
			}
			if b < a {
				a, b = b, a
			}
			key := [2]string{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, key)
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

// ExplainEquivalence describes two codes as versions of the same course.
// The honors code is the one carrying the extra trailing "H"; when the
// pattern does not apply the codes are named in the given order.
func ExplainEquivalence(a, b string) string {
	na, nb := model.NormalizeCode(a), model.NormalizeCode(b)
	nonHonors, honors := na, nb
	if SuffixPair(na, nb) && len(na) > len(nb) {
		nonHonors, honors = nb, na
	}
	return fmt.Sprintf("%s and %s are equivalent (non-honors and honors versions of the same course). Only one of them is needed.",
		nonHonors, honors)
}

// RequiresHonorsOnly reports whether every alternative of the tree accepts
// only honors sections. NoArticulation, unparseable and empty nodes are
// never honors-only.
func RequiresHonorsOnly(node model.LogicNode) bool {
	switch node.Kind() {
	case model.KindLeaf:
		c, _ := node.Course()
		return !c.IsNoArticulation() && c.Honors
	case model.KindAnd, model.KindOr:
		if node.Len() == 0 {
			return false
		}
		for i := 0; i < node.Len(); i++ {
			if !RequiresHonorsOnly(node.Child(i)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// RequiresHonorsOnlyAny reports whether any of the nodes is honors-only.
// Unlike the single-node form this is a disjunction: one honors-only
// requirement is enough to flag the list.
func RequiresHonorsOnlyAny(nodes []model.LogicNode) bool {
	for _, n := range nodes {
		if RequiresHonorsOnly(n) {
			return true
		}
	}
	return false
}

// Split returns the honors and non-honors course codes of a tree, each
// deduplicated in first-seen order
func Split(node model.LogicNode) (honorsCodes, regularCodes []string) {
	type key struct {
		code   string
		honors bool
	}
	seen := make(map[key]bool)
	for _, c := range node.Leaves() {
		k := key{c.Code, c.Honors}
		if c.IsNoArticulation() || seen[k] {
			continue
		}
		seen[k] = true
		if c.Honors {
			honorsCodes = append(honorsCodes, c.Code)
		} else {
			regularCodes = append(regularCodes, c.Code)
		}
	}
	return honorsCodes, regularCodes
}
