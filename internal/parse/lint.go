package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/transfermatch/internal/model"
)

// Issue is one problem found in an agreement
type Issue struct {
	Path     string               `json:"path"`
	Severity model.SignalSeverity `json:"severity"`
	Message  string               `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Path, i.Message)
}

// LintDocument runs every check on a raw agreement document: schema
// violations, construction errors and structural flags. The error is
// non-nil only when the document is not JSON at all.
func (p *Parser) LintDocument(data []byte) (model.Agreement, []Issue, error) {
	var issues []Issue

	if err := ValidateSchema(data); err != nil {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return model.Agreement{}, nil, err
		}
		for _, fe := range ve.Errors {
			issues = append(issues, Issue{Path: fe.Field, Severity: model.SeverityWarning, Message: "schema: " + fe.Message})
		}
	}

	a, err := p.DecodeAgreement(data)
	if err != nil && len(ParseErrors(err)) == 0 {
		return model.Agreement{}, issues, err
	}
	for _, pe := range ParseErrors(err) {
		issues = append(issues, Issue{Path: pe.Path, Severity: model.SeverityCritical, Message: pe.Message})
	}

	// Unparseable nodes were already reported with their exact path.
	for _, issue := range Lint(a) {
		if !strings.HasPrefix(issue.Message, unparseablePrefix) {
			issues = append(issues, issue)
		}
	}
	return a, issues, nil
}

const unparseablePrefix = "unparseable: "

// Lint reports structural problems that evaluation tolerates but that
// usually mean the data is wrong: empty groups, logic kinds used where they
// have no meaning, and select_n counts that can never be met
func Lint(a model.Agreement) []Issue {
	var issues []Issue
	add := func(path string, sev model.SignalSeverity, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	if len(a.Groups) == 0 {
		add("groups", model.SeverityWarning, "agreement has no groups")
	}

	for gi, g := range a.Groups {
		gpath := fmt.Sprintf("groups[%d]", gi)
		checkLogic(g.Logic, len(g.Sections), "sections", gpath+".group_logic_type", add)
		if len(g.Sections) == 0 {
			add(gpath+".sections", model.SeverityWarning, "group has no sections")
		}

		for si, s := range g.Sections {
			spath := fmt.Sprintf("%s.sections[%d]", gpath, si)
			if s.Logic.Kind == model.LogicChooseOneSection {
				add(spath+".section_logic_type", model.SeverityCritical, "%s is not valid inside a section", model.WireChooseOneSection)
			} else {
				checkLogic(s.Logic, len(s.Courses), "courses", spath+".section_logic_type", add)
			}
			if len(s.Courses) == 0 {
				add(spath+".uc_courses", model.SeverityWarning, "section has no UC courses")
			}

			for ri, r := range s.Courses {
				lintNode(r.Logic, fmt.Sprintf("%s.uc_courses[%d].logic_block", spath, ri), add)
			}
		}
	}
	return issues
}

func checkLogic(l model.SectionLogic, members int, noun, path string, add func(string, model.SignalSeverity, string, ...any)) {
	switch l.Kind {
	case model.LogicUnknown:
		add(path, model.SeverityCritical, "unknown logic type")
	case model.LogicSelectN:
		if l.N < 1 {
			add(path, model.SeverityCritical, "%s needs n_courses >= 1, got %d", model.WireSelectNCourses, l.N)
		} else if l.N > members {
			add(path, model.SeverityCritical, "%s(%d) can never be met with %d %s", model.WireSelectNCourses, l.N, members, noun)
		}
	}
}

func lintNode(node model.LogicNode, path string, add func(string, model.SignalSeverity, string, ...any)) {
	switch node.Kind() {
	case model.KindUnparseable:
		add(path, model.SeverityCritical, unparseablePrefix+"%s", node.Reason())
	case model.KindNone:
		add(path, model.SeverityCritical, "missing logic")
	case model.KindAnd, model.KindOr:
		if node.Len() == 0 {
			sev := model.SeverityWarning
			if node.Kind() == model.KindOr {
				sev = model.SeverityCritical
			}
			add(path, sev, "empty %s group", node.Kind())
			return
		}
		for i, child := range node.Children() {
			lintNode(child, fmt.Sprintf("%s.courses[%d]", path, i), add)
		}
	}
}
