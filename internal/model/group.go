package model

import "fmt"

// LogicKind says how the members of a group or section combine
type LogicKind int

const (
	LogicUnknown          LogicKind = iota // Not set or not recognized
	LogicAllRequired                       // Every member must be satisfied
	LogicChooseOneSection                  // Exactly one alternative plan is followed
	LogicSelectN                           // At least N members must be satisfied
)

// Wire names used by the scraped articulation JSON
const (
	WireAllRequired      = "all_required"
	WireChooseOneSection = "choose_one_section"
	WireSelectNCourses   = "select_n_courses"
)

// SectionLogic pairs a LogicKind with its N for LogicSelectN
type SectionLogic struct {
	Kind LogicKind `json:"kind"`
	N    int       `json:"n,omitempty"`
}

// AllRequired is the logic where every member must hold
func AllRequired() SectionLogic { return SectionLogic{Kind: LogicAllRequired} }

// ChooseOneSection is the logic where one alternative section is followed
func ChooseOneSection() SectionLogic { return SectionLogic{Kind: LogicChooseOneSection} }

// SelectN is the logic where at least n members must hold
func SelectN(n int) SectionLogic { return SectionLogic{Kind: LogicSelectN, N: n} }

func (l SectionLogic) String() string {
	switch l.Kind {
	case LogicAllRequired:
		return WireAllRequired
	case LogicChooseOneSection:
		return WireChooseOneSection
	case LogicSelectN:
		return fmt.Sprintf("%s(%d)", WireSelectNCourses, l.N)
	default:
		return "unknown"
	}
}

// UcCourseRequirement is one university course and the community-college
// logic that articulates to it
type UcCourseRequirement struct {
	ID    string    `json:"uc_course_id"`
	Title string    `json:"uc_course_title,omitempty"`
	Units *float64  `json:"units,omitempty"`
	Logic LogicNode `json:"logic_block"`
}

// Section is one plan inside a group
type Section struct {
	ID      string                `json:"section_id"`
	Title   string                `json:"section_title,omitempty"`
	Logic   SectionLogic          `json:"section_logic"`
	Courses []UcCourseRequirement `json:"uc_courses"`
}

// Group is a major requirement made of sections
type Group struct {
	ID       string       `json:"group_id"`
	Title    string       `json:"group_title,omitempty"`
	Logic    SectionLogic `json:"group_logic"`
	Sections []Section    `json:"sections"`
}

// Agreement is a full articulation agreement for one major
type Agreement struct {
	Major         string  `json:"major"`
	From          string  `json:"from,omitempty"`
	To            string  `json:"to,omitempty"`
	SourceURL     string  `json:"source_url,omitempty"`
	CatalogYear   string  `json:"catalog_year,omitempty"`
	GeneralAdvice string  `json:"general_advice,omitempty"`
	Groups        []Group `json:"groups"`
}

// FindRequirement looks up a UC course anywhere in the agreement
func (a Agreement) FindRequirement(ucCourse string) (UcCourseRequirement, bool) {
	for _, g := range a.Groups {
		for _, s := range g.Sections {
			for _, r := range s.Courses {
				if SameCode(r.ID, ucCourse) {
					return r, true
				}
			}
		}
	}
	return UcCourseRequirement{}, false
}

// Requirements returns every UC course requirement in document order
func (a Agreement) Requirements() []UcCourseRequirement {
	var out []UcCourseRequirement
	for _, g := range a.Groups {
		for _, s := range g.Sections {
			out = append(out, s.Courses...)
		}
	}
	return out
}
