package model

// Option is the outcome for one alternative of an OR requirement
type Option struct {
	Label     string   `json:"label"`             // "Option A", "Option B", ...
	Satisfied bool     `json:"satisfied"`         // Every course of the alternative is complete
	Matched   []string `json:"matched,omitempty"` // Completed courses that count toward it
	Missing   []string `json:"missing,omitempty"` // Requirements still needed, rendered
}

// Partial reports whether the option has some but not all courses
func (o Option) Partial() bool {
	return !o.Satisfied && len(o.Matched) > 0
}

// Explanation is the structured account of one satisfaction query
type Explanation struct {
	Satisfied      bool        `json:"satisfied"`
	NoArticulation bool        `json:"no_articulation,omitempty"`
	Unparseable    bool        `json:"unparseable,omitempty"`
	HonorsRequired bool        `json:"honors_required,omitempty"`
	Options        []Option    `json:"options,omitempty"`
	Matched        []string    `json:"matched,omitempty"`
	Missing        []string    `json:"missing,omitempty"`
	Redundant      [][2]string `json:"redundant,omitempty"`
	Summary        string      `json:"summary,omitempty"`
}

// SatisfiedOptions returns the alternatives that are fully complete
func (e Explanation) SatisfiedOptions() []Option {
	var out []Option
	for _, o := range e.Options {
		if o.Satisfied {
			out = append(out, o)
		}
	}
	return out
}

// PartialOptions returns every alternative with some progress, in order
func (e Explanation) PartialOptions() []Option {
	var out []Option
	for _, o := range e.Options {
		if o.Partial() {
			out = append(out, o)
		}
	}
	return out
}

// SingleResult answers "does this one course help?"
type SingleResult struct {
	Course  string   `json:"course"`
	Valid   bool     `json:"valid"`
	Matches []string `json:"matches"`
	Misses  []string `json:"misses"`
}

// RequirementVerdict is the outcome for one UC course inside a section
type RequirementVerdict struct {
	UCCourse    string      `json:"uc_course"`
	Title       string      `json:"title,omitempty"`
	Satisfied   bool        `json:"satisfied"`
	Explanation Explanation `json:"explanation"`
}

// SectionVerdict is the outcome for one section
type SectionVerdict struct {
	SectionID      string               `json:"section_id"`
	Title          string               `json:"title,omitempty"`
	Logic          SectionLogic         `json:"logic"`
	Satisfied      bool                 `json:"satisfied"`
	Malformed      bool                 `json:"malformed,omitempty"`
	Reason         string               `json:"reason,omitempty"`
	SatisfiedCount int                  `json:"satisfied_count"`
	RequiredCount  int                  `json:"required_count"`
	Requirements   []RequirementVerdict `json:"requirements"`
}

// SatisfiedCourses lists the UC courses satisfied in this section
func (v SectionVerdict) SatisfiedCourses() []string {
	var out []string
	for _, r := range v.Requirements {
		if r.Satisfied {
			out = append(out, r.UCCourse)
		}
	}
	return out
}

// UnsatisfiedCourses lists the UC courses not yet satisfied in this section
func (v SectionVerdict) UnsatisfiedCourses() []string {
	var out []string
	for _, r := range v.Requirements {
		if !r.Satisfied {
			out = append(out, r.UCCourse)
		}
	}
	return out
}

// GroupVerdict is the outcome for one group
type GroupVerdict struct {
	GroupID           string           `json:"group_id"`
	Title             string           `json:"title,omitempty"`
	Logic             SectionLogic     `json:"logic"`
	Satisfied         bool             `json:"satisfied"`
	Malformed         bool             `json:"malformed,omitempty"`
	Reason            string           `json:"reason,omitempty"`
	SatisfiedCount    int              `json:"satisfied_count"`
	RequiredCount     int              `json:"required_count"`
	SatisfiedSections []string         `json:"satisfied_sections,omitempty"`
	Sections          []SectionVerdict `json:"sections"`
}

// CourseReach lists the UC courses a single CCC course satisfies on its own
// and the ones it only contributes to as part of a combination
type CourseReach struct {
	Course      string   `json:"course"`
	Direct      []string `json:"direct,omitempty"`
	Contributes []string `json:"contributes,omitempty"`
}

// LogicSummary describes the shape of one requirement tree
type LogicSummary struct {
	OptionCount        int  `json:"option_count"`         // Alternatives at the top level
	MultiCourseOptions int  `json:"multi_course_options"` // Alternatives needing more than one course
	HonorsRequired     bool `json:"honors_required"`      // Only honors sections are accepted
	HasHonorsOptions   bool `json:"has_honors_options"`   // Some alternative involves an honors section
	MinCoursesRequired int  `json:"min_courses_required"` // Fewest courses that can satisfy it
	NoArticulation     bool `json:"no_articulation"`      // Must be completed at the university
}
