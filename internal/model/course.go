package model

// NoArticulationCode is the course_letters placeholder for a requirement with
// no community-college equivalent
const NoArticulationCode = "N/A"

// CourseOption is a single community-college course inside a logic tree
type CourseOption struct {
	Code        string `json:"course_letters"`      // Canonical code, e.g. "MATH 1AH"
	Honors      bool   `json:"honors"`              // Honors section
	Title       string `json:"title,omitempty"`     // Catalog title
	DisplayName string `json:"name,omitempty"`      // Display name as scraped
	ID          string `json:"course_id,omitempty"` // Opaque upstream identifier
}

// NewCourse creates a course option with a normalized code
func NewCourse(code string, honors bool) CourseOption {
	return CourseOption{Code: NormalizeCode(code), Honors: honors}
}

// IsNoArticulation reports whether this is the "N/A" placeholder
func (c CourseOption) IsNoArticulation() bool {
	return NormalizeCode(c.Code) == NoArticulationCode
}

// Display renders the code, marking honors sections
func (c CourseOption) Display() string {
	if c.Honors {
		return c.Code + " (Honors)"
	}
	return c.Code
}
