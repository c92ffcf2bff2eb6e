package model

import "time"

// Report is the complete advising result for one student and one agreement
type Report struct {
	RunID       string    `json:"run_id"`               // Unique id of this evaluation
	Student     string    `json:"student,omitempty"`    // Profile name
	Major       string    `json:"major"`                // Major of the agreement
	From        string    `json:"from,omitempty"`       // Community college
	To          string    `json:"to,omitempty"`         // University
	SourceURL   string    `json:"source_url,omitempty"` // Where the agreement was loaded from
	GeneratedAt time.Time `json:"generated_at"`         // When the evaluation ran

	Courses []string       `json:"courses"` // Normalized completed courses
	Groups  []GroupVerdict `json:"groups"`  // One verdict per requirement group

	Satisfied bool        `json:"satisfied"`           // Every group satisfied
	Redundant [][2]string `json:"redundant,omitempty"` // Honors/non-honors duplicates
	Signals   []Signal    `json:"signals,omitempty"`   // Diagnostics about data and selection

	Narrative *Narrative `json:"narrative,omitempty"` // Optional prose, never affects verdicts
}

// Signal is a diagnostic note attached to a report
type Signal struct {
	Type        SignalType     `json:"type"`
	Severity    SignalSeverity `json:"severity"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalRedundantCourses SignalType = "redundant_courses" // Honors and non-honors both selected
	SignalHonorsOnly       SignalType = "honors_only"       // Requirement accepts only honors sections
	SignalNoArticulation   SignalType = "no_articulation"   // Must be completed at the university
	SignalUnparseable      SignalType = "unparseable"       // Upstream data could not be interpreted
	SignalMalformed        SignalType = "malformed"         // Structure incompatible with its logic kind
	SignalUnknownCourse    SignalType = "unknown_course"    // Selected course appears nowhere in the agreement
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Narrative contains optional LLM-generated prose.
// It is produced after evaluation and never changes a verdict.
type Narrative struct {
	Enabled       bool     `json:"enabled"`
	Provider      string   `json:"provider,omitempty"` // openai, ollama
	Model         string   `json:"model,omitempty"`    // Model name
	StrictCourses bool     `json:"strict_courses"`     // Whether the course allow-list was enforced
	Text          string   `json:"text,omitempty"`     // Corrected prose
	Warnings      []string `json:"warnings,omitempty"` // Corrections applied, rejected mentions
}

// Profile is a student's completed coursework and target agreement
type Profile struct {
	Name        string            `yaml:"name" json:"name"`
	Courses     []string          `yaml:"courses" json:"courses"`
	Agreement   string            `yaml:"agreement" json:"agreement"` // File path or http(s) URL
	HonorsPairs map[string]string `yaml:"honors_pairs,omitempty" json:"honors_pairs,omitempty"`
}
