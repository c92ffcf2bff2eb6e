// Package parse builds agreements and logic trees from the scraped
// articulation JSON. Input it cannot interpret becomes an explicit
// model.Unparseable node plus a *ParseError; it never panics.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/transfermatch/internal/model"
)

// DefaultMaxDepth bounds logic nesting when no limit is configured
const DefaultMaxDepth = 64

// Parser converts raw decoded JSON (maps, slices, scalars) into model types
type Parser struct {
	maxDepth int
}

// NewParser creates a parser that rejects trees nested deeper than maxDepth
func NewParser(maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{maxDepth: maxDepth}
}

// ParseLogicNode builds a logic tree with the default depth limit
func ParseLogicNode(raw any) (model.LogicNode, error) {
	return NewParser(DefaultMaxDepth).LogicNode(raw)
}

// DecodeAgreement parses an agreement document. A JSON syntax error is
// returned alone; otherwise the agreement is always returned, with any
// uninterpretable parts marked and reported in the joined error.
func (p *Parser) DecodeAgreement(data []byte) (model.Agreement, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Agreement{}, fmt.Errorf("decode agreement: %w", err)
	}
	return p.Agreement(raw)
}

// Agreement builds an agreement from a decoded document
func (p *Parser) Agreement(raw any) (model.Agreement, error) {
	doc, ok := raw.(map[string]any)
	if !ok {
		return model.Agreement{}, unparseable("", "agreement must be an object, got %s", typeName(raw))
	}

	a := model.Agreement{
		Major:         str(doc["major"]),
		From:          str(doc["from"]),
		To:            str(doc["to"]),
		SourceURL:     str(doc["source_url"]),
		CatalogYear:   str(doc["catalog_year"]),
		GeneralAdvice: str(doc["general_advice"]),
	}

	rawGroups, ok := doc["groups"].([]any)
	if !ok {
		return a, unparseable("groups", "missing or not a list")
	}

	var errs []error
	for i, rg := range rawGroups {
		g, err := p.group(rg, fmt.Sprintf("groups[%d]", i))
		if err != nil {
			errs = append(errs, err)
		}
		a.Groups = append(a.Groups, g)
	}
	return a, errors.Join(errs...)
}

// Group builds one requirement group
func (p *Parser) Group(raw any) (model.Group, error) {
	return p.group(raw, "")
}

// Section builds one section
func (p *Parser) Section(raw any) (model.Section, error) {
	return p.section(raw, "")
}

// LogicNode builds a logic tree. On failure the returned node (or the
// offending subtree) is model.Unparseable and the error wraps ErrUnparseable.
func (p *Parser) LogicNode(raw any) (model.LogicNode, error) {
	node, errs := p.node(raw, "", 1)
	return node, errors.Join(errs...)
}

func (p *Parser) group(raw any, path string) (model.Group, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Group{}, unparseable(path, "group must be an object, got %s", typeName(raw))
	}

	g := model.Group{
		ID:    str(obj["group_id"]),
		Title: str(obj["group_title"]),
	}

	var errs []error
	logic, err := p.logic(obj["group_logic_type"], obj["n_courses"], join(path, "group_logic_type"), false)
	if err != nil {
		errs = append(errs, err)
	}
	g.Logic = logic

	rawSections, ok := obj["sections"].([]any)
	if !ok {
		errs = append(errs, unparseable(join(path, "sections"), "missing or not a list"))
		return g, errors.Join(errs...)
	}
	for i, rs := range rawSections {
		s, err := p.section(rs, fmt.Sprintf("%s[%d]", join(path, "sections"), i))
		if err != nil {
			errs = append(errs, err)
		}
		g.Sections = append(g.Sections, s)
	}
	return g, errors.Join(errs...)
}

func (p *Parser) section(raw any, path string) (model.Section, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Section{}, unparseable(path, "section must be an object, got %s", typeName(raw))
	}

	s := model.Section{
		ID:    str(obj["section_id"]),
		Title: str(obj["section_title"]),
	}

	var errs []error
	// The scraper omits section_logic_type for plain sections.
	logic, err := p.logic(obj["section_logic_type"], obj["n_courses"], join(path, "section_logic_type"), true)
	if err != nil {
		errs = append(errs, err)
	}
	s.Logic = logic

	rawCourses, ok := obj["uc_courses"].([]any)
	if !ok {
		errs = append(errs, unparseable(join(path, "uc_courses"), "missing or not a list"))
		return s, errors.Join(errs...)
	}
	for i, rc := range rawCourses {
		r, rerrs := p.requirement(rc, fmt.Sprintf("%s[%d]", join(path, "uc_courses"), i))
		errs = append(errs, rerrs...)
		s.Courses = append(s.Courses, r)
	}
	return s, errors.Join(errs...)
}

func (p *Parser) requirement(raw any, path string) (model.UcCourseRequirement, []error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.UcCourseRequirement{Logic: model.Unparseable("requirement is not an object")},
			[]error{unparseable(path, "requirement must be an object, got %s", typeName(raw))}
	}

	r := model.UcCourseRequirement{
		ID:    model.NormalizeCode(str(obj["uc_course_id"])),
		Title: str(obj["uc_course_title"]),
		Units: units(obj["units"]),
	}

	var errs []error
	if r.ID == "" {
		errs = append(errs, unparseable(join(path, "uc_course_id"), "missing"))
	}

	logicPath := join(path, "logic_block")
	rawLogic, present := obj["logic_block"]
	if !present {
		r.Logic = model.Unparseable("missing logic_block")
		return r, append(errs, unparseable(logicPath, "missing"))
	}
	node, nerrs := p.node(rawLogic, logicPath, 1)
	r.Logic = node
	return r, append(errs, nerrs...)
}

// logic reads a logic type and its n_courses
func (p *Parser) logic(rawType, rawN any, path string, defaultAll bool) (model.SectionLogic, error) {
	if rawType == nil && defaultAll {
		return model.AllRequired(), nil
	}

	name, ok := rawType.(string)
	if !ok {
		return model.SectionLogic{}, unparseable(path, "missing or not a string")
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case model.WireAllRequired:
		return model.AllRequired(), nil
	case model.WireChooseOneSection:
		return model.ChooseOneSection(), nil
	case model.WireSelectNCourses:
		n, ok := integer(rawN)
		if !ok {
			return model.SelectN(0), unparseable(path, "%s without a numeric n_courses", model.WireSelectNCourses)
		}
		return model.SelectN(n), nil
	default:
		return model.SectionLogic{}, unparseable(path, "unknown logic type %q", name)
	}
}

// node builds a logic tree. Bare lists are AND groups, the scraper's shape
// for a combination of courses.
func (p *Parser) node(raw any, path string, depth int) (model.LogicNode, []error) {
	if depth > p.maxDepth {
		msg := fmt.Sprintf("nested deeper than %d levels", p.maxDepth)
		return model.Unparseable(msg), []error{unparseable(path, "%s", msg)}
	}

	switch v := raw.(type) {
	case []any:
		return p.composite(model.KindAnd, v, path, depth)

	case map[string]any:
		if b, _ := v["no_articulation"].(bool); b {
			return model.NoArticulation(), nil
		}
		if rawType, ok := v["type"]; ok {
			name, _ := rawType.(string)
			var kind model.NodeKind
			switch strings.ToUpper(strings.TrimSpace(name)) {
			case "AND":
				kind = model.KindAnd
			case "OR":
				kind = model.KindOr
			default:
				msg := fmt.Sprintf("unknown logic type %v", rawType)
				return model.Unparseable(msg), []error{unparseable(join(path, "type"), "%s", msg)}
			}
			children, ok := v["courses"].([]any)
			if !ok {
				msg := "logic group without a courses list"
				return model.Unparseable(msg), []error{unparseable(join(path, "courses"), "%s", msg)}
			}
			return p.composite(kind, children, join(path, "courses"), depth)
		}
		if _, ok := v["course_letters"]; ok {
			return course(v, path)
		}
		msg := "neither a logic group nor a course"
		return model.Unparseable(msg), []error{unparseable(path, "%s", msg)}

	case nil:
		msg := "missing logic"
		return model.Unparseable(msg), []error{unparseable(path, "%s", msg)}

	default:
		msg := fmt.Sprintf("unexpected %s", typeName(raw))
		return model.Unparseable(msg), []error{unparseable(path, "%s", msg)}
	}
}

func (p *Parser) composite(kind model.NodeKind, raw []any, path string, depth int) (model.LogicNode, []error) {
	children := make([]model.LogicNode, 0, len(raw))
	var errs []error
	for i, rc := range raw {
		child, cerrs := p.node(rc, fmt.Sprintf("%s[%d]", path, i), depth+1)
		children = append(children, child)
		errs = append(errs, cerrs...)
	}
	if kind == model.KindOr {
		return model.Or(children...), errs
	}
	return model.And(children...), errs
}

func course(obj map[string]any, path string) (model.LogicNode, []error) {
	code, ok := obj["course_letters"].(string)
	if !ok || strings.TrimSpace(code) == "" {
		msg := "course without course_letters"
		return model.Unparseable(msg), []error{unparseable(join(path, "course_letters"), "%s", msg)}
	}
	if model.NormalizeCode(code) == model.NoArticulationCode {
		return model.NoArticulation(), nil
	}

	c := model.CourseOption{
		Code:        code,
		Title:       str(obj["title"]),
		DisplayName: str(obj["name"]),
		ID:          str(obj["course_id"]),
	}
	switch h := obj["honors"].(type) {
	case nil:
	case bool:
		c.Honors = h
	default:
		msg := fmt.Sprintf("honors must be a boolean, got %s", typeName(h))
		return model.Unparseable(msg), []error{unparseable(join(path, "honors"), "%s", msg)}
	}
	return model.Leaf(c), nil
}

func unparseable(path, format string, args ...any) error {
	return &ParseError{Path: path, Message: fmt.Sprintf(format, args...)}
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// str renders scalars as strings; the scraper writes ids both as numbers
// and as strings
func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func integer(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case int:
		return t, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

// units accepts 4, 4.0 or "4.00"; anything else is treated as unknown
func units(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case float64, int:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
