package coursetree

import "fmt"

// UI keys identify sections and subsections for expand/collapse tracking in
// an editor session. Persisted entities are keyed by their real id; entities
// that have not been saved yet fall back to a positional key. These keys are
// a stand-in identity for view state only and are never stored.

func SectionKey(sec Section, si int) string {
	if sec.ID != 0 {
		return fmt.Sprintf("sec-%d", sec.ID)
	}
	return fmt.Sprintf("pos-%d", si)
}

func SubsectionKey(sec Section, sub Subsection, si, ssi int) string {
	if sub.ID != 0 {
		return fmt.Sprintf("sub-%d", sub.ID)
	}
	return fmt.Sprintf("pos-%d-%d", si, ssi)
}

// ExpandState tracks which sections and subsections are currently open in an
// editor session. It is ephemeral and resets with the session.
type ExpandState struct {
	sections    map[string]struct{}
	subsections map[string]struct{}
}

func NewExpandState() *ExpandState {
	return &ExpandState{
		sections:    make(map[string]struct{}),
		subsections: make(map[string]struct{}),
	}
}

func (s *ExpandState) ToggleSection(key string) {
	toggle(s.sections, key)
}

func (s *ExpandState) ToggleSubsection(key string) {
	toggle(s.subsections, key)
}

func (s *ExpandState) SectionExpanded(key string) bool {
	_, ok := s.sections[key]
	return ok
}

func (s *ExpandState) SubsectionExpanded(key string) bool {
	_, ok := s.subsections[key]
	return ok
}

func toggle(set map[string]struct{}, key string) {
	if _, ok := set[key]; ok {
		delete(set, key)
		return
	}
	set[key] = struct{}{}
}
