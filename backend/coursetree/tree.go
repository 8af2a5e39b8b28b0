// Package coursetree implements the nested curriculum model of a course:
// sections contain subsections, subsections contain content items (video
// lectures or articles).
//
// Every operation takes the current slice of sections and returns a new one;
// the input is never mutated, so callers can keep the previous tree around
// (form state, undo, comparison) without surprises. After any insert or
// delete the Order field of every remaining sibling equals its index.
package coursetree

import (
	"errors"
	"fmt"
)

type ContentType string

const (
	ContentVideo   ContentType = "video"
	ContentArticle ContentType = "article"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownField    = errors.New("unknown field")
	ErrBadContentType  = errors.New("invalid content type")
)

// Section is a top-level grouping of a course's curriculum.
type Section struct {
	ID          uint         `json:"id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Order       int          `json:"order"`
	Subsections []Subsection `json:"subsections"`
}

// Subsection groups content items within a section.
type Subsection struct {
	ID          uint          `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Order       int           `json:"order"`
	Content     []ContentItem `json:"content"`
}

// ContentItem is a single video lecture or article. Both payload fields are
// kept on the struct regardless of the active Type; switching the type does
// not clear the other payload, the renderer picks by Type alone.
type ContentItem struct {
	ID             uint        `json:"id,omitempty"`
	Type           ContentType `json:"type"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Order          int         `json:"order"`
	IsFree         bool        `json:"isFree"`
	VideoURL       string      `json:"videoUrl"`
	Duration       string      `json:"duration"`
	ArticleContent string      `json:"articleContent,omitempty"`
}

// Field names a single updatable attribute of a tree entity.
type Field string

const (
	FieldTitle          Field = "title"
	FieldDescription    Field = "description"
	FieldVideoURL       Field = "videoUrl"
	FieldDuration       Field = "duration"
	FieldArticleContent Field = "articleContent"
)

func checkIndex(level string, idx, n int) error {
	if idx < 0 || idx >= n {
		return fmt.Errorf("%s %d of %d: %w", level, idx, n, ErrIndexOutOfRange)
	}
	return nil
}

// copySections returns a fresh top-level slice; the section structs still
// share their subsection slices with the input until a path replaces them.
func copySections(sections []Section) []Section {
	next := make([]Section, len(sections))
	copy(next, sections)
	return next
}

// AddSection appends a new empty section with a placeholder title.
func AddSection(sections []Section) []Section {
	next := make([]Section, len(sections), len(sections)+1)
	copy(next, sections)
	return append(next, Section{
		Title:       fmt.Sprintf("Section %d", len(sections)+1),
		Order:       len(sections),
		Subsections: []Subsection{},
	})
}

// AddSubsection appends a new empty subsection to the section at si.
func AddSubsection(sections []Section, si int) ([]Section, error) {
	if err := checkIndex("section", si, len(sections)); err != nil {
		return nil, err
	}
	next := copySections(sections)
	sec := next[si]
	subs := make([]Subsection, len(sec.Subsections), len(sec.Subsections)+1)
	copy(subs, sec.Subsections)
	sec.Subsections = append(subs, Subsection{
		Title:   fmt.Sprintf("Subsection %d", len(sec.Subsections)+1),
		Order:   len(sec.Subsections),
		Content: []ContentItem{},
	})
	next[si] = sec
	return next, nil
}

// AddContentItem appends a new video lecture to the subsection at si/ssi.
func AddContentItem(sections []Section, si, ssi int) ([]Section, error) {
	if err := checkIndex("section", si, len(sections)); err != nil {
		return nil, err
	}
	if err := checkIndex("subsection", ssi, len(sections[si].Subsections)); err != nil {
		return nil, err
	}
	next := copySections(sections)
	sec := next[si]
	subs := make([]Subsection, len(sec.Subsections))
	copy(subs, sec.Subsections)
	sub := subs[ssi]
	items := make([]ContentItem, len(sub.Content), len(sub.Content)+1)
	copy(items, sub.Content)
	sub.Content = append(items, ContentItem{
		Type:     ContentVideo,
		Title:    fmt.Sprintf("Lecture %d", len(sub.Content)+1),
		Order:    len(sub.Content),
		Duration: "0:00",
	})
	subs[ssi] = sub
	sec.Subsections = subs
	next[si] = sec
	return next, nil
}

// UpdateSection sets a single field on the section at si. Only title and
// description are updatable at this level.
func UpdateSection(sections []Section, si int, field Field, value string) ([]Section, error) {
	if err := checkIndex("section", si, len(sections)); err != nil {
		return nil, err
	}
	next := copySections(sections)
	sec := next[si]
	switch field {
	case FieldTitle:
		sec.Title = value
	case FieldDescription:
		sec.Description = value
	default:
		return nil, fmt.Errorf("section field %q: %w", field, ErrUnknownField)
	}
	next[si] = sec
	return next, nil
}

// UpdateSubsection sets a single field on the subsection at si/ssi.
func UpdateSubsection(sections []Section, si, ssi int, field Field, value string) ([]Section, error) {
	if err := checkIndex("section", si, len(sections)); err != nil {
		return nil, err
	}
	if err := checkIndex("subsection", ssi, len(sections[si].Subsections)); err != nil {
		return nil, err
	}
	next := copySections(sections)
	sec := next[si]
	subs := make([]Subsection, len(sec.Subsections))
	copy(subs, sec.Subsections)
	sub := subs[ssi]
	switch field {
	case FieldTitle:
		sub.Title = value
	case FieldDescription:
		sub.Description = value
	default:
		return nil, fmt.Errorf("subsection field %q: %w", field, ErrUnknownField)
	}
	subs[ssi] = sub
	sec.Subsections = subs
	next[si] = sec
	return next, nil
}

// UpdateContent sets a single string field on the content item at si/ssi/ci.
func UpdateContent(sections []Section, si, ssi, ci int, field Field, value string) ([]Section, error) {
	return withContentItem(sections, si, ssi, ci, func(item *ContentItem) error {
		switch field {
		case FieldTitle:
			item.Title = value
		case FieldDescription:
			item.Description = value
		case FieldVideoURL:
			item.VideoURL = value
		case FieldDuration:
			item.Duration = value
		case FieldArticleContent:
			item.ArticleContent = value
		default:
			return fmt.Errorf("content field %q: %w", field, ErrUnknownField)
		}
		return nil
	})
}

// SetContentType switches a content item between video and article. The
// inactive payload field keeps its value.
func SetContentType(sections []Section, si, ssi, ci int, t ContentType) ([]Section, error) {
	if t != ContentVideo && t != ContentArticle {
		return nil, fmt.Errorf("%q: %w", t, ErrBadContentType)
	}
	return withContentItem(sections, si, ssi, ci, func(item *ContentItem) error {
		item.Type = t
		return nil
	})
}

// SetContentFree flags a content item as free preview.
func SetContentFree(sections []Section, si, ssi, ci int, free bool) ([]Section, error) {
	return withContentItem(sections, si, ssi, ci, func(item *ContentItem) error {
		item.IsFree = free
		return nil
	})
}

func withContentItem(sections []Section, si, ssi, ci int, mutate func(*ContentItem) error) ([]Section, error) {
	if err := checkIndex("section", si, len(sections)); err != nil {
		return nil, err
	}
	if err := checkIndex("subsection", ssi, len(sections[si].Subsections)); err != nil {
		return nil, err
	}
	if err := checkIndex("content item", ci, len(sections[si].Subsections[ssi].Content)); err != nil {
		return nil, err
	}
	next := copySections(sections)
	sec := next[si]
	subs := make([]Subsection, len(sec.Subsections))
	copy(subs, sec.Subsections)
	sub := subs[ssi]
	items := make([]ContentItem, len(sub.Content))
	copy(items, sub.Content)
	if err := mutate(&items[ci]); err != nil {
		return nil, err
	}
	sub.Content = items
	subs[ssi] = sub
	sec.Subsections = subs
	next[si] = sec
	return next, nil
}

// DeleteSection removes the section at si together with all of its
// subsections and content items, then renumbers the remaining sections.
func DeleteSection(sections []Section, si int) ([]Section, error) {
	if err := checkIndex("section", si, len(sections)); err != nil {
		return nil, err
	}
	next := make([]Section, 0, len(sections)-1)
	next = append(next, sections[:si]...)
	next = append(next, sections[si+1:]...)
	for i := range next {
		next[i].Order = i
	}
	return next, nil
}

// DeleteSubsection removes the subsection at si/ssi and its content items.
func DeleteSubsection(sections []Section, si, ssi int) ([]Section, error) {
	if err := checkIndex("section", si, len(sections)); err != nil {
		return nil, err
	}
	if err := checkIndex("subsection", ssi, len(sections[si].Subsections)); err != nil {
		return nil, err
	}
	next := copySections(sections)
	sec := next[si]
	subs := make([]Subsection, 0, len(sec.Subsections)-1)
	subs = append(subs, sec.Subsections[:ssi]...)
	subs = append(subs, sec.Subsections[ssi+1:]...)
	for i := range subs {
		subs[i].Order = i
	}
	sec.Subsections = subs
	next[si] = sec
	return next, nil
}

// DeleteContentItem removes the content item at si/ssi/ci.
func DeleteContentItem(sections []Section, si, ssi, ci int) ([]Section, error) {
	if err := checkIndex("section", si, len(sections)); err != nil {
		return nil, err
	}
	if err := checkIndex("subsection", ssi, len(sections[si].Subsections)); err != nil {
		return nil, err
	}
	if err := checkIndex("content item", ci, len(sections[si].Subsections[ssi].Content)); err != nil {
		return nil, err
	}
	next := copySections(sections)
	sec := next[si]
	subs := make([]Subsection, len(sec.Subsections))
	copy(subs, sec.Subsections)
	sub := subs[ssi]
	items := make([]ContentItem, 0, len(sub.Content)-1)
	items = append(items, sub.Content[:ci]...)
	items = append(items, sub.Content[ci+1:]...)
	for i := range items {
		items[i].Order = i
	}
	sub.Content = items
	subs[ssi] = sub
	sec.Subsections = subs
	next[si] = sec
	return next, nil
}

// Normalize deep-copies the tree and recomputes every Order from position.
// Trees arriving from clients go through this before being stored.
func Normalize(sections []Section) []Section {
	next := make([]Section, len(sections))
	for i, sec := range sections {
		subs := make([]Subsection, len(sec.Subsections))
		for j, sub := range sec.Subsections {
			items := make([]ContentItem, len(sub.Content))
			copy(items, sub.Content)
			for k := range items {
				items[k].Order = k
			}
			sub.Order = j
			sub.Content = items
			subs[j] = sub
		}
		sec.Order = i
		sec.Subsections = subs
		next[i] = sec
	}
	return next
}

// Preview deep-copies the tree and clears the payload of every content item
// that is not flagged as free preview. Titles, durations and structure stay
// visible so the catalog can show the full outline.
func Preview(sections []Section) []Section {
	next := Normalize(sections)
	for i := range next {
		for j := range next[i].Subsections {
			items := next[i].Subsections[j].Content
			for k := range items {
				if !items[k].IsFree {
					items[k].VideoURL = ""
					items[k].ArticleContent = ""
				}
			}
		}
	}
	return next
}

// TreeStats aggregates counts for catalog listings.
type TreeStats struct {
	Sections    int `json:"sections"`
	Subsections int `json:"subsections"`
	Lectures    int `json:"lectures"`
}

func Stats(sections []Section) TreeStats {
	st := TreeStats{Sections: len(sections)}
	for _, sec := range sections {
		st.Subsections += len(sec.Subsections)
		for _, sub := range sec.Subsections {
			st.Lectures += len(sub.Content)
		}
	}
	return st
}
