package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Profile is the canonical, English-keyed candidate document. It is created
// once (from a PDF or raw text), persisted by Store, and treated as read-only
// by the tailoring pipeline; only MemoryNotes grows over time.
type Profile struct {
	Identity    Identity          `json:"identity"`
	LongProfile string            `json:"long_profile"`
	Experiences []Experience      `json:"experiences"`
	Skills      Skills            `json:"skills"`
	Education   Education         `json:"education"`
	Languages   []string          `json:"languages"`
	Interests   Interests         `json:"interests"`
	MemoryNotes map[string]string `json:"memory_notes"`
}

// Identity holds who the candidate is. Name and Title are required once a
// document has been migrated; the contact fields stay empty when unknown.
type Identity struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// Experience is one position, in source insertion order.
type Experience struct {
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Role     string   `json:"role"`
	Dates    string   `json:"dates"`
	Missions []string `json:"missions"`
}

// Skills groups technical skills and a secondary category. Two historical
// spellings exist for the secondary key: "methodological" (PDF-prepared
// profiles) and "soft" (manually built ones). Both are accepted on read;
// writes unify on "methodological".
type Skills struct {
	Technical []string
	Secondary []string
}

func (s Skills) MarshalJSON() ([]byte, error) {
	type wire struct {
		Technical []string `json:"technical"`
		Secondary []string `json:"methodological"`
	}
	w := wire{Technical: s.Technical, Secondary: s.Secondary}
	if w.Technical == nil {
		w.Technical = []string{}
	}
	if w.Secondary == nil {
		w.Secondary = []string{}
	}
	return json.Marshal(w)
}

func (s *Skills) UnmarshalJSON(data []byte) error {
	var wire struct {
		Technical      []string `json:"technical"`
		Methodological []string `json:"methodological"`
		Soft           []string `json:"soft"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.Technical = wire.Technical
	s.Secondary = wire.Methodological
	if s.Secondary == nil {
		s.Secondary = wire.Soft
	}
	return nil
}

// EducationEntry is one structured education record.
type EducationEntry struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Dates  string `json:"dates"`
}

// Education is bimodal on the wire: PDF-prepared profiles store a single
// free-text string, manually built ones store a structured list. The shape
// a document was read with is the shape it is written back with.
type Education struct {
	Text    string
	Entries []EducationEntry
}

// Structured reports whether the entry-list shape is in effect.
func (e Education) Structured() bool { return e.Entries != nil }

func (e Education) MarshalJSON() ([]byte, error) {
	if e.Entries != nil {
		return json.Marshal(e.Entries)
	}
	return json.Marshal(e.Text)
}

func (e *Education) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*e = Education{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		e.Entries = nil
		return json.Unmarshal(trimmed, &e.Text)
	case '[':
		e.Text = ""
		e.Entries = []EducationEntry{}
		return json.Unmarshal(trimmed, &e.Entries)
	}
	return fmt.Errorf("education: expected string or array, got %s", preview(trimmed))
}

// Interests accepts either a list of strings or a single free-text string on
// read, and always writes a list.
type Interests []string

func (i Interests) MarshalJSON() ([]byte, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(i))
}

func (i *Interests) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*i = nil
		return nil
	}
	if trimmed[0] == '"' {
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		if single == "" {
			*i = Interests{}
		} else {
			*i = Interests{single}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*i = list
	return nil
}

// normalize replaces nil collections with empty ones so a persisted document
// always carries every canonical key with a well-formed value.
func (p *Profile) normalize() {
	if p.Experiences == nil {
		p.Experiences = []Experience{}
	}
	for i := range p.Experiences {
		if p.Experiences[i].Missions == nil {
			p.Experiences[i].Missions = []string{}
		}
	}
	if p.Skills.Technical == nil {
		p.Skills.Technical = []string{}
	}
	if p.Skills.Secondary == nil {
		p.Skills.Secondary = []string{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	if p.Interests == nil {
		p.Interests = Interests{}
	}
	if p.MemoryNotes == nil {
		p.MemoryNotes = map[string]string{}
	}
}

func preview(data []byte) string {
	const max = 40
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
