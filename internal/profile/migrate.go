package profile

import (
	"encoding/json"
	"log/slog"
)

// Dialect identifies the key-naming scheme of a raw profile document.
type Dialect int

const (
	DialectCanonical Dialect = iota
	DialectFrench
	DialectSpanish
)

func (d Dialect) String() string {
	switch d {
	case DialectFrench:
		return "french"
	case DialectSpanish:
		return "spanish"
	default:
		return "canonical"
	}
}

// keyMap is the full field-name table for one dialect. Canonical is itself a
// keyMap, so migration of an already-canonical document is a plain decode and
// Migrate is idempotent by construction.
type keyMap struct {
	identity, name, title                  string
	email, phone, location                 string
	longProfile                            string
	experiences                            string
	company, place, role, dates, missions  string
	skills, technical, secondary, softAlt  string
	education, languages, interests        string
}

var (
	canonicalKeys = keyMap{
		identity: "identity", name: "name", title: "title",
		email: "email", phone: "phone", location: "location",
		longProfile: "long_profile",
		experiences: "experiences",
		company:     "company", place: "location", role: "role", dates: "dates", missions: "missions",
		skills: "skills", technical: "technical", secondary: "methodological", softAlt: "soft",
		education: "education", languages: "languages", interests: "interests",
	}

	frenchKeys = keyMap{
		identity: "identite", name: "nom", title: "titre",
		longProfile: "profil_long",
		experiences: "experiences",
		company:     "entreprise", place: "lieu", role: "poste", dates: "dates", missions: "missions",
		skills: "competences", technical: "techniques", secondary: "methodologiques",
		education: "formation", languages: "langues", interests: "centres_interet",
	}

	spanishKeys = keyMap{
		identity: "identidad", name: "nombre", title: "titulo",
		longProfile: "perfil_largo",
		experiences: "experiencias",
		company:     "empresa", place: "lugar", role: "puesto", dates: "fechas", missions: "misiones",
		skills: "competencias", technical: "tecnicas", secondary: "metodologicas",
		education: "formacion", languages: "idiomas", interests: "intereses",
	}
)

// Sentinel keys whose mere presence identifies a dialect. French is checked
// before Spanish; the sets are disjoint in practice, so order only matters
// for pathological documents carrying both.
var (
	frenchSentinels  = []string{"identite", "profil_long", "competences"}
	spanishSentinels = []string{"identidad", "perfil_largo", "competencias"}
)

// DetectDialect classifies a raw document by sentinel-key presence.
func DetectDialect(raw map[string]json.RawMessage) Dialect {
	for _, k := range frenchSentinels {
		if _, ok := raw[k]; ok {
			return DialectFrench
		}
	}
	for _, k := range spanishSentinels {
		if _, ok := raw[k]; ok {
			return DialectSpanish
		}
	}
	return DialectCanonical
}

// Migrate converts a raw document of any recognized dialect into a canonical
// Profile. It is pure and total: malformed or absent fields degrade to empty
// defaults, never to an error. Persisting the migrated result is the caller's
// job (Store.Load does it on first read of a legacy file).
func Migrate(raw map[string]json.RawMessage) Profile {
	return decodeWith(raw, keysFor(DetectDialect(raw)))
}

func keysFor(d Dialect) keyMap {
	switch d {
	case DialectFrench:
		return frenchKeys
	case DialectSpanish:
		return spanishKeys
	default:
		return canonicalKeys
	}
}

func decodeWith(raw map[string]json.RawMessage, keys keyMap) Profile {
	var p Profile

	var ident map[string]json.RawMessage
	decodeField(raw, keys.identity, &ident)
	decodeField(ident, keys.name, &p.Identity.Name)
	decodeField(ident, keys.title, &p.Identity.Title)
	if keys.email != "" {
		decodeField(ident, keys.email, &p.Identity.Email)
		decodeField(ident, keys.phone, &p.Identity.Phone)
		decodeField(ident, keys.location, &p.Identity.Location)
	}

	decodeField(raw, keys.longProfile, &p.LongProfile)

	var rawExps []map[string]json.RawMessage
	decodeField(raw, keys.experiences, &rawExps)
	p.Experiences = make([]Experience, 0, len(rawExps))
	for _, re := range rawExps {
		var exp Experience
		decodeField(re, keys.company, &exp.Company)
		decodeField(re, keys.place, &exp.Location)
		decodeField(re, keys.role, &exp.Role)
		decodeField(re, keys.dates, &exp.Dates)
		decodeField(re, keys.missions, &exp.Missions)
		p.Experiences = append(p.Experiences, exp)
	}

	var rawSkills map[string]json.RawMessage
	decodeField(raw, keys.skills, &rawSkills)
	decodeField(rawSkills, keys.technical, &p.Skills.Technical)
	decodeField(rawSkills, keys.secondary, &p.Skills.Secondary)
	if p.Skills.Secondary == nil && keys.softAlt != "" {
		decodeField(rawSkills, keys.softAlt, &p.Skills.Secondary)
	}

	decodeField(raw, keys.education, &p.Education)
	decodeField(raw, keys.languages, &p.Languages)
	decodeField(raw, keys.interests, &p.Interests)
	decodeField(raw, "memory_notes", &p.MemoryNotes)

	p.normalize()
	return p
}

// decodeField unmarshals one raw field into target, logging and keeping the
// default on malformed input. Totality of migration rests on this.
func decodeField(raw map[string]json.RawMessage, key string, target any) {
	if raw == nil || key == "" {
		return
	}
	v, ok := raw[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(v, target); err != nil {
		slog.Warn("malformed profile field, using default", "key", key, "error", err)
	}
}
