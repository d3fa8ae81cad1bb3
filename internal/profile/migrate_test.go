package profile

import (
	"encoding/json"
	"testing"
)

func rawDoc(t *testing.T, src string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(src), &raw); err != nil {
		t.Fatalf("bad test document: %v", err)
	}
	return raw
}

const frenchDoc = `{
	"identite": {"nom": "Marie Dupont", "titre": "Ingénieure Logiciel"},
	"profil_long": "Dix ans de développement backend.",
	"experiences": [
		{"entreprise": "Acme", "lieu": "Paris", "poste": "Dev Senior",
		 "dates": "2018-2024", "missions": ["API REST", "Mentorat"]}
	],
	"competences": {"techniques": ["Go", "Python"], "methodologiques": ["Scrum"]},
	"formation": "Master Informatique, Université de Lyon, 2014",
	"langues": ["Français", "Anglais"],
	"centres_interet": ["Escalade"]
}`

const spanishDoc = `{
	"identidad": {"nombre": "Carlos Ruiz", "titulo": "Analista de Datos"},
	"perfil_largo": "Especialista en analítica.",
	"experiencias": [
		{"empresa": "DataCorp", "lugar": "Madrid", "puesto": "Analista",
		 "fechas": "2020-2023", "misiones": ["Dashboards"]}
	],
	"competencias": {"tecnicas": ["SQL"], "metodologicas": ["Kanban"]},
	"formacion": "Grado en Estadística",
	"idiomas": ["Español"],
	"intereses": "Ajedrez"
}`

func TestDetectDialect(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want Dialect
	}{
		{"french", frenchDoc, DialectFrench},
		{"spanish", spanishDoc, DialectSpanish},
		{"canonical", `{"identity": {"name": "A"}, "skills": {}}`, DialectCanonical},
		{"empty", `{}`, DialectCanonical},
		{"single french sentinel", `{"profil_long": "x"}`, DialectFrench},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectDialect(rawDoc(t, tc.doc))
			if got != tc.want {
				t.Errorf("DetectDialect = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMigrate_French(t *testing.T) {
	p := Migrate(rawDoc(t, frenchDoc))

	if p.Identity.Name != "Marie Dupont" {
		t.Errorf("name = %q", p.Identity.Name)
	}
	if p.Identity.Title != "Ingénieure Logiciel" {
		t.Errorf("title = %q", p.Identity.Title)
	}
	if p.LongProfile != "Dix ans de développement backend." {
		t.Errorf("long profile = %q", p.LongProfile)
	}
	if len(p.Experiences) != 1 {
		t.Fatalf("experiences = %d, want 1", len(p.Experiences))
	}
	exp := p.Experiences[0]
	if exp.Company != "Acme" || exp.Location != "Paris" || exp.Role != "Dev Senior" {
		t.Errorf("experience = %+v", exp)
	}
	if len(exp.Missions) != 2 || exp.Missions[0] != "API REST" {
		t.Errorf("missions = %v", exp.Missions)
	}
	if len(p.Skills.Technical) != 2 || p.Skills.Technical[0] != "Go" {
		t.Errorf("technical = %v", p.Skills.Technical)
	}
	if len(p.Skills.Secondary) != 1 || p.Skills.Secondary[0] != "Scrum" {
		t.Errorf("secondary = %v", p.Skills.Secondary)
	}
	if p.Education.Structured() {
		t.Error("education should stay a plain string")
	}
	if p.Education.Text != "Master Informatique, Université de Lyon, 2014" {
		t.Errorf("education = %q", p.Education.Text)
	}
	if len(p.Languages) != 2 || len(p.Interests) != 1 {
		t.Errorf("languages = %v interests = %v", p.Languages, p.Interests)
	}
}

func TestMigrate_Spanish(t *testing.T) {
	p := Migrate(rawDoc(t, spanishDoc))

	if p.Identity.Name != "Carlos Ruiz" || p.Identity.Title != "Analista de Datos" {
		t.Errorf("identity = %+v", p.Identity)
	}
	if len(p.Experiences) != 1 || p.Experiences[0].Company != "DataCorp" {
		t.Errorf("experiences = %+v", p.Experiences)
	}
	if len(p.Skills.Secondary) != 1 || p.Skills.Secondary[0] != "Kanban" {
		t.Errorf("secondary = %v", p.Skills.Secondary)
	}
	// A bare string interests value becomes a single-element list.
	if len(p.Interests) != 1 || p.Interests[0] != "Ajedrez" {
		t.Errorf("interests = %v", p.Interests)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	first := Migrate(rawDoc(t, frenchDoc))

	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second := Migrate(rawDoc(t, string(encoded)))

	reencoded, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != string(reencoded) {
		t.Errorf("second migration changed the document:\n%s\n%s", encoded, reencoded)
	}
}

func TestMigrate_CanonicalSoftAlias(t *testing.T) {
	p := Migrate(rawDoc(t, `{"skills": {"technical": ["Go"], "soft": ["Listening"]}}`))
	if len(p.Skills.Secondary) != 1 || p.Skills.Secondary[0] != "Listening" {
		t.Errorf("secondary = %v, want soft alias honored", p.Skills.Secondary)
	}
}

func TestMigrate_Total(t *testing.T) {
	// Malformed fields degrade to defaults, never panic or fail.
	cases := []string{
		`{}`,
		`{"identite": "not an object"}`,
		`{"identite": {"nom": 42}, "profil_long": ["wrong"]}`,
		`{"experiences": "nope", "competences": []}`,
		`{"competences": {"techniques": "Go"}}`,
		`{"formation": 7, "langues": {}, "centres_interet": 1, "identite": {}}`,
	}
	for _, src := range cases {
		p := Migrate(rawDoc(t, src))
		if p.Experiences == nil || p.Skills.Technical == nil || p.Languages == nil {
			t.Errorf("collections not normalized for %s: %+v", src, p)
		}
	}
}

func TestMigrate_StructuredEducation(t *testing.T) {
	p := Migrate(rawDoc(t, `{"education": [{"degree": "BSc", "school": "MIT", "dates": "2010"}]}`))
	if !p.Education.Structured() {
		t.Fatal("expected structured education")
	}
	if len(p.Education.Entries) != 1 || p.Education.Entries[0].School != "MIT" {
		t.Errorf("entries = %+v", p.Education.Entries)
	}
}
