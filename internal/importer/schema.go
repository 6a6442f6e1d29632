package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CurriculumSchema is the top-level structure of a curriculum file. JSON
// files parse too, since YAML is a superset.
type CurriculumSchema struct {
	Resources    []ResourceImport    `yaml:"resources"`
	SessionTypes []SessionTypeImport `yaml:"session_types"`
	Periods      []PeriodImport      `yaml:"periods"`
}

type ResourceImport struct {
	ID              string `yaml:"id"`
	Type            string `yaml:"type"`
	Title           string `yaml:"title"`
	DurationMinutes int    `yaml:"duration_minutes,omitempty"`
}

type SessionTypeImport struct {
	ID    string `yaml:"id"`
	Kind  string `yaml:"kind"`
	Title string `yaml:"title"`
}

// PeriodImport defines one period. Phase is prestart, milestone or ascent;
// Number is the milestone number or Ascent week, Section and Day apply to
// PreStart only.
type PeriodImport struct {
	ID       string              `yaml:"id"`
	Phase    string              `yaml:"phase"`
	Number   int                 `yaml:"number,omitempty"`
	Section  string              `yaml:"section,omitempty"`
	Day      int                 `yaml:"day,omitempty"`
	Title    string              `yaml:"title,omitempty"`
	Actions  []ActionImport      `yaml:"actions,omitempty"`
	Weekly   []WeeklySlotImport  `yaml:"weekly,omitempty"`
	Sessions []SessionSlotImport `yaml:"sessions,omitempty"`
	Forms    []FormSlotImport    `yaml:"forms,omitempty"`
}

type ActionImport struct {
	ID           string `yaml:"id,omitempty"`
	Label        string `yaml:"label"`
	ContentType  string `yaml:"content_type,omitempty"`
	Optional     bool   `yaml:"optional,omitempty"`
	ResourceID   string `yaml:"resource_id,omitempty"`
	ResourceType string `yaml:"resource_type,omitempty"`
	Strategy     string `yaml:"strategy,omitempty"`
	SlotKey      string `yaml:"slot_key,omitempty"`
	HandlerTag   string `yaml:"handler_tag,omitempty"`
	Form         string `yaml:"form,omitempty"`
	SessionType  string `yaml:"session_type,omitempty"`
}

type WeeklySlotImport struct {
	ID          string `yaml:"id,omitempty"`
	Kind        string `yaml:"kind"`
	Label       string `yaml:"label"`
	SessionType string `yaml:"session_type,omitempty"`
	ResourceID  string `yaml:"resource_id,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
}

type SessionSlotImport struct {
	ID          string `yaml:"id,omitempty"`
	Kind        string `yaml:"kind"`
	Label       string `yaml:"label,omitempty"`
	SessionType string `yaml:"session_type"`
	Certifies   bool   `yaml:"certifies,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
}

type FormSlotImport struct {
	ID       string `yaml:"id,omitempty"`
	Label    string `yaml:"label"`
	Form     string `yaml:"form"`
	Optional bool   `yaml:"optional,omitempty"`
}

// LoadCurriculum reads and parses a curriculum file.
func LoadCurriculum(path string) (*CurriculumSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCurriculum(data)
}

func ParseCurriculum(data []byte) (*CurriculumSchema, error) {
	var schema CurriculumSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing curriculum file: %w", err)
	}
	return &schema, nil
}
