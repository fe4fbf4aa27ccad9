// internal/form/models.go
package form

import (
	"net/url"
	"strings"
)

// Field names a form input. Values equal the prediction request JSON keys.
type Field string

const (
	FieldGender          Field = "gender"
	FieldPartTimeJob     Field = "part_time_job"
	FieldExtracurricular Field = "extracurricular_activities"
	FieldStudyHours      Field = "weekly_study_hours"
	FieldMath            Field = "math_score"
	FieldHistory         Field = "history_score"
	FieldPhysics         Field = "physics_score"
	FieldChemistry       Field = "chemistry_score"
	FieldBiology         Field = "biology_score"
	FieldEnglish         Field = "english_score"
	FieldGeography       Field = "geography_score"
)

type Kind int

const (
	KindGender Kind = iota
	KindYesNo
	KindHours
	KindScore
)

type Section string

const (
	SectionPersonal Section = "personal"
	SectionAcademic Section = "academic"
)

type Option struct {
	Value string
	Label string
}

// FieldSpec describes how a field is rendered and validated.
type FieldSpec struct {
	Field       Field
	Label       string
	Kind        Kind
	Section     Section
	Placeholder string
	Options     []Option
	Min         float64
	Max         float64
	// Name is used in validation messages.
	Name string
}

const (
	MinStudyHours = 0
	MaxStudyHours = 50
	MinScore      = 0
	MaxScore      = 100
)

var (
	genderOptions = []Option{{Value: "male", Label: "Male"}, {Value: "female", Label: "Female"}}
	yesNoOptions  = []Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}
)

func score(f Field, subject string) FieldSpec {
	return FieldSpec{
		Field:       f,
		Label:       subject + " score",
		Kind:        KindScore,
		Section:     SectionAcademic,
		Placeholder: "Enter score",
		Min:         MinScore,
		Max:         MaxScore,
		Name:        subject,
	}
}

// Fields lists every input in display order.
var Fields = []FieldSpec{
	{Field: FieldGender, Label: "Gender", Kind: KindGender, Section: SectionPersonal,
		Placeholder: "Select gender", Options: genderOptions, Name: "Gender"},
	{Field: FieldPartTimeJob, Label: "Has a part-time job?", Kind: KindYesNo, Section: SectionPersonal,
		Placeholder: "Select yes/no", Options: yesNoOptions, Name: "Part-time job status"},
	{Field: FieldStudyHours, Label: "Weekly study hours?", Kind: KindHours, Section: SectionPersonal,
		Placeholder: "Enter hours", Min: MinStudyHours, Max: MaxStudyHours, Name: "Study hours"},
	{Field: FieldExtracurricular, Label: "Involved in extracurricular activities?", Kind: KindYesNo, Section: SectionPersonal,
		Placeholder: "Select yes/no", Options: yesNoOptions, Name: "Extracurricular activity status"},
	score(FieldMath, "Math"),
	score(FieldHistory, "History"),
	score(FieldPhysics, "Physics"),
	score(FieldChemistry, "Chemistry"),
	score(FieldBiology, "Biology"),
	score(FieldEnglish, "English"),
	score(FieldGeography, "Geography"),
}

// FieldsIn returns the fields of one section in display order.
func FieldsIn(s Section) []FieldSpec {
	var out []FieldSpec
	for _, f := range Fields {
		if f.Section == s {
			out = append(out, f)
		}
	}
	return out
}

// RawInput is the submitted text of each field, before parsing.
type RawInput map[Field]string

// RawInputFromValues picks the known fields out of a posted form.
func RawInputFromValues(values url.Values) RawInput {
	raw := make(RawInput, len(Fields))
	for _, f := range Fields {
		raw[f.Field] = values.Get(string(f.Field))
	}
	return raw
}

func (r RawInput) get(f Field) string {
	return strings.TrimSpace(r[f])
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

type Scores struct {
	Math      float64
	History   float64
	Physics   float64
	Chemistry float64
	Biology   float64
	English   float64
	Geography float64
}

// Input is a fully parsed and validated form.
type Input struct {
	Gender           Gender
	PartTimeJob      YesNo
	Extracurricular  YesNo
	WeeklyStudyHours int
	Scores           Scores
}

// ValidationErrors maps a field to its message. Empty means valid.
type ValidationErrors map[Field]string

func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

// Fields returns the failing fields in display order.
func (v ValidationErrors) Fields() []Field {
	var out []Field
	for _, f := range Fields {
		if _, ok := v[f.Field]; ok {
			out = append(out, f.Field)
		}
	}
	return out
}
