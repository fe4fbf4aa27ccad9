// internal/form/validation.go
package form

import (
	"fmt"
	"math"
	"strconv"

	"career-advisor/internal/models"
)

// Validate checks every field of raw and returns the failures.
func Validate(raw RawInput) ValidationErrors {
	_, errs := Parse(raw)
	return errs
}

// Parse validates raw and, when every field passes, returns the typed input.
// The returned ValidationErrors is a fresh map on every call.
func Parse(raw RawInput) (*Input, ValidationErrors) {
	errs := ValidationErrors{}
	in := &Input{}

	for _, spec := range Fields {
		value := raw.get(spec.Field)

		switch spec.Kind {
		case KindGender:
			if msg := checkOption(spec, value, "male or female"); msg != "" {
				errs[spec.Field] = msg
				continue
			}
			in.Gender = Gender(value)

		case KindYesNo:
			if msg := checkOption(spec, value, "yes or no"); msg != "" {
				errs[spec.Field] = msg
				continue
			}
			v := YesNo(value)
			if spec.Field == FieldPartTimeJob {
				in.PartTimeJob = v
			} else {
				in.Extracurricular = v
			}

		case KindHours:
			hours, msg := parseHours(spec, value)
			if msg != "" {
				errs[spec.Field] = msg
				continue
			}
			in.WeeklyStudyHours = hours

		case KindScore:
			s, msg := parseScore(spec, value)
			if msg != "" {
				errs[spec.Field] = msg
				continue
			}
			in.Scores.set(spec.Field, s)
		}
	}

	if !errs.Empty() {
		return nil, errs
	}
	return in, errs
}

func checkOption(spec FieldSpec, value, allowed string) string {
	if value == "" {
		return spec.Name + " is required."
	}
	for _, o := range spec.Options {
		if o.Value == value {
			return ""
		}
	}
	return fmt.Sprintf("%s must be %s.", spec.Name, allowed)
}

func parseHours(spec FieldSpec, value string) (int, string) {
	if value == "" {
		return 0, "Study hours are required."
	}
	hours, err := strconv.Atoi(value)
	if err != nil {
		return 0, "Study hours must be a whole number."
	}
	if float64(hours) < spec.Min || float64(hours) > spec.Max {
		return 0, fmt.Sprintf("Study hours must be between %g and %g.", spec.Min, spec.Max)
	}
	return hours, ""
}

func parseScore(spec FieldSpec, value string) (float64, string) {
	if value == "" {
		return 0, spec.Name + " score is required."
	}
	s, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, spec.Name + " score must be a number."
	}
	if s < spec.Min || s > spec.Max {
		return 0, fmt.Sprintf("%s score must be between %g and %g.", spec.Name, spec.Min, spec.Max)
	}
	return s, ""
}

func (s *Scores) set(f Field, v float64) {
	switch f {
	case FieldMath:
		s.Math = v
	case FieldHistory:
		s.History = v
	case FieldPhysics:
		s.Physics = v
	case FieldChemistry:
		s.Chemistry = v
	case FieldBiology:
		s.Biology = v
	case FieldEnglish:
		s.English = v
	case FieldGeography:
		s.Geography = v
	}
}

// ToRequest encodes the input for the prediction service.
func (in *Input) ToRequest() models.PredictionRequest {
	return models.PredictionRequest{
		Gender:                    boolInt(in.Gender == GenderMale),
		PartTimeJob:               boolInt(in.PartTimeJob == Yes),
		ExtracurricularActivities: boolInt(in.Extracurricular == Yes),
		WeeklyStudyHours:          in.WeeklyStudyHours,
		MathScore:                 in.Scores.Math,
		HistoryScore:              in.Scores.History,
		PhysicsScore:              in.Scores.Physics,
		ChemistryScore:            in.Scores.Chemistry,
		BiologyScore:              in.Scores.Biology,
		EnglishScore:              in.Scores.English,
		GeographyScore:            in.Scores.Geography,
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
