package prediction

import "career-advisor/internal/common/validation"

var requestSchema = validation.MustCompile("prediction request", `{
  "type": "object",
  "additionalProperties": false,
  "required": [
    "gender", "part_time_job", "extracurricular_activities", "weekly_study_hours",
    "math_score", "history_score", "physics_score", "chemistry_score",
    "biology_score", "english_score", "geography_score"
  ],
  "definitions": {
    "flag": {"type": "integer", "enum": [0, 1]},
    "score": {"type": "number", "minimum": 0, "maximum": 100}
  },
  "properties": {
    "gender": {"$ref": "#/definitions/flag"},
    "part_time_job": {"$ref": "#/definitions/flag"},
    "extracurricular_activities": {"$ref": "#/definitions/flag"},
    "weekly_study_hours": {"type": "integer", "minimum": 0, "maximum": 50},
    "math_score": {"$ref": "#/definitions/score"},
    "history_score": {"$ref": "#/definitions/score"},
    "physics_score": {"$ref": "#/definitions/score"},
    "chemistry_score": {"$ref": "#/definitions/score"},
    "biology_score": {"$ref": "#/definitions/score"},
    "english_score": {"$ref": "#/definitions/score"},
    "geography_score": {"$ref": "#/definitions/score"}
  }
}`)

var responseSchema = validation.MustCompile("prediction response", `{
  "type": "object",
  "required": ["predictions"],
  "properties": {
    "predictions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["career", "probability"],
        "properties": {
          "career": {"type": "string", "minLength": 1},
          "probability": {"type": "number", "minimum": 0, "maximum": 100}
        }
      }
    }
  }
}`)
