package models

// PredictionRequest is the body POSTed to the prediction service.
// Categorical answers are encoded as 0/1.
type PredictionRequest struct {
	Gender                    int     `json:"gender"`
	PartTimeJob               int     `json:"part_time_job"`
	ExtracurricularActivities int     `json:"extracurricular_activities"`
	WeeklyStudyHours          int     `json:"weekly_study_hours"`
	MathScore                 float64 `json:"math_score"`
	HistoryScore              float64 `json:"history_score"`
	PhysicsScore              float64 `json:"physics_score"`
	ChemistryScore            float64 `json:"chemistry_score"`
	BiologyScore              float64 `json:"biology_score"`
	EnglishScore              float64 `json:"english_score"`
	GeographyScore            float64 `json:"geography_score"`
}

// Prediction is one recommended career. Probability is a percentage.
type Prediction struct {
	Career      string  `json:"career"`
	Probability float64 `json:"probability"`
}

// PredictionResponse is the success body; the service sorts by probability.
type PredictionResponse struct {
	Predictions []Prediction `json:"predictions"`
}
