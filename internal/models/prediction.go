package models

// PredictionRequest is a single event sent to a deployed detector.
type PredictionRequest struct {
	DetectorID        string            `json:"detectorId" validate:"required"`
	DetectorVersionID string            `json:"detectorVersionId"`
	EventID           string            `json:"eventId" validate:"required"`
	EventTypeName     string            `json:"eventTypeName" validate:"required"`
	EventTimestamp    string            `json:"eventTimestamp"`
	EntityType        string            `json:"entityType" validate:"required"`
	EntityID          string            `json:"entityId" validate:"required"`
	Variables         map[string]string `json:"eventVariables" validate:"required,min=1"`
}

func (r PredictionRequest) Validate() error {
	return validateStruct(r)
}

// PredictionResult holds the model scores and the outcomes of the rules that matched.
type PredictionResult struct {
	EventID      string             `json:"eventId"`
	ModelScores  map[string]float32 `json:"modelScores"`
	MatchedRules []string           `json:"matchedRules"`
	Outcomes     []string           `json:"outcomes"`
}
