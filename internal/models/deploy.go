package models

// DeployResult is returned once a detector version has been activated.
type DeployResult struct {
	DetectorVersionID string `json:"detectorVersionId"`
	DetectorID        string `json:"detectorId"`
}
