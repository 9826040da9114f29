package amqp

import (
	"encoding/json"
	"time"
)

// ReportSyncMessage asks the worker to export the monthly results of one
// stored analysis. It carries only the ID; the worker reads the rows from
// the database.
type ReportSyncMessage struct {
	AnalysisID int64     `json:"analysis_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewReportSyncMessage creates a sync message for an analysis.
func NewReportSyncMessage(analysisID int64) *ReportSyncMessage {
	return &ReportSyncMessage{
		AnalysisID: analysisID,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportSyncMessageFromJSON creates a message from JSON bytes
func ReportSyncMessageFromJSON(data []byte) (*ReportSyncMessage, error) {
	var msg ReportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
