package amqp

import (
	"encoding/json"
	"time"
)

// ReportExportMessage asks the report worker to materialize the CSV and PDF
// files for one user's month. The worker rebuilds the summary from the
// database, so the message carries only the coordinates, not the data.
type ReportExportMessage struct {
	UserID    int64     `json:"user_id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportExportMessage creates an export request for (userID, year, month).
func NewReportExportMessage(userID int64, year, month int) *ReportExportMessage {
	return &ReportExportMessage{
		UserID:    userID,
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportExportMessageFromJSON creates a message from JSON bytes.
func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
