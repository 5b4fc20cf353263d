package movement

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Movement types the reconciler and the request form know by name.
// Others are accepted as free text when the incidence table allows them.
const (
	TypeJustifiedTardy   = "Retardo justificado"
	TypeJustifiedAbsence = "Falta justificada"
	TypeEarlyDeparture   = "Salida anticipada"
)

// DefaultApprovalLevel is the first step of the external approval chain.
const DefaultApprovalLevel = 1

// Movement is a correction request for one day of attendance. Once created it
// belongs to the external approval workflow; this service only reads it back.
type Movement struct {
	ID             int64
	EmployeeNumber int
	IncidentDate   calendar.Date
	MovementType   string
	ApprovalStatus ApprovalStatus
	ApprovalLevel  int
	Comments       string
	Details        Details
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsApproved reports whether the request counts as a justification.
func (m Movement) IsApproved() bool {
	return m.ApprovalStatus == StatusApproved
}

// Details carries the clock times relevant to the requested correction.
type Details struct {
	EntryTime string `json:"entryTime"`
	EarlyTime string `json:"earlyTime"`
	DelayTime string `json:"delayTime"`
	ExitTime  string `json:"exitTime"`
}

// DetailsFor derives the justification details the same way the request form
// does: the delay is the actual entry for tardies, the early time is the
// actual exit for early departures.
func DetailsFor(movementType string, actualEntry, actualExit string) Details {
	d := Details{EntryTime: actualEntry}
	switch movementType {
	case TypeEarlyDeparture:
		d.EarlyTime = actualExit
	case TypeJustifiedTardy:
		d.DelayTime = actualEntry
	}
	return d
}

// Value implements driver.Valuer for database storage
func (d Details) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for database retrieval
func (d *Details) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Details{}
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return errors.New("failed to scan Details: invalid type")
	}
}
