package employee

import "time"

const (
	StatusActive   = "ALTA"
	StatusInactive = "BAJA"
)

// Employee is the HR master record, keyed by the number the time clock uses.
type Employee struct {
	Number        int
	FirstName     string
	PaternalName  string
	MaternalName  string
	Position      string
	Department    string
	PayPeriodType *string
	Status        string
	PhotoURL      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Employee) FullName() string {
	name := e.FirstName
	for _, part := range []string{e.PaternalName, e.MaternalName} {
		if part != "" {
			name += " " + part
		}
	}
	return name
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
