package employee

type EmployeeResponse struct {
	Number        int     `json:"number"`
	FullName      string  `json:"full_name"`
	FirstName     string  `json:"first_name"`
	PaternalName  string  `json:"paternal_name"`
	MaternalName  string  `json:"maternal_name"`
	Position      string  `json:"position"`
	Department    string  `json:"department"`
	PayPeriodType string  `json:"pay_period_type"`
	Status        string  `json:"status"`
	Active        bool    `json:"active"`
	PhotoURL      *string `json:"photo_url"`
}

// PayPeriodUnspecified is shown when HR has not set a pay period.
const PayPeriodUnspecified = "No especificado"

func ToResponse(e Employee) EmployeeResponse {
	payPeriod := PayPeriodUnspecified
	if e.PayPeriodType != nil && *e.PayPeriodType != "" {
		payPeriod = *e.PayPeriodType
	}
	return EmployeeResponse{
		Number:        e.Number,
		FullName:      e.FullName(),
		FirstName:     e.FirstName,
		PaternalName:  e.PaternalName,
		MaternalName:  e.MaternalName,
		Position:      e.Position,
		Department:    e.Department,
		PayPeriodType: payPeriod,
		Status:        e.Status,
		Active:        e.IsActive(),
		PhotoURL:      e.PhotoURL,
	}
}
