package attendance

import (
	"time"

	"github.com/trezcool/divyang/core"
)

// Record is the explicit mark of one Beneficiary on one day.
// At most one Record exists per (BeneficiaryID, Date).
type Record struct {
	ID            string    `json:"id"`
	BeneficiaryID string    `json:"beneficiary_id"`
	Date          core.Date `json:"date"`
	Present       bool      `json:"present"`
	Notes         string    `json:"notes"`
	MarkedBy      string    `json:"marked_by"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

// Summary counts the marks of a day.
type Summary struct {
	Total    int `json:"total"`
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Unmarked int `json:"unmarked"`
}

// Day is the attendance sheet of a date: the roster and its marks.
type Day struct {
	Date     core.Date `json:"date"`
	Roster   []Entry   `json:"beneficiaries"`
	Snapshot Snapshot  `json:"snapshot"`
	Summary  Summary   `json:"summary"`
}

// Entry is a roster line of a Day. Present is nil while unmarked.
type Entry struct {
	BeneficiaryID  string `json:"beneficiary_id"`
	Name           string `json:"name"`
	DisabilityType string `json:"disability_type"`
	Present        *bool  `json:"present"`
}

// Marks is a submitted attendance sheet.
type Marks struct {
	Date  string          `json:"date" validate:"required,datefmt"`
	Marks map[string]bool `json:"marks"`
}

func (m *Marks) Validate() error {
	m.Date = core.CleanString(m.Date)
	return core.Validate.Struct(m)
}

// Parsed returns the date and the Snapshot of a validated sheet.
func (m Marks) Parsed() (core.Date, Snapshot, error) {
	date, err := core.ParseDate(m.Date)
	if err != nil {
		return core.Date{}, nil, core.NewFieldError("date", err)
	}
	snap := make(Snapshot, len(m.Marks))
	for id, present := range m.Marks {
		snap[id] = present
	}
	return date, snap, nil
}
