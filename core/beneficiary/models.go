package beneficiary

import (
	"strings"
	"time"

	"github.com/trezcool/divyang/core"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	DisabilityPhysical     = "physical"
	DisabilityVisual       = "visual"
	DisabilityHearing      = "hearing"
	DisabilityIntellectual = "intellectual"
	DisabilityMultiple     = "multiple"
	DisabilityOther        = "other"

	DefaultState = "Gujarat"
)

var (
	Genders         = []string{GenderMale, GenderFemale, GenderOther}
	DisabilityTypes = []string{
		DisabilityPhysical, DisabilityVisual, DisabilityHearing,
		DisabilityIntellectual, DisabilityMultiple, DisabilityOther,
	}
)

type Beneficiary struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	DateOfBirth          core.Date `json:"date_of_birth"`
	Gender               string    `json:"gender"`
	DisabilityType       string    `json:"disability_type"`
	DisabilityPercentage *int      `json:"disability_percentage"`
	GuardianName         string    `json:"guardian_name"`
	GuardianPhone        string    `json:"guardian_phone"`
	GuardianEmail        string    `json:"guardian_email"`
	Address              string    `json:"address"`
	City                 string    `json:"city"`
	State                string    `json:"state"`
	Pincode              string    `json:"pincode"`
	AadhaarNumber        string    `json:"aadhaar_number"`
	UDIDNumber           string    `json:"udid_number"`
	Notes                string    `json:"notes"`
	CreatedBy            string    `json:"created_by"`
	CreatedAt            time.Time `json:"created_at"` // UTC
	UpdatedAt            time.Time `json:"updated_at"` // UTC
}

// Age is the age in whole years on the day asOf.
func (b Beneficiary) Age(asOf time.Time) int {
	return CalculateAge(b.DateOfBirth.Time, asOf)
}

// Draft holds the fields a staff member submits to create or update a Beneficiary.
type Draft struct {
	Name                 string `json:"name" validate:"required,min=2,max=100"`
	DateOfBirth          string `json:"date_of_birth" validate:"required,pastdate"`
	Gender               string `json:"gender" validate:"required,oneof=male female other"`
	DisabilityType       string `json:"disability_type" validate:"required,oneof=physical visual hearing intellectual multiple other"`
	DisabilityPercentage *int   `json:"disability_percentage" validate:"omitempty,min=0,max=100"`
	GuardianName         string `json:"guardian_name" validate:"required,min=2,max=100"`
	GuardianPhone        string `json:"guardian_phone" validate:"required,phone"`
	GuardianEmail        string `json:"guardian_email" validate:"omitempty,email"`
	Address              string `json:"address" validate:"required,min=5,max=500"`
	City                 string `json:"city" validate:"required,min=2,max=100"`
	State                string `json:"state" validate:"required,min=2,max=100"`
	Pincode              string `json:"pincode" validate:"required,pincode"`
	AadhaarNumber        string `json:"aadhaar_number" validate:"omitempty,max=12"`
	UDIDNumber           string `json:"udid_number" validate:"omitempty,max=50"`
	Notes                string `json:"notes" validate:"omitempty,max=1000"`
}

// spaces and dashes people type between phone digit groups
var phoneSeparators = strings.NewReplacer(" ", "", "-", "")

// Validate cleans then validates the Draft.
func (d *Draft) Validate() error {
	d.Name = core.CleanString(d.Name)
	d.DateOfBirth = core.CleanString(d.DateOfBirth)
	d.Gender = core.CleanString(d.Gender, true /* lower */)
	d.DisabilityType = core.CleanString(d.DisabilityType, true /* lower */)
	d.GuardianName = core.CleanString(d.GuardianName)
	d.GuardianPhone = phoneSeparators.Replace(core.CleanString(d.GuardianPhone))
	d.GuardianEmail = core.CleanString(d.GuardianEmail, true /* lower */)
	d.Address = core.CleanString(d.Address)
	d.City = core.CleanString(d.City)
	d.State = core.CleanString(d.State)
	if d.State == "" {
		d.State = DefaultState
	}
	d.Pincode = core.CleanString(d.Pincode)
	d.AadhaarNumber = core.CleanString(d.AadhaarNumber)
	d.UDIDNumber = core.CleanString(d.UDIDNumber)
	d.Notes = core.CleanString(d.Notes)

	return core.Validate.Struct(d)
}

// apply copies the Draft onto b. The Draft must be valid.
func (d Draft) apply(b *Beneficiary) error {
	dob, err := core.ParseDate(d.DateOfBirth)
	if err != nil {
		return core.NewFieldError("date_of_birth", err)
	}
	b.Name = d.Name
	b.DateOfBirth = dob
	b.Gender = d.Gender
	b.DisabilityType = d.DisabilityType
	b.DisabilityPercentage = ClampPercentage(d.DisabilityPercentage)
	b.GuardianName = d.GuardianName
	b.GuardianPhone = d.GuardianPhone
	b.GuardianEmail = d.GuardianEmail
	b.Address = d.Address
	b.City = d.City
	b.State = d.State
	b.Pincode = d.Pincode
	b.AadhaarNumber = d.AadhaarNumber
	b.UDIDNumber = d.UDIDNumber
	b.Notes = d.Notes
	return nil
}

// ClampPercentage bounds p to [0, 100]; nil stays nil.
func ClampPercentage(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	return &v
}

type QueryFilter struct {
	// Search does a case-insensitive match on one of name, guardian_name or city.
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool { return qf == nil || qf.Search == "" }

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
