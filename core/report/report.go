package report

import (
	"context"
	"strconv"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
)

// Kind names an exportable report.
type Kind string

const (
	KindBeneficiaries Kind = "beneficiaries"
	KindAttendance    Kind = "attendance"

	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	// AttendanceLimit caps the attendance report to the latest records.
	AttendanceLimit = 1000
)

var (
	ErrNoData      = errors.New("No data to export")
	ErrUnknownKind = errors.New("unknown report type")
)

func (k Kind) IsValid() bool { return k == KindBeneficiaries || k == KindAttendance }

// Table is a rectangular report, every value rendered as text.
type Table struct {
	Headers []string
	Rows    [][]string
}

// FileName is the name an export is downloaded as: {kind}-{YYYY-MM-DD}.{format}
func FileName(kind Kind, format string, day time.Time) string {
	return string(kind) + "-" + day.Format(core.DateLayout) + "." + format
}

// AttendanceRow is an attendance Record joined with its Beneficiary.
type AttendanceRow struct {
	Date            core.Date
	BeneficiaryName string
	DisabilityType  string
	Present         bool
	Notes           string
}

type (
	// AttendanceRepository lists AttendanceRows, latest first.
	AttendanceRepository interface {
		QueryAttendanceReport(ctx context.Context, limit int) ([]AttendanceRow, error)
	}

	BeneficiaryLister interface {
		Query(ctx context.Context, filter *beneficiary.QueryFilter, ordering []core.DBOrdering) ([]beneficiary.Beneficiary, error)
	}

	Service struct {
		bens       BeneficiaryLister
		attendance AttendanceRepository
	}
)

func NewService(bens BeneficiaryLister, attendance AttendanceRepository) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(bens, "bens"),
		vala.IsNotNil(attendance, "attendance"),
	).CheckAndPanic()

	return &Service{bens: bens, attendance: attendance}
}

// Build assembles the report of kind. It fails with ErrNoData when there is nothing to export.
func (svc *Service) Build(ctx context.Context, kind Kind) (Table, error) {
	var t Table
	switch kind {
	case KindBeneficiaries:
		bens, err := svc.bens.Query(ctx, nil, beneficiary.OrderByName)
		if err != nil {
			return Table{}, err
		}
		t = BeneficiariesTable(bens)
	case KindAttendance:
		rows, err := svc.attendance.QueryAttendanceReport(ctx, AttendanceLimit)
		if err != nil {
			return Table{}, err
		}
		t = AttendanceTable(rows)
	default:
		return Table{}, ErrUnknownKind
	}
	if len(t.Rows) == 0 {
		return Table{}, ErrNoData
	}
	return t, nil
}

func BeneficiariesTable(bens []beneficiary.Beneficiary) Table {
	t := Table{Headers: []string{
		"id", "name", "date_of_birth", "gender", "disability_type", "disability_percentage",
		"guardian_name", "guardian_phone", "guardian_email", "address", "city", "state", "pincode",
		"aadhaar_number", "udid_number", "notes", "created_by", "created_at", "updated_at",
	}}
	for _, b := range bens {
		var pct string
		if b.DisabilityPercentage != nil {
			pct = strconv.Itoa(*b.DisabilityPercentage)
		}
		t.Rows = append(t.Rows, []string{
			b.ID, b.Name, b.DateOfBirth.String(), b.Gender, b.DisabilityType, pct,
			b.GuardianName, b.GuardianPhone, b.GuardianEmail, b.Address, b.City, b.State, b.Pincode,
			b.AadhaarNumber, b.UDIDNumber, b.Notes, b.CreatedBy,
			b.CreatedAt.UTC().Format(time.RFC3339), b.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return t
}

func AttendanceTable(rows []AttendanceRow) Table {
	t := Table{Headers: []string{"date", "beneficiary_name", "disability_type", "present", "notes"}}
	for _, row := range rows {
		present := "No"
		if row.Present {
			present = "Yes"
		}
		t.Rows = append(t.Rows, []string{row.Date.String(), row.BeneficiaryName, row.DisabilityType, present, row.Notes})
	}
	return t
}
