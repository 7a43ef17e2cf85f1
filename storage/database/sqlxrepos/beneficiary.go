package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
)

const beneficiaryColumns = `id, name, date_of_birth, gender, disability_type, disability_percentage,
	guardian_name, guardian_phone, guardian_email, address, city, state, pincode,
	aadhaar_number, udid_number, notes, created_by, created_at, updated_at`

var beneficiaryOrderings = map[string]string{"name": "name", "created_at": "created_at"}

type beneficiaryRow struct {
	ID                   string      `db:"id"`
	Name                 string      `db:"name"`
	DateOfBirth          core.Date   `db:"date_of_birth"`
	Gender               string      `db:"gender"`
	DisabilityType       string      `db:"disability_type"`
	DisabilityPercentage null.Int    `db:"disability_percentage"`
	GuardianName         string      `db:"guardian_name"`
	GuardianPhone        string      `db:"guardian_phone"`
	GuardianEmail        null.String `db:"guardian_email"`
	Address              string      `db:"address"`
	City                 string      `db:"city"`
	State                string      `db:"state"`
	Pincode              string      `db:"pincode"`
	AadhaarNumber        null.String `db:"aadhaar_number"`
	UDIDNumber           null.String `db:"udid_number"`
	Notes                null.String `db:"notes"`
	CreatedBy            null.String `db:"created_by"`
	CreatedAt            time.Time   `db:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at"`
}

func marshalBeneficiary(b beneficiary.Beneficiary) beneficiaryRow {
	return beneficiaryRow{
		ID:                   b.ID,
		Name:                 b.Name,
		DateOfBirth:          b.DateOfBirth,
		Gender:               b.Gender,
		DisabilityType:       b.DisabilityType,
		DisabilityPercentage: null.IntFromPtr(b.DisabilityPercentage),
		GuardianName:         b.GuardianName,
		GuardianPhone:        b.GuardianPhone,
		GuardianEmail:        nullString(b.GuardianEmail),
		Address:              b.Address,
		City:                 b.City,
		State:                b.State,
		Pincode:              b.Pincode,
		AadhaarNumber:        nullString(b.AadhaarNumber),
		UDIDNumber:           nullString(b.UDIDNumber),
		Notes:                nullString(b.Notes),
		CreatedBy:            nullString(b.CreatedBy),
		CreatedAt:            b.CreatedAt.UTC(),
		UpdatedAt:            b.UpdatedAt.UTC(),
	}
}

func (r beneficiaryRow) unmarshal() beneficiary.Beneficiary {
	return beneficiary.Beneficiary{
		ID:                   r.ID,
		Name:                 r.Name,
		DateOfBirth:          r.DateOfBirth,
		Gender:               r.Gender,
		DisabilityType:       r.DisabilityType,
		DisabilityPercentage: r.DisabilityPercentage.Ptr(),
		GuardianName:         r.GuardianName,
		GuardianPhone:        r.GuardianPhone,
		GuardianEmail:        r.GuardianEmail.String,
		Address:              r.Address,
		City:                 r.City,
		State:                r.State,
		Pincode:              r.Pincode,
		AadhaarNumber:        r.AadhaarNumber.String,
		UDIDNumber:           r.UDIDNumber.String,
		Notes:                r.Notes.String,
		CreatedBy:            r.CreatedBy.String,
		CreatedAt:            r.CreatedAt.UTC(),
		UpdatedAt:            r.UpdatedAt.UTC(),
	}
}

type beneficiaryRepository struct {
	db *sqlx.DB
}

var _ beneficiary.Repository = (*beneficiaryRepository)(nil) // interface compliance check

func NewBeneficiaryRepository(db *sqlx.DB) beneficiary.Repository {
	return &beneficiaryRepository{db: db}
}

func (repo *beneficiaryRepository) CreateBeneficiary(ctx context.Context, b beneficiary.Beneficiary) (beneficiary.Beneficiary, error) {
	b.ID = uuid.New().String()
	q := `INSERT INTO beneficiaries (` + beneficiaryColumns + `) VALUES (
		:id, :name, :date_of_birth, :gender, :disability_type, :disability_percentage,
		:guardian_name, :guardian_phone, :guardian_email, :address, :city, :state, :pincode,
		:aadhaar_number, :udid_number, :notes, :created_by, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, marshalBeneficiary(b)); err != nil {
		return beneficiary.Beneficiary{}, errors.Wrap(err, "inserting beneficiary")
	}
	return b, nil
}

func (repo *beneficiaryRepository) QueryBeneficiaries(
	ctx context.Context,
	filter *beneficiary.QueryFilter,
	ordering []core.DBOrdering,
) ([]beneficiary.Beneficiary, error) {
	w := &where{}
	if !filter.IsEmpty() && filter.Search != "" {
		w.add("(name ILIKE $%d OR guardian_name ILIKE $%[1]d OR city ILIKE $%[1]d)", "%"+filter.Search+"%")
	}
	q := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries` + w.String() +
		orderBy(ordering, beneficiaryOrderings, "name ASC") + ", id ASC"

	var rows []beneficiaryRow
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting beneficiaries")
	}
	bens := make([]beneficiary.Beneficiary, 0, len(rows))
	for _, r := range rows {
		bens = append(bens, r.unmarshal())
	}
	return bens, nil
}

func (repo *beneficiaryRepository) GetBeneficiary(ctx context.Context, id string) (beneficiary.Beneficiary, error) {
	if _, err := uuid.Parse(id); err != nil {
		return beneficiary.Beneficiary{}, beneficiary.ErrNotFound
	}
	var row beneficiaryRow
	q := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return beneficiary.Beneficiary{}, trapNoRowsErr(err, beneficiary.ErrNotFound, "selecting beneficiary")
	}
	return row.unmarshal(), nil
}

func (repo *beneficiaryRepository) UpdateBeneficiary(ctx context.Context, b beneficiary.Beneficiary) (beneficiary.Beneficiary, error) {
	q := `UPDATE beneficiaries SET name = :name, date_of_birth = :date_of_birth, gender = :gender,
		disability_type = :disability_type, disability_percentage = :disability_percentage,
		guardian_name = :guardian_name, guardian_phone = :guardian_phone, guardian_email = :guardian_email,
		address = :address, city = :city, state = :state, pincode = :pincode,
		aadhaar_number = :aadhaar_number, udid_number = :udid_number, notes = :notes, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, marshalBeneficiary(b))
	if err != nil {
		return beneficiary.Beneficiary{}, errors.Wrap(err, "updating beneficiary")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return beneficiary.Beneficiary{}, beneficiary.ErrNotFound
	}
	return b, nil
}

func (repo *beneficiaryRepository) CountBeneficiaries(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM beneficiaries`); err != nil {
		return 0, errors.Wrap(err, "counting beneficiaries")
	}
	return count, nil
}
