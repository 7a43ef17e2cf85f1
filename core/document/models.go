package document

import (
	"time"

	"github.com/trezcool/divyang/core"
)

// Type is the kind of supporting document.
type Type string

const (
	TypeDisabilityCertificate Type = "disability_certificate"
	TypeIdentityProof         Type = "identity_proof"
	TypePassportPhoto         Type = "passport_photo"
	TypeBirthCertificate      Type = "birth_certificate"
	TypeMedicalReport         Type = "medical_report"
	TypeIncomeCertificate     Type = "income_certificate"
	TypeCasteCertificate      Type = "caste_certificate"
)

// RequiredTypes lists every document a Beneficiary's file must hold, in display order.
var RequiredTypes = []Type{
	TypeDisabilityCertificate,
	TypeIdentityProof,
	TypePassportPhoto,
	TypeBirthCertificate,
	TypeMedicalReport,
	TypeIncomeCertificate,
	TypeCasteCertificate,
}

var typeInfos = map[Type]TypeInfo{
	TypeDisabilityCertificate: {
		Value:       TypeDisabilityCertificate,
		Label:       "Disability Certificate",
		Description: "Official certificate issued by a medical authority stating the type and percentage of disability",
	},
	TypeIdentityProof: {
		Value:       TypeIdentityProof,
		Label:       "Identity Proof (Aadhaar Card)",
		Description: "Aadhaar card or another government issued identity document",
	},
	TypePassportPhoto: {
		Value:       TypePassportPhoto,
		Label:       "Passport Size Photo",
		Description: "Recent passport size photograph of the beneficiary",
	},
	TypeBirthCertificate: {
		Value:       TypeBirthCertificate,
		Label:       "Birth Certificate",
		Description: "Birth certificate issued by the municipal corporation or gram panchayat",
	},
	TypeMedicalReport: {
		Value:       TypeMedicalReport,
		Label:       "Medical Report",
		Description: "Latest medical assessment or treatment report",
	},
	TypeIncomeCertificate: {
		Value:       TypeIncomeCertificate,
		Label:       "Income Certificate",
		Description: "Family income certificate issued by the mamlatdar or talati",
	},
	TypeCasteCertificate: {
		Value:       TypeCasteCertificate,
		Label:       "Caste Certificate",
		Description: "Caste certificate, when applicable, for scheme eligibility",
	},
}

// TypeInfo describes a Type for display.
type TypeInfo struct {
	Value       Type   `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func (t Type) IsValid() bool {
	_, ok := typeInfos[t]
	return ok
}

func (t Type) Label() string {
	if info, ok := typeInfos[t]; ok {
		return info.Label
	}
	return string(t)
}

// TypeInfos returns the TypeInfo of every RequiredTypes entry, in order.
func TypeInfos() []TypeInfo {
	infos := make([]TypeInfo, 0, len(RequiredTypes))
	for _, t := range RequiredTypes {
		infos = append(infos, typeInfos[t])
	}
	return infos
}

// Status is the review state of a Document.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type Document struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          Type      `json:"type"`
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	UploadedBy    string    `json:"uploaded_by"`
	BeneficiaryID string    `json:"beneficiary_id"`
	Status        Status    `json:"status"`
	Notes         string    `json:"notes"`
	UploadedAt    time.Time `json:"uploaded_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"`  // UTC
}

// StatusUpdate is a reviewer's decision on a Document.
type StatusUpdate struct {
	Status Status `json:"status" validate:"required,docstatus"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

func (su *StatusUpdate) Validate() error {
	su.Status = Status(core.CleanString(string(su.Status), true /* lower */))
	su.Notes = core.CleanString(su.Notes)
	return core.Validate.Struct(su)
}

// QueryFilter applies AND operation on its non-empty fields.
type QueryFilter struct {
	UploadedBy    string `query:"-"`
	BeneficiaryID string `query:"beneficiary_id"`
	// Search does a case-insensitive match on the document name.
	Search string `query:"search"`
	Type   Type   `query:"type"`
	Status Status `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil || *qf == QueryFilter{}
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Type = Type(core.CleanString(string(qf.Type), true /* lower */))
	qf.Status = Status(core.CleanString(string(qf.Status), true /* lower */))
}
