package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func docsOf(types ...Type) []Document {
	docs := make([]Document, 0, len(types))
	for _, t := range types {
		docs = append(docs, Document{Type: t, Status: StatusPending})
	}
	return docs
}

func TestComputeCompletion(t *testing.T) {
	tests := []struct {
		name     string
		required []Type
		docs     []Document
		want     CompletionStats
	}{
		{
			name:     "no documents",
			required: RequiredTypes,
			want:     CompletionStats{TotalRequired: 7, MissingTypes: RequiredTypes, Percentage: 0},
		},
		{
			name:     "duplicates count once",
			required: RequiredTypes,
			docs:     docsOf(TypeDisabilityCertificate, TypeDisabilityCertificate, TypeIdentityProof),
			want: CompletionStats{
				Total:         3,
				Completed:     2,
				TotalRequired: 7,
				MissingTypes: []Type{
					TypePassportPhoto, TypeBirthCertificate, TypeMedicalReport,
					TypeIncomeCertificate, TypeCasteCertificate,
				},
				Percentage: 29,
			},
		},
		{
			name:     "all present",
			required: RequiredTypes,
			docs:     docsOf(RequiredTypes...),
			want:     CompletionStats{Total: 7, Completed: 7, TotalRequired: 7, MissingTypes: []Type{}, Percentage: 100},
		},
		{
			name:     "unknown types are ignored",
			required: []Type{TypeIdentityProof, TypePassportPhoto},
			docs:     docsOf(Type("ration_card"), TypeMedicalReport),
			want: CompletionStats{
				Total:         2,
				TotalRequired: 2,
				MissingTypes:  []Type{TypeIdentityProof, TypePassportPhoto},
			},
		},
		{
			name:     "half rounds up",
			required: []Type{TypeIdentityProof, TypePassportPhoto, TypeBirthCertificate, TypeMedicalReport, TypeIncomeCertificate, TypeCasteCertificate, TypeDisabilityCertificate, Type("extra")},
			docs:     docsOf(TypeIdentityProof),
			want: CompletionStats{
				Total:         1,
				Completed:     1,
				TotalRequired: 8,
				MissingTypes:  []Type{TypePassportPhoto, TypeBirthCertificate, TypeMedicalReport, TypeIncomeCertificate, TypeCasteCertificate, TypeDisabilityCertificate, Type("extra")},
				Percentage:    13,
			},
		},
		{
			name:     "nothing required",
			required: nil,
			docs:     docsOf(TypeIdentityProof),
			want:     CompletionStats{Total: 1, MissingTypes: []Type{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCompletion(tt.required, tt.docs)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.required), got.Completed+len(got.MissingTypes))
		})
	}
}

func TestComputeCompletion_Monotone(t *testing.T) {
	var docs []Document
	prev := ComputeCompletion(RequiredTypes, docs).Percentage
	for _, typ := range append(RequiredTypes, TypeIdentityProof, Type("other")) {
		docs = append(docs, Document{Type: typ})
		pct := ComputeCompletion(RequiredTypes, docs).Percentage
		assert.GreaterOrEqual(t, pct, prev)
		prev = pct
	}
	assert.Equal(t, 100, prev)
}

func TestCompletionLevel(t *testing.T) {
	assert.Equal(t, LevelComplete, CompletionLevel(100))
	assert.Equal(t, LevelNearly, CompletionLevel(71))
	assert.Equal(t, LevelNearly, CompletionLevel(70))
	assert.Equal(t, LevelIncomplete, CompletionLevel(69))
	assert.Equal(t, LevelIncomplete, CompletionLevel(0))
}

func TestComputeStats(t *testing.T) {
	docs := []Document{
		{Type: TypeIdentityProof, Status: StatusPending},
		{Type: TypeIdentityProof, Status: StatusApproved},
		{Type: TypeMedicalReport, Status: StatusRejected},
		{Type: TypePassportPhoto, Status: StatusApproved},
	}
	assert.Equal(t, Stats{
		Total:    4,
		Pending:  1,
		Approved: 2,
		Rejected: 1,
		ByType:   map[Type]int{TypeIdentityProof: 2, TypeMedicalReport: 1, TypePassportPhoto: 1},
	}, ComputeStats(docs))
}
