package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
)

func roster(ids ...string) []beneficiary.Beneficiary {
	bens := make([]beneficiary.Beneficiary, 0, len(ids))
	for _, id := range ids {
		bens = append(bens, beneficiary.Beneficiary{ID: id, Name: "Beneficiary " + id})
	}
	return bens
}

func TestBuildSnapshot(t *testing.T) {
	bens := roster("A", "B", "C")
	records := []Record{
		{BeneficiaryID: "A", Present: true},
		{BeneficiaryID: "B", Present: false},
		{BeneficiaryID: "Z", Present: true}, // not on the roster
	}

	snap := BuildSnapshot(bens, records)

	assert.Equal(t, Snapshot{"A": true, "B": false}, snap)
	present, marked := snap.State("C")
	assert.False(t, marked)
	assert.False(t, present)

	assert.Equal(t, Summary{Total: 3, Present: 1, Absent: 1, Unmarked: 1}, Summarize(bens, snap))
}

func TestBuildSnapshot_NoRecords(t *testing.T) {
	snap := BuildSnapshot(roster("A", "B"), nil)
	assert.Empty(t, snap)
	assert.Empty(t, ToInsertableRows(snap, core.NewDate(2024, time.June, 15), "u1"))
}

func TestMarkAll(t *testing.T) {
	bens := roster("A", "B", "C")
	snap := BuildSnapshot(bens, []Record{{BeneficiaryID: "B", Present: false}})

	all := MarkAll(bens)

	assert.Equal(t, Snapshot{"A": true, "B": true, "C": true}, all)
	assert.Equal(t, Summary{Total: 3, Present: 3}, Summarize(bens, all))
	assert.Equal(t, Snapshot{"B": false}, snap, "MarkAll must not modify other snapshots")
}

func TestSnapshot_SetToggle(t *testing.T) {
	snap := Snapshot{}

	snap.Toggle("A") // unmarked -> present
	assert.Equal(t, Snapshot{"A": true}, snap)
	snap.Toggle("A") // present -> absent
	assert.Equal(t, Snapshot{"A": false}, snap)
	snap.Toggle("A") // absent -> present
	assert.Equal(t, Snapshot{"A": true}, snap)

	snap.Set("B", false)
	snap.Set("A", false)
	assert.Equal(t, Snapshot{"A": false, "B": false}, snap)
}

func TestToInsertableRows(t *testing.T) {
	date := core.NewDate(2024, time.June, 15)
	snap := BuildSnapshot(roster("C", "A", "B"), []Record{
		{BeneficiaryID: "C", Present: true},
		{BeneficiaryID: "A", Present: false},
	})

	rows := ToInsertableRows(snap, date, "u1")

	assert.Equal(t, []Record{
		{BeneficiaryID: "A", Date: date, Present: false, MarkedBy: "u1"},
		{BeneficiaryID: "C", Date: date, Present: true, MarkedBy: "u1"},
	}, rows)
}
