package attendance

import (
	"sort"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
)

// Snapshot holds the marks of one day: beneficiary ID -> present.
// A missing key means the Beneficiary is unmarked, which is distinct from absent.
type Snapshot map[string]bool

// BuildSnapshot overlays the Records of a day on the roster.
// Beneficiaries without a Record stay unmarked; Records of unknown Beneficiaries are ignored.
func BuildSnapshot(bens []beneficiary.Beneficiary, records []Record) Snapshot {
	known := make(map[string]bool, len(bens))
	for _, ben := range bens {
		known[ben.ID] = true
	}
	snap := make(Snapshot, len(records))
	for _, rec := range records {
		if known[rec.BeneficiaryID] {
			snap[rec.BeneficiaryID] = rec.Present
		}
	}
	return snap
}

// MarkAll returns a Snapshot marking every Beneficiary present, whatever was marked before.
func MarkAll(bens []beneficiary.Beneficiary) Snapshot {
	snap := make(Snapshot, len(bens))
	for _, ben := range bens {
		snap[ben.ID] = true
	}
	return snap
}

// State returns the mark of id and whether it is marked at all.
func (s Snapshot) State(id string) (present, marked bool) {
	present, marked = s[id]
	return
}

// Set marks id present or absent.
func (s Snapshot) Set(id string, present bool) { s[id] = present }

// Toggle flips the mark of id; an unmarked id becomes present. There is no way back to unmarked.
func (s Snapshot) Toggle(id string) {
	present, marked := s[id]
	s[id] = !marked || !present
}

// ToInsertableRows turns every explicit mark into a Record of date, ordered by beneficiary ID.
func ToInsertableRows(s Snapshot, date core.Date, markedBy string) []Record {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]Record, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, Record{
			BeneficiaryID: id,
			Date:          date,
			Present:       s[id],
			MarkedBy:      markedBy,
		})
	}
	return rows
}

// Summarize counts the roster's present, absent and unmarked Beneficiaries.
func Summarize(bens []beneficiary.Beneficiary, s Snapshot) Summary {
	sum := Summary{Total: len(bens)}
	for _, ben := range bens {
		present, marked := s.State(ben.ID)
		switch {
		case !marked:
			sum.Unmarked++
		case present:
			sum.Present++
		default:
			sum.Absent++
		}
	}
	return sum
}
