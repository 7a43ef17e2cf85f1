package beneficiary

import "time"

// CalculateAge returns the number of full years between dob and asOf:
// the difference in calendar years, minus one if asOf's (month, day) comes before dob's.
// A dob after asOf yields a negative age.
func CalculateAge(dob, asOf time.Time) int {
	age := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		age--
	}
	return age
}
