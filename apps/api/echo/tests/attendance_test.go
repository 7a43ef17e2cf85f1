package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/divyang/core/attendance"
)

func Test_attendanceApi(t *testing.T) {
	e := setup(t)
	token := e.token(t, e.staff)
	asha := createBeneficiary(t, e, "Asha", "Surat")
	bhavin := createBeneficiary(t, e, "Bhavin", "Surat")
	chetan := createBeneficiary(t, e, "Chetan", "Surat")

	getDay := func(t *testing.T, path string) attendance.Day {
		rec := e.do(newAuthRequest(http.MethodGet, path, token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var day attendance.Day
		unmarshall(t, rec, &day)
		return day
	}

	runHTTPTests(t, e, []httpTest{
		{name: "auth required", path: "/v1/attendance", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "bad date", path: "/v1/attendance?date=12-05-2024", token: token,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{
				Error:  "date must be a valid date (YYYY-MM-DD)",
				Fields: map[string]string{"date": "date must be a valid date (YYYY-MM-DD)"},
			}),
		},
	})

	t.Run("empty day", func(t *testing.T) {
		day := getDay(t, "/v1/attendance?date=2024-05-12")
		assert.Equal(t, "2024-05-12", day.Date.String())
		require.Len(t, day.Roster, 3)
		assert.Nil(t, day.Roster[0].Present)
		assert.Equal(t, attendance.Summary{Total: 3, Unmarked: 3}, day.Summary)
	})

	t.Run("unknown beneficiary", func(t *testing.T) {
		body := []byte(`{"date": "2024-05-12", "marks": {"ghost": true}}`)
		rec := e.do(newAuthRequest(http.MethodPut, "/v1/attendance", token, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var got httpErr
		unmarshall(t, rec, &got)
		assert.Contains(t, got.Fields["marks"], "ghost")
	})

	t.Run("save then replace", func(t *testing.T) {
		body := fmt.Sprintf(`{"date": "2024-05-12", "marks": {%q: true, %q: false, %q: true}}`, asha.ID, bhavin.ID, chetan.ID)
		rec := e.do(newAuthRequest(http.MethodPut, "/v1/attendance", token, []byte(body)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		day := getDay(t, "/v1/attendance?date=2024-05-12")
		assert.Equal(t, attendance.Summary{Total: 3, Present: 2, Absent: 1}, day.Summary)

		// leaving chetan out unmarks him
		body = fmt.Sprintf(`{"date": "2024-05-12", "marks": {%q: false, %q: true}}`, asha.ID, bhavin.ID)
		rec = e.do(newAuthRequest(http.MethodPut, "/v1/attendance", token, []byte(body)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		day = getDay(t, "/v1/attendance?date=2024-05-12")
		assert.Equal(t, attendance.Summary{Total: 3, Present: 1, Absent: 1, Unmarked: 1}, day.Summary)
		assert.Equal(t, attendance.Snapshot{asha.ID: false, bhavin.ID: true}, day.Snapshot)

		// other days are untouched
		day = getDay(t, "/v1/attendance?date=2024-05-13")
		assert.Equal(t, 3, day.Summary.Unmarked)
	})

	t.Run("mark all present saves nothing", func(t *testing.T) {
		rec := e.do(newAuthRequest(http.MethodPost, "/v1/attendance/mark-all", token, []byte(`{"date": "2024-06-01"}`)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var day attendance.Day
		unmarshall(t, rec, &day)
		assert.Equal(t, attendance.Summary{Total: 3, Present: 3}, day.Summary)

		day = getDay(t, "/v1/attendance?date=2024-06-01")
		assert.Equal(t, 3, day.Summary.Unmarked)
	})
}
