package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/dashboard"
)

func Test_dashboardApi_stats(t *testing.T) {
	e := setup(t)
	token := e.token(t, e.staff)

	runHTTPTests(t, e, []httpTest{
		{name: "auth required", path: "/v1/dashboard/stats", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "empty", path: "/v1/dashboard/stats", token: token, wantCode: http.StatusOK, wantData: marshallObj(t, dashboard.Stats{})},
	})

	asha := createBeneficiary(t, e, "Asha", "Surat")
	bhavin := createBeneficiary(t, e, "Bhavin", "Surat")
	createBeneficiary(t, e, "Chetan", "Surat")

	body := fmt.Sprintf(`{"date": %q, "marks": {%q: true, %q: false}}`, core.Today().String(), asha.ID, bhavin.ID)
	rec := e.do(newAuthRequest(http.MethodPut, "/v1/attendance", token, []byte(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	uploadDocument(t, e, token, map[string]string{"type": "identity_proof", "beneficiary_id": asha.ID}, "id.png")

	rec = e.do(newAuthRequest(http.MethodGet, "/v1/dashboard/stats", token))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats dashboard.Stats
	unmarshall(t, rec, &stats)
	assert.Equal(t, dashboard.Stats{TotalBeneficiaries: 3, TodayAttendance: 2, PresentToday: 1, TotalDocuments: 1}, stats)
}
