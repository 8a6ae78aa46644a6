package integration_tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/controllers"
	"github.com/surau-digital/surauhub/db/models"
)

type PreacherTestSuite struct {
	TestSuite
	preachers []models.Preacher
}

func (suite *PreacherTestSuite) SetupSuite() {
	suite.setup()
	for _, nama := range []string{"Ustaz Kamil", "Ustazah Nur"} {
		rec := suite.do(http.MethodPost, "/api/preachers", common.RoleHeadImam, controllers.CreatePreacherRequestBody{Nama: nama, Bidang: "Fiqh"})
		suite.Require().Equal(http.StatusCreated, rec.Code)
		p := models.Preacher{}
		suite.decode(rec, &p)
		suite.preachers = append(suite.preachers, p)
	}
}

func (suite *PreacherTestSuite) TearDownSuite() {
	suite.teardown()
}

func (suite *PreacherTestSuite) schedules(query string) []models.PreacherSchedule {
	rec := suite.do(http.MethodGet, "/api/preacher-schedules?"+query, common.RoleStaff, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	out := []models.PreacherSchedule{}
	suite.decode(rec, &out)
	return out
}

func (suite *PreacherTestSuite) TestBulkUpsertOverwritesSlot() {
	first, second := suite.preachers[0], suite.preachers[1]
	rec := suite.do(http.MethodPost, "/api/preacher-schedules/bulk", common.RoleHeadImam, controllers.BulkScheduleRequestBody{
		Schedules: []controllers.ScheduleEntry{
			{Tarikh: "2024-05-03", Slot: "maghrib", PreacherID: first.ID, Topik: "Solat"},
			{Tarikh: "2024-05-03", Slot: "subuh", PreacherID: second.ID},
		},
	})
	suite.Require().Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPost, "/api/preacher-schedules/bulk", common.RoleAdmin, controllers.BulkScheduleRequestBody{
		Schedules: []controllers.ScheduleEntry{
			{Tarikh: "2024-05-03", Slot: "Maghrib", PreacherID: second.ID, Topik: "Puasa"},
		},
	})
	suite.Require().Equal(http.StatusOK, rec.Code)

	may := suite.schedules("tahun=2024&bulan=5")
	suite.Require().Len(may, 2)
	bySlot := map[string]models.PreacherSchedule{}
	for _, s := range may {
		bySlot[s.Slot] = s
	}
	assert.Equal(suite.T(), second.ID, bySlot["maghrib"].PreacherID)
	assert.Equal(suite.T(), "Puasa", bySlot["maghrib"].Topik)
	assert.Equal(suite.T(), second.ID, bySlot["subuh"].PreacherID)

	assert.Empty(suite.T(), suite.schedules("tahun=2024&bulan=6"))
}

func (suite *PreacherTestSuite) TestBulkValidation() {
	cases := []controllers.ScheduleEntry{
		{Tarikh: "03/05/2024", Slot: "maghrib", PreacherID: suite.preachers[0].ID},
		{Tarikh: "2024-05-04", Slot: "asar", PreacherID: suite.preachers[0].ID},
		{Tarikh: "2024-05-04", Slot: "isyak", PreacherID: 424242},
	}
	for _, entry := range cases {
		rec := suite.do(http.MethodPost, "/api/preacher-schedules/bulk", common.RoleHeadImam, controllers.BulkScheduleRequestBody{
			Schedules: []controllers.ScheduleEntry{entry},
		})
		checkErrResponse(&suite.TestSuite, rec, http.StatusBadRequest)
	}
	checkErrResponse(&suite.TestSuite, suite.do(http.MethodPost, "/api/preacher-schedules/bulk", common.RoleStaff, controllers.BulkScheduleRequestBody{
		Schedules: []controllers.ScheduleEntry{{Tarikh: "2024-05-04", Slot: "isyak", PreacherID: suite.preachers[0].ID}},
	}), http.StatusForbidden)
}

func (suite *PreacherTestSuite) TestDeactivatePreacher() {
	p := suite.preachers[0]
	active := false
	rec := suite.do(http.MethodPut, "/api/preachers/"+itoa(p.ID), common.RoleHeadImam, controllers.UpdatePreacherRequestBody{Active: &active})
	suite.Require().Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodGet, "/api/preachers?active=true", common.RoleStaff, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	list := []models.Preacher{}
	suite.decode(rec, &list)
	for _, other := range list {
		assert.NotEqual(suite.T(), p.ID, other.ID)
	}

	active = true
	rec = suite.do(http.MethodPut, "/api/preachers/"+itoa(p.ID), common.RoleHeadImam, controllers.UpdatePreacherRequestBody{Active: &active})
	suite.Require().Equal(http.StatusOK, rec.Code)
}

func TestPreacherTestSuite(t *testing.T) {
	suite.Run(t, new(PreacherTestSuite))
}
