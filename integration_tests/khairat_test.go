package integration_tests

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/controllers"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/service"
	"github.com/xuri/excelize/v2"
)

type memberList struct {
	Items []models.KhairatMember `json:"items"`
	Total int                    `json:"total"`
}

type KhairatTestSuite struct {
	TestSuite
}

func (suite *KhairatTestSuite) SetupSuite() {
	suite.setup()
}

func (suite *KhairatTestSuite) TearDownSuite() {
	suite.teardown()
}

func (suite *KhairatTestSuite) workbook(rows [][]string) []byte {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		suite.Require().NoError(err)
		suite.Require().NoError(f.SetSheetRow(sheet, cell, &cells))
	}
	var buf bytes.Buffer
	suite.Require().NoError(f.Write(&buf))
	return buf.Bytes()
}

func (suite *KhairatTestSuite) TestApplyAndApprove() {
	rec := suite.do(http.MethodPost, "/api/khairat/apply", "", controllers.KhairatApplicationRequestBody{
		Nama:      "Hassan bin Daud",
		NoKp:      "850303-03-3333",
		NoTelefon: "0191234567",
		Dependents: []controllers.DependentRequestBody{
			{Nama: "Fatimah binti Omar", NoKp: "870404-04-4444", Hubungan: "isteri"},
		},
	})
	suite.Require().Equal(http.StatusCreated, rec.Code)
	member := &models.KhairatMember{}
	suite.decode(rec, member)
	assert.Equal(suite.T(), common.KhairatStatusPending, member.Status)

	// one application per identity card
	rec = suite.do(http.MethodPost, "/api/khairat/apply", "", controllers.KhairatApplicationRequestBody{
		Nama: "Hassan bin Daud",
		NoKp: "850303-03-3333",
	})
	checkErrResponse(&suite.TestSuite, rec, http.StatusBadRequest)

	path := fmt.Sprintf("/api/khairat/%d", member.ID)
	checkErrResponse(&suite.TestSuite, suite.do(http.MethodPost, path+"/approve", common.RoleStaff, nil), http.StatusForbidden)

	rec = suite.do(http.MethodPost, path+"/approve", common.RoleBendahari, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	approved := &models.KhairatMember{}
	suite.decode(rec, approved)
	assert.Equal(suite.T(), common.KhairatStatusApproved, approved.Status)
	assert.NotZero(suite.T(), approved.ApprovedBy)

	rec = suite.do(http.MethodGet, path, common.RoleStaff, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	found := &models.KhairatMember{}
	suite.decode(rec, found)
	if assert.Len(suite.T(), found.Dependents, 1) {
		assert.Equal(suite.T(), "Fatimah binti Omar", found.Dependents[0].Nama)
	}
}

func (suite *KhairatTestSuite) TestRejectNeedsReason() {
	rec := suite.do(http.MethodPost, "/api/khairat/apply", "", controllers.KhairatApplicationRequestBody{
		Nama: "Yusof bin Salleh",
		NoKp: "900909-09-9999",
	})
	suite.Require().Equal(http.StatusCreated, rec.Code)
	member := &models.KhairatMember{}
	suite.decode(rec, member)

	path := fmt.Sprintf("/api/khairat/%d/reject", member.ID)
	checkErrResponse(&suite.TestSuite, suite.do(http.MethodPost, path, common.RoleAdmin, map[string]string{}), http.StatusBadRequest)

	rec = suite.do(http.MethodPost, path, common.RoleAdmin, controllers.RejectKhairatRequestBody{Reason: "bukan penduduk kariah"})
	suite.Require().Equal(http.StatusOK, rec.Code)
	rejected := &models.KhairatMember{}
	suite.decode(rec, rejected)
	assert.Equal(suite.T(), common.KhairatStatusRejected, rejected.Status)
	assert.Equal(suite.T(), "bukan penduduk kariah", rejected.RejectReason)
}

func (suite *KhairatTestSuite) TestExcelImport() {
	content := suite.workbook([][]string{
		{"SENARAI AHLI KHAIRAT KEMATIAN"},
		{},
		{"Bil", "Nama", "No. K/P", "Status", "No. Telefon", "Alamat"},
		{"1", "Ahmad bin Ali", "800101-14-5555", "Ahli", "0123456789", "Lot 1, Kg Baru"},
		{"", "Siti binti Abu", "820202145556", "Isteri", "", ""},
		{"", "Aminah binti Ahmad", "", "Anak", "", ""},
		{"2", "Zainal bin Hamid", "700707071234", "", "", ""},
	})
	rec := suite.upload("/api/khairat/upload-excel", common.RoleBendahari, "ahli.xlsx", content, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	result := &service.KhairatImportResult{}
	suite.decode(rec, result)
	assert.Equal(suite.T(), 2, result.Inserted)
	assert.Equal(suite.T(), 2, result.Dependents)
	assert.Zero(suite.T(), result.Errors)

	// importing again updates the same members
	rec = suite.upload("/api/khairat/upload-excel", common.RoleBendahari, "ahli.xlsx", content, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	again := &service.KhairatImportResult{}
	suite.decode(rec, again)
	assert.Zero(suite.T(), again.Inserted)
	assert.Equal(suite.T(), 2, again.Updated)

	rec = suite.do(http.MethodGet, "/api/khairat?search=Ahmad%20bin%20Ali", common.RoleStaff, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	list := &memberList{}
	suite.decode(rec, list)
	if assert.Len(suite.T(), list.Items, 1) {
		assert.Equal(suite.T(), common.KhairatStatusApproved, list.Items[0].Status)
		assert.Equal(suite.T(), "800101-14-5555", list.Items[0].NoKp)
	}

	rec = suite.upload("/api/khairat/upload-excel", common.RoleBendahari, "ahli.csv", []byte("a,b"), nil)
	checkErrResponse(&suite.TestSuite, rec, http.StatusBadRequest)
}

func TestKhairatTestSuite(t *testing.T) {
	suite.Run(t, new(KhairatTestSuite))
}
