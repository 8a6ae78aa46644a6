package integration_tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/controllers"
	"github.com/surau-digital/surauhub/db/models"
)

type AuthTestSuite struct {
	TestSuite
}

func (suite *AuthTestSuite) SetupSuite() {
	suite.setup()
}

func (suite *AuthTestSuite) TearDownSuite() {
	suite.teardown()
}

func (suite *AuthTestSuite) TestLogin() {
	rec := suite.do(http.MethodPost, "/api/auth/login", "", &controllers.AuthRequestBody{
		Username: "user_" + common.RoleBendahari,
		Password: testPassword,
	})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	body := &controllers.AuthResponseBody{}
	cookies := rec.Result().Cookies()
	suite.decode(rec, body)
	assert.NotEmpty(suite.T(), body.AccessToken)
	assert.Equal(suite.T(), common.RoleBendahari, body.User.Role)

	if assert.Len(suite.T(), cookies, 1) {
		assert.Equal(suite.T(), suite.service.Config.SessionCookieName, cookies[0].Name)
		assert.True(suite.T(), cookies[0].HttpOnly)
		assert.Equal(suite.T(), body.AccessToken, cookies[0].Value)
	}
}

func (suite *AuthTestSuite) TestLoginWithBadPassword() {
	rec := suite.do(http.MethodPost, "/api/auth/login", "", &controllers.AuthRequestBody{
		Username: "user_" + common.RoleAdmin,
		Password: "salah",
	})
	checkErrResponse(&suite.TestSuite, rec, http.StatusUnauthorized)
}

func (suite *AuthTestSuite) TestCookieSession() {
	login := suite.do(http.MethodPost, "/api/auth/login", "", &controllers.AuthRequestBody{
		Username: "user_" + common.RoleStaff,
		Password: testPassword,
	})
	cookies := login.Result().Cookies()
	suite.Require().Len(cookies, 1)

	req := suite.request(http.MethodGet, "/api/auth/me")
	req.AddCookie(cookies[0])
	res := suite.send(req, "")
	assert.Equal(suite.T(), http.StatusOK, res.Code)
	user := &models.User{}
	suite.decode(res, user)
	assert.Equal(suite.T(), "user_"+common.RoleStaff, user.Username)
}

func (suite *AuthTestSuite) TestMissingToken() {
	checkErrResponse(&suite.TestSuite, suite.do(http.MethodGet, "/api/auth/me", "", nil), http.StatusUnauthorized)
	checkErrResponse(&suite.TestSuite, suite.do(http.MethodGet, "/api/financial/statements", "", nil), http.StatusUnauthorized)
}

func (suite *AuthTestSuite) TestRoleGates() {
	// staff only sees khairat and preachers
	checkErrResponse(&suite.TestSuite, suite.do(http.MethodGet, "/api/financial/statements", common.RoleStaff, nil), http.StatusForbidden)
	assert.Equal(suite.T(), http.StatusOK, suite.do(http.MethodGet, "/api/khairat", common.RoleStaff, nil).Code)

	// the head imam reads the books but does not write them
	assert.Equal(suite.T(), http.StatusOK, suite.do(http.MethodGet, "/api/financial/statements", common.RoleHeadImam, nil).Code)
	checkErrResponse(&suite.TestSuite, suite.do(http.MethodDelete, "/api/financial/statements/1", common.RoleHeadImam, nil), http.StatusForbidden)

	// user management is for administrators
	checkErrResponse(&suite.TestSuite, suite.do(http.MethodGet, "/api/users", common.RoleBendahari, nil), http.StatusForbidden)
	assert.Equal(suite.T(), http.StatusOK, suite.do(http.MethodGet, "/api/users", common.RoleAdmin, nil).Code)
}

func (suite *AuthTestSuite) TestLogout() {
	rec := suite.do(http.MethodPost, "/api/auth/logout", common.RoleAdmin, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	if assert.Len(suite.T(), cookies, 1) {
		assert.Empty(suite.T(), cookies[0].Value)
		assert.Less(suite.T(), cookies[0].MaxAge, 0)
	}
}

func (suite *AuthTestSuite) TestAdminBootstrap() {
	body := map[string]string{
		"username": "pentadbir",
		"password": "kata-laluan-1",
		"name":     "Pentadbir Surau",
		"role":     common.RoleAdmin,
	}
	req := suite.request(http.MethodPost, "/api/admin/users", body)
	req.Header.Set("Authorization", "Bearer salah")
	checkErrResponse(&suite.TestSuite, suite.send(req, ""), http.StatusUnauthorized)

	req = suite.request(http.MethodPost, "/api/admin/users", body)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec := suite.send(req, "")
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	user := &models.User{}
	suite.decode(rec, user)
	assert.Equal(suite.T(), "pentadbir", user.Username)
	assert.Equal(suite.T(), common.RoleAdmin, user.Role)
}

func (suite *AuthTestSuite) TestDeactivatedUser() {
	user, err := suite.service.CreateUser(context.Background(), "bekas_staf", testPassword, "Bekas", common.RoleStaff)
	suite.Require().NoError(err)
	rec := suite.do(http.MethodPut, "/api/users/"+itoa(user.ID), common.RoleAdmin, map[string]bool{"deactivated": true})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPost, "/api/auth/login", "", &controllers.AuthRequestBody{Username: "bekas_staf", Password: testPassword})
	checkErrResponse(&suite.TestSuite, rec, http.StatusUnauthorized)
}

func (suite *AuthTestSuite) TestHealth() {
	rec := suite.do(http.MethodGet, "/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "OK")
}

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
