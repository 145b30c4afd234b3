package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/constants"
	"github.com/yukikurage/chrono-planner-api/internal/dto"
)

func (suite *APITestSuite) TestLogin_NewUserSignsUp() {
	w := suite.do(http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "s3cret"}, nil)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("Login successful", resp.Message)
	suite.Equal("alice", resp.User.Username)
	suite.NotZero(resp.User.ID)

	cookie := authCookie(w)
	suite.Require().NotNil(cookie)
	suite.True(cookie.HttpOnly)
	suite.Equal(http.SameSiteStrictMode, cookie.SameSite)
	suite.Equal(int(constants.DefaultTokenTTL.Seconds()), cookie.MaxAge)
	suite.Equal("/", cookie.Path)
	suite.False(cookie.Secure)

	w = suite.do(http.MethodGet, "/api/auth/status", nil, cookie)
	suite.Equal(http.StatusOK, w.Code)

	var status dto.UserStatusDTO
	suite.decode(w, &status)
	suite.Equal("alice", status.Username)
	suite.Equal(0, status.Points)
	suite.Equal(1, status.Level)
}

func (suite *APITestSuite) TestLogin_ExistingUser() {
	first := suite.login("bob", "pw")
	second := suite.login("bob", "pw")
	suite.NotEmpty(first.Value)
	suite.NotEmpty(second.Value)

	var count int64
	suite.db.Table("users").Where("username LIKE ?", "bob%").Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *APITestSuite) TestLogin_WrongPassword() {
	suite.login("carol", "right")

	w := suite.do(http.MethodPost, "/api/auth/login", gin.H{"username": "carol", "password": "wrong"}, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Nil(authCookie(w))
	suite.Contains(w.Body.String(), "INVALID_CREDENTIALS")
}

func (suite *APITestSuite) TestLogin_MissingFields() {
	w := suite.do(http.MethodPost, "/api/auth/login", gin.H{"username": "dave"}, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/auth/login", gin.H{"password": "pw"}, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *APITestSuite) TestLogin_RateLimited() {
	suite.router = suite.buildRouter(routerOptions{loginBurst: 2})

	body := gin.H{"username": "erin", "password": "pw"}
	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/api/auth/login", body, nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/api/auth/login", body, nil).Code)

	w := suite.do(http.MethodPost, "/api/auth/login", body, nil)
	suite.Equal(http.StatusTooManyRequests, w.Code)
	suite.Contains(w.Body.String(), "RATE_LIMITED")
}

func (suite *APITestSuite) TestCheckUser() {
	w := suite.do(http.MethodGet, "/api/auth/check-user", nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/auth/check-user?username=frank", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"exists":false}`, w.Body.String())

	suite.login("frank", "pw")

	w = suite.do(http.MethodGet, "/api/auth/check-user?username=frank", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"exists":true}`, w.Body.String())
}

func (suite *APITestSuite) TestLogout_ClearsCookie() {
	w := suite.do(http.MethodPost, "/api/auth/logout", nil, nil)
	suite.Equal(http.StatusOK, w.Code)

	cookie := authCookie(w)
	suite.Require().NotNil(cookie)
	suite.Empty(cookie.Value)
	suite.Less(cookie.MaxAge, 0)
	suite.Contains(w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func (suite *APITestSuite) TestStatus_RequiresCookie() {
	w := suite.do(http.MethodGet, "/api/auth/status", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "UNAUTHORIZED")

	w = suite.do(http.MethodGet, "/api/auth/status", nil, &http.Cookie{Name: constants.AuthCookieName, Value: "forged"})
	suite.Equal(http.StatusUnauthorized, w.Code)
}
