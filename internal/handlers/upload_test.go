package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/dto"
)

// postFile sends a multipart upload with the given fields
func (suite *APITestSuite) postFile(cookie *http.Cookie, filename, contentType string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		suite.Require().NoError(mw.WriteField(k, v))
	}
	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		suite.Require().NoError(err)
		_, err = part.Write(data)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) TestUploads_CreateListDelete() {
	cookie := suite.login("alice", "pw")
	scheduleID := suite.createSchedule(cookie, "Art")
	taskID := suite.createTask(cookie, scheduleID, "Sketch")

	w := suite.postFile(cookie, "sketch.JPG", "image/jpeg", []byte("jpeg-bytes"), map[string]string{"taskId": fmt.Sprint(taskID)})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var upload dto.UploadDTO
	suite.decode(w, &upload)
	suite.Equal("image/jpeg", upload.Type)
	suite.True(strings.HasSuffix(upload.URL, ".jpg"))
	suite.Require().NotNil(upload.TaskID)
	suite.Equal(taskID, *upload.TaskID)
	suite.Len(suite.store.objects, 1)

	w = suite.do(http.MethodGet, "/api/uploads", nil, cookie)
	suite.Equal(http.StatusOK, w.Code)
	var list []dto.UploadDTO
	suite.decode(w, &list)
	suite.Len(list, 1)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/uploads?id=%d", upload.ID), nil, cookie)
	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(suite.store.objects)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/uploads/%d", upload.ID), nil, cookie)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestUploads_Validation() {
	cookie := suite.login("alice", "pw")

	w := suite.postFile(cookie, "", "", nil, map[string]string{"note": "no file"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.postFile(cookie, "a.txt", "text/plain", []byte("x"), map[string]string{"taskId": "nope"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.postFile(nil, "a.txt", "text/plain", []byte("x"), nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodDelete, "/api/uploads", nil, cookie)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestUploads_TooLarge() {
	suite.router = suite.buildRouter(routerOptions{uploadLimit: 512})
	cookie := suite.login("alice", "pw")

	w := suite.postFile(cookie, "big.bin", "application/octet-stream", bytes.Repeat([]byte("a"), 2048), nil)
	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
	suite.Empty(suite.store.objects)
}

func (suite *APITestSuite) TestUploads_ForeignTaskAndOwner() {
	owner := suite.login("alice", "pw")
	scheduleID := suite.createSchedule(owner, "Mine")
	taskID := suite.createTask(owner, scheduleID, "Private")
	intruder := suite.login("mallory", "pw")

	w := suite.postFile(intruder, "x.txt", "text/plain", []byte("x"), map[string]string{"taskId": fmt.Sprint(taskID)})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Empty(suite.store.objects)

	w = suite.postFile(owner, "y.txt", "text/plain", []byte("y"), nil)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var upload dto.UploadDTO
	suite.decode(w, &upload)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/uploads/%d", upload.ID), nil, intruder)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Len(suite.store.objects, 1)
}

func (suite *APITestSuite) TestUploads_RemoteDeleteFailureKeepsRow() {
	cookie := suite.login("alice", "pw")

	w := suite.postFile(cookie, "keep.txt", "text/plain", []byte("keep"), nil)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var upload dto.UploadDTO
	suite.decode(w, &upload)

	suite.store.deleteErr = errors.New("cloud unavailable")
	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/uploads/%d", upload.ID), nil, cookie)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Contains(w.Body.String(), "cloud unavailable")

	w = suite.do(http.MethodGet, "/api/uploads", nil, cookie)
	var list []dto.UploadDTO
	suite.decode(w, &list)
	suite.Len(list, 1)
}

func (suite *APITestSuite) TestCompanion_Disabled() {
	cookie := suite.login("alice", "pw")

	w := suite.do(http.MethodGet, "/api/companion/recommendations", nil, cookie)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/companion/recommendations", nil, cookie)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *APITestSuite) TestCompanion_Recommend() {
	suite.router = suite.buildRouter(routerOptions{generator: fixedGenerator("Time to stretch!")})
	cookie := suite.login("alice", "pw")

	w := suite.do(http.MethodPost, "/api/companion/recommendations", gin.H{}, cookie)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/companion/recommendations", nil, cookie)
	var recs []dto.RecommendationDTO
	suite.decode(w, &recs)
	suite.Require().Len(recs, 1)
	suite.Equal("Time to stretch!", recs[0].Message)
}
