package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(t *testing.T, env *testEnv, method, path string, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()

	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token := mintToken(t, 7, testSecret, time.Hour)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})

	return req
}

func imageUpload(t *testing.T, fieldName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="avatar.png"`, fieldName))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

func TestAddImage_MissingFile(t *testing.T) {
	env := newTestEnv(t, false)

	body, contentType := imageUpload(t, "attachment", "image/png", []byte{0x89})
	req := authedRequest(t, env, http.MethodPost, "/api/v1/profile/protected/add-image", body, contentType)
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddImage_NotAnImage(t *testing.T) {
	env := newTestEnv(t, false)

	body, contentType := imageUpload(t, "file", "application/pdf", []byte("%PDF"))
	req := authedRequest(t, env, http.MethodPost, "/api/v1/profile/protected/add-image", body, contentType)
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddImage_TooLarge(t *testing.T) {
	env := newTestEnv(t, false)

	body, contentType := imageUpload(t, "file", "image/png", bytes.Repeat([]byte{0xAA}, maxImageBytes+1))
	req := authedRequest(t, env, http.MethodPost, "/api/v1/profile/protected/add-image", body, contentType)
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddImage_Unauthenticated(t *testing.T) {
	env := newTestEnv(t, false)

	body, contentType := imageUpload(t, "file", "image/png", []byte{0x89})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/protected/add-image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetImages(t *testing.T) {
	env := newTestEnv(t, false)
	env.profiles.ids[7] = []int64{11, 12}

	req := authedRequest(t, env, http.MethodGet, "/api/v1/profile/protected/get-images", nil, "")
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ProfileIDs []int64 `json:"profileIds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int64{11, 12}, resp.ProfileIDs)
}

func TestGetImages_Empty(t *testing.T) {
	env := newTestEnv(t, false)

	req := authedRequest(t, env, http.MethodGet, "/api/v1/profile/protected/get-images", nil, "")
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"profileIds":[]}`, rec.Body.String())
}

func TestUpdateProfile_Success(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.addUser(t, 7, "alice@example.com", "secret123", "hash-a")
	env.profiles.ids[7] = []int64{42}

	body := bytes.NewBufferString(`{"profileId":42}`)
	req := authedRequest(t, env, http.MethodPost, "/api/v1/profile/protected/update-profile", body, "application/json")
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), user.ActivePhotoID)
}

func TestUpdateProfile_ForeignImage(t *testing.T) {
	env := newTestEnv(t, false)
	env.addUser(t, 7, "alice@example.com", "secret123", "hash-a")
	env.profiles.ids[8] = []int64{42}

	body := bytes.NewBufferString(`{"profileId":42}`)
	req := authedRequest(t, env, http.MethodPost, "/api/v1/profile/protected/update-profile", body, "application/json")
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile_InvalidBody(t *testing.T) {
	env := newTestEnv(t, false)

	body := bytes.NewBufferString(`{"profileId":`)
	req := authedRequest(t, env, http.MethodPost, "/api/v1/profile/protected/update-profile", body, "application/json")
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchImage_UnknownUser(t *testing.T) {
	env := newTestEnv(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile/fetch-image/deadbeef", nil)
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFetchImage_NoActivePhoto(t *testing.T) {
	env := newTestEnv(t, false)
	env.addUser(t, 7, "alice@example.com", "secret123", "hash-a")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile/fetch-image/hash-a", nil)
	rec := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
