package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/server/auth"
)

// maxImageBytes caps profile image uploads at 100KB.
const maxImageBytes = 100 * 1024

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *HTTPServer) handleAddImage(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	// The multipart envelope adds some overhead over the image itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+4*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, GeneralError{Message: "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeJSON(w, http.StatusBadRequest, GeneralError{Message: "only image uploads are accepted"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, GeneralError{Message: "error reading upload"})
		return
	}
	if len(data) > maxImageBytes {
		writeJSON(w, http.StatusBadRequest, GeneralError{Message: "image exceeds the 100KB limit"})
		return
	}

	res, err := s.profiles.AddImage(r.Context(), identity.UserID, contentType, data)
	if err != nil {
		s.logger.Error(r.Context(), "image upload failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		ProfileID int64  `json:"profileId"`
		URL       string `json:"url,omitempty"`
	}{ProfileID: res.ProfileID, URL: res.URL})
}

func (s *HTTPServer) handleGetImages(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	ids, err := s.profiles.ListImages(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Error(r.Context(), "image listing failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		ProfileIDs []int64 `json:"profileIds"`
	}{ProfileIDs: ids})
}

func (s *HTTPServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req struct {
		ProfileID int64 `json:"profileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, GeneralError{Message: "invalid request body"})
		return
	}

	if err := s.profiles.SetActive(r.Context(), identity.UserID, req.ProfileID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusNotFound, GeneralError{Message: "profile not found"})
			return
		}
		s.logger.Error(r.Context(), "active photo update failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		ProfileID int64 `json:"profileId"`
	}{ProfileID: req.ProfileID})
}

// handleFetchImage is the public avatar lookup. It resolves a user by the
// md5 digest of their email and returns the active photo id with a
// presigned URL. The digest reveals nothing beyond what the caller already
// knows (the email).
func (s *HTTPServer) handleFetchImage(w http.ResponseWriter, r *http.Request) {
	emailHash := chi.URLParam(r, "emailHash")

	user, err := s.users.GetByEmailHash(r.Context(), emailHash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusNotFound, GeneralError{Message: "not found"})
			return
		}
		s.logger.Error(r.Context(), "avatar lookup failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	if user.ActivePhotoID < 0 {
		writeJSON(w, http.StatusBadRequest, GeneralError{Message: common.ErrNoActivePhoto.Error()})
		return
	}

	url, err := s.profiles.ImageURL(r.Context(), user.ID, user.ActivePhotoID)
	if err != nil {
		s.logger.Error(r.Context(), "avatar presign failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		ActivePhotoID int64  `json:"activePhotoId"`
		URL           string `json:"url"`
	}{ActivePhotoID: user.ActivePhotoID, URL: url})
}
