package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/server/auth"
)

const (
	passwordMinLen = 6
	passwordMaxLen = 20
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *credentialsRequest) validate() []string {
	var errs []string

	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs = append(errs, "email must be a valid address")
	}
	if len(req.Password) < passwordMinLen || len(req.Password) > passwordMaxLen {
		errs = append(errs, "password must be 6 to 20 characters")
	}

	return errs
}

func (s *HTTPServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, GeneralError{Message: "invalid request body"})
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, ValidationErrors{Errors: errs})
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeJSON(w, http.StatusConflict, GeneralError{Message: "account already exists"})
			return
		}
		s.logger.Error(r.Context(), "signup failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		UserID int64 `json:"userId"`
	}{UserID: user.ID})
}

func (s *HTTPServer) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, GeneralError{Message: "invalid request body"})
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// One body for unknown email and wrong password.
			writeJSON(w, http.StatusUnauthorized, GeneralError{Message: "invalid email or password"})
			return
		}
		s.logger.Error(r.Context(), "signin failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	s.setSessionCookie(w, accessTokenCookie, res.AccessToken)
	s.setSessionCookie(w, "userId", formatID(res.UserID))

	writeJSON(w, http.StatusOK, struct {
		AccessToken string `json:"accessToken"`
		UserID      int64  `json:"userId"`
	}{AccessToken: res.AccessToken, UserID: res.UserID})
}

func (s *HTTPServer) setSessionCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   s.cookieMaxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (s *HTTPServer) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	user, err := s.users.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeUnauthorized(w)
			return
		}
		s.logger.Error(r.Context(), "current user lookup failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		UserID        int64  `json:"userId"`
		Email         string `json:"email"`
		ActivePhotoID int64  `json:"activePhotoId"`
	}{UserID: user.ID, Email: user.Email, ActivePhotoID: user.ActivePhotoID})
}
