package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	ResetCode   string `json:"resetCode"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) AuthState(c *gin.Context) {
	c.JSON(http.StatusOK, s.authSvc.State(c.Request.Context()))
}

func (s *Server) SetupCredentials(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.authSvc.CreateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	setSessionCookie(c, session.Token)
	c.JSON(http.StatusCreated, session)
}

func (s *Server) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, session)
}

func (s *Server) Logout(c *gin.Context) {
	if err := s.authSvc.Logout(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.authSvc.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Forgot issues a reset code. There is no mail hop for it: this is a
// local single-user tool, so the code comes back in the response.
func (s *Server) Forgot(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	code, err := s.authSvc.GenerateResetCode(c.Request.Context(), req.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resetCode": code})
}

func (s *Server) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.authSvc.ResetPasswordWithCode(c.Request.Context(), req.Email, req.ResetCode, req.NewPassword)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
	email, err := s.authSvc.UserEmail(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email})
}

func (s *Server) WipeAuth(c *gin.Context) {
	if err := s.authSvc.ResetAuth(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}
