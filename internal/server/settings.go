package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	settingsdomain "github.com/ledgerpad/ledgerpad/internal/settings/domain"
)

type updateSettingsRequest struct {
	BusinessName    *string `json:"businessName"`
	BusinessAddress *string `json:"businessAddress"`
	BusinessPhone   *string `json:"businessPhone"`
	BusinessEmail   *string `json:"businessEmail"`
	EmailTemplate   *string `json:"emailTemplate"`
	LogoURI         *string `json:"logoUri"`
}

func (s *Server) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settingsSvc.Get(c.Request.Context()))
}

func (s *Server) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	settings, err := s.settingsSvc.Update(c.Request.Context(), settingsdomain.SettingsPatch{
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		BusinessPhone:   req.BusinessPhone,
		BusinessEmail:   req.BusinessEmail,
		EmailTemplate:   req.EmailTemplate,
		LogoURI:         req.LogoURI,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) RemoveLogo(c *gin.Context) {
	settings, err := s.settingsSvc.RemoveLogo(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) NotificationState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"shouldShow": s.settingsSvc.ShouldShowNotification(c.Request.Context()),
	})
}

func (s *Server) NotificationSeen(c *gin.Context) {
	if err := s.settingsSvc.IncrementNotificationCount(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
