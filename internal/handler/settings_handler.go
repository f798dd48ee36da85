package handler

import (
	"net/http"
	"time"

	"invoicedesk/internal/middleware"
	"invoicedesk/internal/service"
	"invoicedesk/pkg/response"

	"github.com/gin-gonic/gin"
)

const sessionTTL = 12 * time.Hour

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// RegisterRoutes mounts the protected settings routes.
func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/api/settings")
	{
		settings.GET("/company", h.GetCompany)
		settings.PUT("/company", h.SaveCompany)
		settings.GET("/preferences", h.GetPreferences)
		settings.PUT("/preferences", h.SavePreferences)
		settings.PUT("/password", h.SetPassword)
	}
}

// RegisterAuthRoutes mounts the unlock endpoint, which must stay outside
// the password gate.
func (h *SettingsHandler) RegisterAuthRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/unlock", h.Unlock)
		auth.GET("/status", h.Status)
	}
}

type unlockRequest struct {
	Password string `json:"password"`
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

// Unlock exchanges the app password for a session token
// @Summary      Unlock application
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      unlockRequest  true  "Password Payload"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/unlock [post]
func (h *SettingsHandler) Unlock(c *gin.Context) {
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ok, err := h.settingsService.VerifyPassword(c.Request.Context(), req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Incorrect password"))
		return
	}

	token, err := middleware.IssueSessionToken(sessionTTL)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(sessionTTL.Seconds()),
	}))
}

// Status reports whether a password gate is configured
// @Summary      Password gate status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/status [get]
func (h *SettingsHandler) Status(c *gin.Context) {
	protected, err := h.settingsService.PasswordProtected(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"protected": protected}))
}

// GetCompany returns the seller company profile printed on invoices
// @Summary      Get company profile
// @Tags         settings
// @Produce      json
// @Success      200  {object}  response.Response{data=model.Company}
// @Router       /api/settings/company [get]
func (h *SettingsHandler) GetCompany(c *gin.Context) {
	company, err := h.settingsService.GetCompany(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// SaveCompany upserts the singleton company profile
// @Summary      Save company profile
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CompanyProfileRequest  true  "Company Payload"
// @Success      200      {object}  response.Response{data=model.Company}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/company [put]
func (h *SettingsHandler) SaveCompany(c *gin.Context) {
	var req service.CompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	company, err := h.settingsService.SaveCompany(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// GetPreferences returns numbering, tax and PDF preferences
// @Summary      Get preferences
// @Tags         settings
// @Produce      json
// @Success      200  {object}  response.Response{data=service.Preferences}
// @Router       /api/settings/preferences [get]
func (h *SettingsHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.settingsService.GetPreferences(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, prefs))
}

// SavePreferences persists numbering, tax and PDF preferences
// @Summary      Save preferences
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        payload  body      service.Preferences  true  "Preferences Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/settings/preferences [put]
func (h *SettingsHandler) SavePreferences(c *gin.Context) {
	var prefs service.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.settingsService.SavePreferences(c.Request.Context(), prefs); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, prefs))
}

// SetPassword sets or clears the app password
// @Summary      Set app password
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        payload  body      setPasswordRequest  true  "Password Payload"
// @Success      200      {object}  response.Response
// @Router       /api/settings/password [put]
func (h *SettingsHandler) SetPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.settingsService.SetPassword(c.Request.Context(), req.Password); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"protected": req.Password != ""}))
}
