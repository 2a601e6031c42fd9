package controllers

import (
	"net/http"
	"strings"

	dbpkg "agentflow/db"
	"agentflow/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type ConnectIntegrationRequest struct {
	Provider     string `json:"provider"`
	AuthToken    string `json:"authToken"`
	RefreshToken string `json:"refreshToken"`
}

// POST /api/integrations/connect
// Upserts the caller's integration for a provider: at most one row per
// (agent, provider), reconnecting replaces the tokens and reactivates it.
func ConnectIntegration(c *gin.Context) {
	agent, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ConnectIntegrationRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))
	if req.Provider == "" || strings.TrimSpace(req.AuthToken) == "" {
		RespondError(c, "provider and authToken are required", http.StatusBadRequest)
		return
	}
	if !models.IsValidProvider(req.Provider) {
		RespondError(c, "unsupported CRM provider", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	var existing models.Integration
	err := db.Where("user_id = ? AND provider = ?", agent.ID, req.Provider).First(&existing).Error
	if err == nil {
		if err := db.Model(&models.Integration{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"access_token":  req.AuthToken,
				"refresh_token": req.RefreshToken,
				"is_active":     true,
			}).Error; err != nil {
			RespondError(c, "failed to update integration", http.StatusInternalServerError)
			return
		}
		db.First(&existing, existing.ID)
		RespondSuccess(c, gin.H{
			"message":     "Integration updated successfully",
			"integration": existing,
		})
		return
	}
	if !gorm.IsRecordNotFoundError(err) {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	integration := models.Integration{
		UserID:       agent.ID,
		Provider:     req.Provider,
		AccessToken:  req.AuthToken,
		RefreshToken: req.RefreshToken,
		IsActive:     true,
	}
	if err := db.Create(&integration).Error; err != nil {
		RespondError(c, "failed to create integration", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Integration connected successfully",
		"integration": integration,
	})
}

// GET /api/integrations
func GetIntegrations(c *gin.Context) {
	agent, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	var integrations []models.Integration
	if err := db.Where("user_id = ?", agent.ID).Find(&integrations).Error; err != nil {
		RespondError(c, "failed to fetch integrations", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"integrations": integrations})
}

// DELETE /api/integrations/:integrationId
// Soft disconnect: the row stays, the active flag is cleared.
func DisconnectIntegration(c *gin.Context) {
	agent, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	integrationID, ok := ParamID(c, "integrationId")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	res := db.Model(&models.Integration{}).
		Where("id = ? AND user_id = ?", integrationID, agent.ID).
		Update("is_active", false)
	if res.Error != nil {
		RespondError(c, "failed to disconnect integration", http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		RespondError(c, "integration not found", http.StatusNotFound)
		return
	}

	RespondSuccess(c, gin.H{"message": "Integration disconnected successfully"})
}
