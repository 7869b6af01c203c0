package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	providerRepo "expertcall/database/repository/provider"
	"expertcall/models"
	"expertcall/services/booking"
	"expertcall/services/scheduling"
	"expertcall/utils"
)

// ProviderHandler manages the provider data the booking engine reads.
type ProviderHandler struct {
	Repo   providerRepo.ProviderRepository
	Logger *zap.Logger
}

func NewProviderHandler(repo providerRepo.ProviderRepository, logger *zap.Logger) *ProviderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderHandler{Repo: repo, Logger: logger}
}

// GetProfile handles GET /providers/:providerID.
func (h *ProviderHandler) GetProfile(c *gin.Context) {
	profile, err := h.Repo.FindProfile(c.Request.Context(), c.Param("providerID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// profileInput is a profile as written by its owner. Coupons are accepted
// here but never echoed back in session responses.
type profileInput struct {
	models.ProviderProfile
	Coupons []models.Coupon `json:"coupons"`
}

// UpsertProfile handles PUT /providers/:providerID. The timezone must be a
// known IANA name; working hours are stored as published.
func (h *ProviderHandler) UpsertProfile(c *gin.Context) {
	var input profileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	profile := input.ProviderProfile
	profile.Coupons = input.Coupons
	profile.ID = c.Param("providerID")
	if _, err := scheduling.LoadZone(profile.Timezone); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Repo.UpsertProfile(c.Request.Context(), &profile); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type deviceInput struct {
	Token string `json:"token" binding:"required"`
}

// RegisterDevice handles POST /providers/:providerID/devices.
func (h *ProviderHandler) RegisterDevice(c *gin.Context) {
	var input deviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := h.Repo.AddDeviceToken(c.Request.Context(), c.Param("providerID"), input.Token); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProviderHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, booking.ErrProviderNotFound) {
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
		return
	}
	h.Logger.Error("provider request failed", zap.String("path", c.FullPath()), zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "internal error", "please try again later")
}
