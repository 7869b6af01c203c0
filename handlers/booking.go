package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expertcall/middleware"
	"expertcall/models"
	"expertcall/services/booking"
	"expertcall/services/pricing"
	"expertcall/utils"
)

// defaultSlotMinutes is the call length slots are listed for when the
// client does not ask for one.
const defaultSlotMinutes = 30

// BookingEngine is the orchestrator surface the booking endpoints drive.
type BookingEngine interface {
	StartSession(ctx context.Context, providerID, userID, viewerTimezone string) (*models.BookingSession, error)
	CancelSession(ctx context.Context, sessionID string) error
	Slots(ctx context.Context, sessionID, dateRaw string, durationMinutes int) (*models.SlotsResponse, error)
	Quote(ctx context.Context, sessionID string, in booking.QuoteInput) (*models.PricingBreakdown, error)
	Book(ctx context.Context, sessionID string, sel booking.Selection) (*booking.Outcome, error)
	ConfirmPayment(ctx context.Context, bookingID string, conf models.PaymentConfirmation) (*booking.PaymentOutcome, error)
}

type BookingHandler struct {
	Engine BookingEngine
	Logger *zap.Logger
}

func NewBookingHandler(engine BookingEngine, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandler{Engine: engine, Logger: logger}
}

type startSessionInput struct {
	ProviderID     string `json:"providerId" binding:"required"`
	ViewerTimezone string `json:"viewerTimezone" binding:"required"`
}

// StartSession handles POST /sessions.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input startSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Engine.StartSession(c.Request.Context(), input.ProviderID, middleware.UserID(c), input.ViewerTimezone)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"sessionId":        session.SessionID,
		"providerTimezone": session.Provider.Timezone,
		"viewerTimezone":   session.ViewerTimezone,
		"provider":         session.Provider,
	})
}

// Slots handles GET /sessions/:sessionID/slots?date=YYYY-MM-DD[&minutes=N].
func (h *BookingHandler) Slots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date is required")
		return
	}
	minutes := defaultSlotMinutes
	if raw := c.Query("minutes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "minutes must be a positive integer")
			return
		}
		minutes = n
	}

	resp, err := h.Engine.Slots(callerContext(c), c.Param("sessionID"), date, minutes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quote handles POST /sessions/:sessionID/quote.
func (h *BookingHandler) Quote(c *gin.Context) {
	var input booking.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	quote, err := h.Engine.Quote(callerContext(c), c.Param("sessionID"), input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Reserve handles POST /sessions/:sessionID/reserve.
func (h *BookingHandler) Reserve(c *gin.Context) {
	var sel booking.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	outcome, err := h.Engine.Book(callerContext(c), c.Param("sessionID"), sel)
	if err != nil {
		h.writeError(c, err)
		return
	}
	status := http.StatusCreated
	if !outcome.Final {
		status = http.StatusAccepted
	}
	c.JSON(status, outcome)
}

// CancelSession handles DELETE /sessions/:sessionID.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Engine.CancelSession(callerContext(c), c.Param("sessionID")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmPayment handles POST /bookings/:bookingID/confirm-payment.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	var conf models.PaymentConfirmation
	if err := c.ShouldBindJSON(&conf); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	outcome, err := h.Engine.ConfirmPayment(c.Request.Context(), c.Param("bookingID"), conf)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// callerContext scopes session operations to the requesting user.
func callerContext(c *gin.Context) context.Context {
	return booking.WithCaller(c.Request.Context(), middleware.UserID(c))
}

// writeError maps engine errors onto HTTP statuses.
func (h *BookingHandler) writeError(c *gin.Context, err error) {
	var rej *booking.RejectionError
	if errors.As(err, &rej) {
		status := http.StatusServiceUnavailable
		switch rej.Reason {
		case booking.SlotTaken:
			status = http.StatusConflict
		case booking.OutsideWorkingHours:
			status = http.StatusUnprocessableEntity
		}
		if rej.Err != nil {
			h.Logger.Warn("reservation rejected", zap.String("reason", string(rej.Reason)), zap.Error(rej.Err))
		}
		utils.JSONRejection(c, status, string(rej.Reason), rej.Detail)
		return
	}

	switch {
	case errors.Is(err, booking.ErrSessionNotFound),
		errors.Is(err, booking.ErrProviderNotFound),
		errors.Is(err, booking.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, booking.ErrInvalidTimezone),
		errors.Is(err, booking.ErrInvalidSelection),
		errors.Is(err, booking.ErrUnsupportedCallType),
		errors.Is(err, pricing.ErrInvalidPlan),
		errors.Is(err, pricing.ErrInvalidRate):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
	case errors.Is(err, booking.ErrPaymentMismatch):
		utils.JSONError(c, http.StatusConflict, "payment mismatch", err.Error())
	default:
		h.Logger.Error("booking request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "please try again later")
	}
}
