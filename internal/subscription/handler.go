package subscription

import (
	"errors"
	"net/http"
	"strconv"

	"quizrush/internal/api"
	"quizrush/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// ListPlans godoc
// @Summary      List purchasable plans
// @Tags         subscriptions
// @Produce      json
// @Success      200  {object}  api.Response
// @Failure      500  {object}  api.ErrorResponse
// @Router       /plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.svc.ListPlans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plans"})
		return
	}

	c.JSON(http.StatusOK, api.OK("", plans))
}

// Purchase godoc
// @Summary      Purchase a subscription plan
// @Description  Creates a pending subscription and a payment intent; the client confirms payment with the returned client secret.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      PurchaseRequest  true  "Plan to purchase"
// @Success      201      {object}  api.Response
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Purchase(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrAlreadySubscribed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrPlanInactive), errors.Is(err, ErrPaymentFailed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to purchase subscription"})
		}
		return
	}

	c.JSON(http.StatusCreated, api.OK("Subscription created, awaiting payment", result))
}

// ListMy godoc
// @Summary      List own subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  api.Response
// @Failure      500  {object}  api.ErrorResponse
// @Router       /subscriptions [get]
func (h *Handler) ListMy(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	subs, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscriptions"})
		return
	}

	c.JSON(http.StatusOK, api.OK("", subs))
}

// GetLimits godoc
// @Summary      Current quota snapshot
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  api.Response
// @Failure      500  {object}  api.ErrorResponse
// @Router       /subscriptions/limits [get]
func (h *Handler) GetLimits(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limits, err := h.svc.Limits(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load limits"})
		return
	}

	c.JSON(http.StatusOK, api.OK("", limits))
}

// Cancel godoc
// @Summary      Cancel a subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        subscriptionID  path      int            true   "Subscription ID"
// @Param        request         body      CancelRequest  false  "Optional reason"
// @Success      200             {object}  api.Response
// @Failure      400             {object}  api.ErrorResponse
// @Failure      404             {object}  api.ErrorResponse
// @Router       /subscriptions/{subscriptionID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	subscriptionID, err := strconv.Atoi(c.Param("subscriptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	sub, message, err := h.svc.Cancel(c.Request.Context(), userID, subscriptionID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrAlreadyCancelled):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel subscription"})
		}
		return
	}

	c.JSON(http.StatusOK, api.OK(message, sub))
}
