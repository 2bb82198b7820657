package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	subsvc "github.com/dasgroupllc/archivebase/internal/app/service/subscription"
	"github.com/dasgroupllc/archivebase/pkg/response"
	"github.com/dasgroupllc/archivebase/pkg/types"
)

type subscriptionResp struct {
	Tier                types.Tier               `json:"tier"`
	Status              types.SubscriptionStatus `json:"status"`
	CurrentPeriodEnd    *time.Time               `json:"currentPeriodEnd,omitempty"`
	MonthlyArchiveCount int                      `json:"monthlyArchiveCount"`
}

// @Summary      Subscription status
// @Description  Returns the tier, status and current-month usage for a base. Unseen bases read as free/active.
// @Tags         Billing
// @Produce      json
// @Param        baseId query string true "Base id"
// @Success      200  {object}  response.APIResponse[subscriptionResp]
// @Router       /api/subscription [get]
func ApiGetSubscription(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		baseID := baseIDFrom(c)
		if baseID == "" {
			c.JSON(http.StatusBadRequest, response.Err("Missing baseId"))
			return
		}

		s, err := sub.Get(c.Request.Context(), baseID)
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(subscriptionResp{
			Tier:                s.Tier,
			Status:              s.Status,
			CurrentPeriodEnd:    s.CurrentPeriodEnd,
			MonthlyArchiveCount: s.MonthlyCountAt(time.Now()),
		}))
	}
}

type licenseUsage struct {
	MonthlyArchiveCount int    `json:"monthlyArchiveCount"`
	LastResetDate       string `json:"lastResetDate"`
}

type licenseResp struct {
	Tier             types.Tier               `json:"tier"`
	Status           types.SubscriptionStatus `json:"status"`
	Limits           types.PlanLimits         `json:"limits"`
	Usage            licenseUsage             `json:"usage"`
	CurrentPeriodEnd *time.Time               `json:"currentPeriodEnd,omitempty"`
}

// @Summary      License
// @Description  Returns the full license view: tier, status, plan limits table entry and usage.
// @Tags         Billing
// @Produce      json
// @Param        baseId query string true "Base id"
// @Success      200  {object}  response.APIResponse[licenseResp]
// @Router       /api/license [get]
func ApiGetLicense(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		baseID := baseIDFrom(c)
		if baseID == "" {
			c.JSON(http.StatusBadRequest, response.Err("Missing baseId"))
			return
		}

		s, err := sub.Get(c.Request.Context(), baseID)
		if err != nil {
			internalError(c, err)
			return
		}
		now := time.Now()
		c.JSON(http.StatusOK, response.OKT(licenseResp{
			Tier:   s.Tier,
			Status: s.Status,
			Limits: types.LimitsForTier(s.Tier),
			Usage: licenseUsage{
				MonthlyArchiveCount: s.MonthlyCountAt(now),
				LastResetDate:       s.LastResetDate,
			},
			CurrentPeriodEnd: s.CurrentPeriodEnd,
		}))
	}
}
