package admin

import (
	"errors"

	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RecomputeCustomerMembership 手动重算顾客会员等级
func (h *Handler) RecomputeCustomerMembership(c *gin.Context) {
	customerID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.MembershipService.Recompute(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(c, response.CodeNotFound, "error.customer_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, customer)
}
