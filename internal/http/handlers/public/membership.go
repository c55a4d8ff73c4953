package public

import (
	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
)

var membershipErrorRules = []handlershared.MappedError{
	{Target: service.ErrCustomerNotFound, Code: response.CodeNotFound, Key: "error.customer_not_found"},
}

// GetMyMembership 重算并返回当前顾客的会员等级与升级进度
func (h *Handler) GetMyMembership(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	summary, err := h.MembershipService.GetMyMembership(c.Request.Context(), customerID)
	if err != nil {
		respondMappedError(c, err, membershipErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, summary)
}
