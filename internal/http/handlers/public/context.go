package public

import (
	"strings"

	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func getCustomerID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, handlershared.ContextKeyCustomerID, "error.unauthorized", "error.internal")
}

// couponIdentity 组合令牌与请求体中的身份信息，令牌优先
func couponIdentity(c *gin.Context, email, phone string) service.CouponIdentity {
	identity := service.CouponIdentity{
		CustomerID: handlershared.OptionalCustomerID(c),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Phone:      strings.TrimSpace(phone),
	}
	if identity.Email == "" {
		identity.Email = strings.ToLower(handlershared.ContextString(c, handlershared.ContextKeyCustomerEmail))
	}
	if identity.Phone == "" {
		identity.Phone = handlershared.ContextString(c, handlershared.ContextKeyCustomerPhone)
	}
	return identity
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}
