package admin

import (
	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 管理端处理器：订单、优惠券、库存与会员维护
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// requestLog 附带 request_id 与操作管理员的日志实例
func requestLog(c *gin.Context) *zap.SugaredLogger {
	log := handlershared.RequestLog(c)
	if adminID := c.GetUint(handlershared.ContextKeyAdminID); adminID > 0 {
		return log.With("admin_id", adminID)
	}
	return log
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}
