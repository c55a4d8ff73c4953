package admin

import (
	"strings"

	"github.com/bakery-next/internal/constants"
	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/repository"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminUpdateOrderRequest 管理端更新订单请求，status 可为数值或名称
type AdminUpdateOrderRequest struct {
	Status          *orderStatusValue `json:"status"`
	CustomerName    *string           `json:"customer_name" binding:"omitempty,max=120"`
	CustomerEmail   *string           `json:"customer_email" binding:"omitempty,email,max=255"`
	CustomerPhone   *string           `json:"customer_phone" binding:"omitempty,max=32"`
	ShippingAddress *string           `json:"shipping_address" binding:"omitempty,max=500"`
	Note            *string           `json:"note" binding:"omitempty,max=1000"`
	CancelReason    string            `json:"cancel_reason" binding:"max=500"`
}

// AdminCancelOrderRequest 管理端取消订单请求
type AdminCancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	loc := h.Config.Server.Location()

	createdFrom, err := parseTimeNullable(c.Query("created_from"), loc, false)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"), loc, true)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		CustomerID:  parseUintQuery(c.Query("customer_id")),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		Email:       strings.TrimSpace(c.Query("email")),
		Phone:       strings.TrimSpace(c.Query("phone")),
		OnlyTrashed: parseBoolQuery(c.Query("trashed")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := service.ParseOrderStatus(raw)
		if err != nil {
			respondError(c, response.CodeUnprocessableEntity, "error.order_status_invalid", nil)
			return
		}
		filter.Status = &status
	}

	orders, total, err := h.OrderService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// AdminGetOrder 管理端订单详情（含回收站）
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrder 管理端更新订单状态与联系信息
func (h *Handler) AdminUpdateOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req AdminUpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if appErr, ok := response.AsAppError(err); ok && appErr.Key != "" {
			handlershared.ValidationFailed(c, "status", appErr.Key)
			return
		}
		handlershared.RespondBindError(c, err)
		return
	}
	order, err := h.OrderService.UpdateOrder(c.Request.Context(), orderID, service.UpdateOrderInput{
		Status:          req.Status.ptr(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Note:            req.Note,
		CancelReason:    strings.TrimSpace(req.CancelReason),
	}, constants.CanceledByAdmin)
	if err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("admin_order_updated", "order_id", order.ID, "status", order.Status)
	response.Success(c, order)
}

// AdminCancelOrder 管理端取消订单
func (h *Handler) AdminCancelOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req AdminCancelOrderRequest
	if c.Request.ContentLength > 0 && !handlershared.BindJSON(c, &req) {
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), orderID, strings.TrimSpace(req.Reason), constants.CanceledByAdmin)
	if err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// AdminTrashOrder 移入回收站
func (h *Handler) AdminTrashOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.TrashOrder(c.Request.Context(), orderID); err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"trashed": true})
}

// AdminRestoreOrder 从回收站恢复
func (h *Handler) AdminRestoreOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.RestoreOrder(c.Request.Context(), orderID)
	if err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// AdminPurgeOrder 彻底删除回收站中的订单
func (h *Handler) AdminPurgeOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.PurgeOrder(c.Request.Context(), orderID); err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"purged": true})
}
