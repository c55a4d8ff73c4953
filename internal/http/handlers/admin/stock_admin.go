package admin

import (
	"strings"

	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// StockChangeRequest 入库/出库请求
type StockChangeRequest struct {
	Qty  int64  `json:"qty" binding:"required,gt=0"`
	Note string `json:"note" binding:"max=500"`
}

// StockIn 商品入库
func (h *Handler) StockIn(c *gin.Context) {
	productID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req StockChangeRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	movement, err := h.ProductService.StockIn(productID, req.Qty, strings.TrimSpace(req.Note))
	if err != nil {
		respondMappedError(c, err, handlershared.StockErrorRules, response.CodeInternal, "error.internal")
		return
	}
	h.respondMovement(c, productID, movement)
}

// StockOut 商品直接出库（门店零售、损耗）
func (h *Handler) StockOut(c *gin.Context) {
	productID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req StockChangeRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	movement, err := h.ProductService.StockOut(productID, req.Qty, strings.TrimSpace(req.Note))
	if err != nil {
		respondMappedError(c, err, handlershared.StockErrorRules, response.CodeInternal, "error.internal")
		return
	}
	h.respondMovement(c, productID, movement)
}

func (h *Handler) respondMovement(c *gin.Context, productID uint, movement interface{}) {
	available, err := h.InventoryService.GetAvailableQuantity(productID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"movement":           movement,
		"available_quantity": available,
	})
}

// ListStockMovements 商品库存流水
func (h *Handler) ListStockMovements(c *gin.Context) {
	productID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	movements, total, err := h.ProductService.ListMovements(repository.StockMovementFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
		Type:      strings.ToUpper(strings.TrimSpace(c.Query("type"))),
		RefType:   strings.TrimSpace(c.Query("ref_type")),
		RefID:     parseUintQuery(c.Query("ref_id")),
	})
	if err != nil {
		respondMappedError(c, err, handlershared.StockErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithPage(c, movements, response.BuildPagination(page, pageSize, total))
}
