package service

import (
	"context"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/logger"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"

	"gorm.io/gorm"
)

// GetOrder 后台获取订单详情（含回收站）
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID, true)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetMyOrder 获取顾客本人的订单
func (s *OrderService) GetMyOrder(customerID, orderID uint) (*models.Order, error) {
	if customerID == 0 || orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByIDAndCustomer(orderID, customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListMyOrders 顾客订单列表
func (s *OrderService) ListMyOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.CustomerID == 0 {
		return []models.Order{}, 0, nil
	}
	return s.orderRepo.ListByCustomer(filter)
}

// ListAdmin 后台订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// TrashOrder 移入回收站
func (s *OrderService) TrashOrder(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID, false)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if err := s.orderRepo.SoftDelete(order.ID); err != nil {
		return err
	}
	logger.Infow("order_trashed", "order_id", order.ID, "order_no", order.OrderNo)
	s.recomputeIfDelivered(ctx, order)
	return nil
}

// RestoreOrder 从回收站恢复
func (s *OrderService) RestoreOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !order.DeletedAt.Valid {
		return nil, ErrOrderNotTrashed
	}
	if err := s.orderRepo.Restore(order.ID); err != nil {
		return nil, err
	}
	logger.Infow("order_restored", "order_id", order.ID, "order_no", order.OrderNo)
	s.recomputeIfDelivered(ctx, order)
	return s.GetOrder(order.ID)
}

// PurgeOrder 彻底删除回收站中的订单并删除明细
// 未出库的订单清除库存流水并回退优惠券次数；已出库的流水与优惠券记录保留。
func (s *OrderService) PurgeOrder(ctx context.Context, orderID uint) error {
	var purged *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByID(orderID, true)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !order.DeletedAt.Valid {
			return ErrOrderNotTrashed
		}
		inventory := s.inventory.WithTx(tx)
		committed, err := inventory.HasCommitted(constants.StockRefOrder, order.ID)
		if err != nil {
			return err
		}
		rows, err := inventory.PurgeByReference(constants.StockRefOrder, order.ID)
		if err != nil {
			return err
		}
		// 已送达订单的优惠确实被使用，次数不回退
		if !committed && order.Status != constants.OrderStatusDelivered {
			if _, err := s.coupons.ReleaseUsage(tx, order.ID); err != nil {
				return err
			}
		}
		if err := orderRepo.Purge(order.ID); err != nil {
			return err
		}
		logger.Infow("order_purged",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"stock_rows_purged", rows,
			"stock_committed", committed,
		)
		purged = order
		return nil
	})
	if err != nil {
		return err
	}
	s.recomputeIfDelivered(ctx, purged)
	return nil
}

func (s *OrderService) recomputeIfDelivered(ctx context.Context, order *models.Order) {
	if order == nil || order.CustomerID == nil || order.Status != constants.OrderStatusDelivered {
		return
	}
	s.recomputeMembership(ctx, *order.CustomerID)
}
