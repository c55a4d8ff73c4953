package service

import (
	"strconv"
	"strings"

	"github.com/bakery-next/internal/constants"
)

var orderStatusByName = map[string]int{
	constants.OrderStatusNamePending:    constants.OrderStatusPending,
	constants.OrderStatusNameProcessing: constants.OrderStatusProcessing,
	constants.OrderStatusNameShipped:    constants.OrderStatusShipped,
	constants.OrderStatusNameDelivered:  constants.OrderStatusDelivered,
	constants.OrderStatusNameCancelled:  constants.OrderStatusCancelled,
	"canceled":                          constants.OrderStatusCancelled,
}

// ParseOrderStatus 解析状态，支持数值 0-4 与状态名称
func ParseOrderStatus(raw string) (int, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return 0, ErrOrderStatusInvalid
	}
	if status, ok := orderStatusByName[raw]; ok {
		return status, nil
	}
	status, err := strconv.Atoi(raw)
	if err != nil || !IsValidOrderStatus(status) {
		return 0, ErrOrderStatusInvalid
	}
	return status, nil
}

// IsValidOrderStatus 判断状态值是否合法
func IsValidOrderStatus(status int) bool {
	return status >= constants.OrderStatusPending && status <= constants.OrderStatusCancelled
}

// checkOrderTransition 校验状态流转；已取消订单不可再流转
func checkOrderTransition(from, to int) error {
	if !IsValidOrderStatus(to) {
		return ErrOrderStatusInvalid
	}
	if from == constants.OrderStatusCancelled && to != constants.OrderStatusCancelled {
		return ErrOrderAlreadyCancelled
	}
	return nil
}

// enteringStatus 判断本次流转是否进入目标状态
func enteringStatus(from, to, target int) bool {
	return to == target && from != target
}

// affectsMembership 进入或离开已送达状态都需要重算会员
func affectsMembership(from, to int) bool {
	return from != to && (from == constants.OrderStatusDelivered || to == constants.OrderStatusDelivered)
}

// customerCancellable 顾客可自助取消的状态
func customerCancellable(status int) bool {
	return status == constants.OrderStatusPending || status == constants.OrderStatusProcessing
}
