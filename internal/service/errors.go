package service

import "errors"

// 服务层统一业务错误，handler 通过 errors.Is 映射为响应码。
var (
	ErrInvalidInput = errors.New("invalid input")

	ErrMemberNotFound = errors.New("member not found")
	ErrMemberInactive = errors.New("member inactive")

	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderStatusInvalid = errors.New("order status invalid")
	ErrOrderUpdateFailed  = errors.New("order update failed")

	ErrCouponNotFound    = errors.New("coupon not found")
	ErrCouponNotUsable   = errors.New("coupon not usable")
	ErrCouponNotMatched  = errors.New("coupon not matched")
	ErrCouponMinNotReach = errors.New("coupon min amount not reached")

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrBalanceWriteFailed  = errors.New("balance write failed")

	ErrRefundNotAllowed = errors.New("refund not allowed")

	ErrMemberLevelNotConfigured = errors.New("member level not configured")

	ErrAdminNotFound     = errors.New("admin not found")
	ErrAdminDisabled     = errors.New("admin disabled")
	ErrPasswordIncorrect = errors.New("password incorrect")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenSignFailed   = errors.New("token sign failed")
)
