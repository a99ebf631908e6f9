package constants

// 订单状态（小程序、POS、外卖回调共用的数字状态码）
const (
	OrderStatusCancelled  = 0 // 已取消（终态）
	OrderStatusPlaced     = 1 // 已下单
	OrderStatusMaking     = 2 // 制作中
	OrderStatusMade       = 3 // 制作完成
	OrderStatusDelivering = 4 // 配送中/待取餐
	OrderStatusCompleted  = 5 // 已完成（终态）
	OrderStatusDelivered  = 6 // 已送达（外卖渠道终态）
)

// 订单类型
const (
	OrderTypeSelf     = "self"     // 堂食
	OrderTypeDelivery = "delivery" // 外卖
	OrderTypePickup   = "pickup"   // 自取
)

// 支付方式
const (
	PaymentMethodWallet = "wallet" // 储值余额支付
	PaymentMethodWechat = "wechat" // 微信支付
	PaymentMethodCash   = "cash"   // 现金（POS）
)

// 余额流水类型
const (
	BalanceKindRecharge = "recharge" // 充值
	BalanceKindConsume  = "consume"  // 消费
	BalanceKindRefund   = "refund"   // 退款
	BalanceKindAdjust   = "adjust"   // 管理员调整
)

// 余额流水来源
const (
	BalanceSourceRecharge = "recharge" // 储值
	BalanceSourceOrder    = "order"    // 订单
	BalanceSourceAdmin    = "admin"    // 管理员操作
	BalanceSourceSystem   = "system"   // 系统
)

// 用户优惠券状态
const (
	UserCouponStatusUnused = "unused"
	UserCouponStatusUsed   = "used"
)

// 会员等级
const (
	MemberLevelNormal = "normal" // 基础等级（成长值门槛为 0）
)

// 系统配置键（system_configs 表，值为 {"rate": n} 形式的 JSON）
const (
	SettingKeyGrowthRate = "growth_rate"
	SettingKeyPointsRate = "points_rate"
	SettingFieldRate     = "rate"
)

// 队列与任务
const (
	QueueDefault          = "default"
	TaskOrderStatusNotify = "order:status_notify"
)
