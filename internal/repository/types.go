package repository

import "time"

// MemberListFilter 查询会员列表的过滤条件
type MemberListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	LevelID     string
	IsActive    *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// BalanceRecordListFilter 查询余额流水列表的过滤条件
type BalanceRecordListFilter struct {
	Page        int
	PageSize    int
	MemberID    uint
	Kind        string
	SourceType  string
	SourceID    uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	MemberID    uint
	StoreID     uint
	Status      *int
	OrderNo     string
	OrderType   string
	Phone       string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserCouponListFilter 查询用户优惠券列表的过滤条件
type UserCouponListFilter struct {
	Page     int
	PageSize int
	MemberID uint
	Status   string
}
