package repository

import (
	"errors"

	"github.com/adminsolds/milktea-program-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserCouponRepository 用户优惠券数据访问接口
type UserCouponRepository interface {
	GetByID(id uint) (*models.UserCoupon, error)
	GetByIDForUpdate(id uint) (*models.UserCoupon, error)
	GetWithCoupon(id uint) (*models.UserCoupon, error)
	Create(userCoupon *models.UserCoupon) error
	Update(userCoupon *models.UserCoupon) error
	List(filter UserCouponListFilter) ([]models.UserCoupon, int64, error)
	WithTx(tx *gorm.DB) *GormUserCouponRepository
}

// GormUserCouponRepository GORM 用户优惠券仓储实现
type GormUserCouponRepository struct {
	db *gorm.DB
}

// NewUserCouponRepository 创建用户优惠券仓储
func NewUserCouponRepository(db *gorm.DB) *GormUserCouponRepository {
	return &GormUserCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserCouponRepository) WithTx(tx *gorm.DB) *GormUserCouponRepository {
	if tx == nil {
		return r
	}
	return &GormUserCouponRepository{db: tx}
}

// GetByID 按主键获取用户优惠券
func (r *GormUserCouponRepository) GetByID(id uint) (*models.UserCoupon, error) {
	if id == 0 {
		return nil, nil
	}
	var userCoupon models.UserCoupon
	if err := r.db.First(&userCoupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &userCoupon, nil
}

// GetByIDForUpdate 按主键加锁获取用户优惠券
func (r *GormUserCouponRepository) GetByIDForUpdate(id uint) (*models.UserCoupon, error) {
	if id == 0 {
		return nil, nil
	}
	var userCoupon models.UserCoupon
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&userCoupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &userCoupon, nil
}

// GetWithCoupon 按主键获取用户优惠券并预加载券模板
func (r *GormUserCouponRepository) GetWithCoupon(id uint) (*models.UserCoupon, error) {
	if id == 0 {
		return nil, nil
	}
	var userCoupon models.UserCoupon
	if err := r.db.Preload("Coupon").First(&userCoupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &userCoupon, nil
}

// Create 创建用户优惠券
func (r *GormUserCouponRepository) Create(userCoupon *models.UserCoupon) error {
	return r.db.Create(userCoupon).Error
}

// Update 更新用户优惠券
func (r *GormUserCouponRepository) Update(userCoupon *models.UserCoupon) error {
	return r.db.Save(userCoupon).Error
}

// List 分页查询用户优惠券
func (r *GormUserCouponRepository) List(filter UserCouponListFilter) ([]models.UserCoupon, int64, error) {
	query := r.db.Model(&models.UserCoupon{})
	if filter.MemberID != 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var userCoupons []models.UserCoupon
	if err := query.Preload("Coupon").Order("id desc").Find(&userCoupons).Error; err != nil {
		return nil, 0, err
	}
	return userCoupons, total, nil
}
