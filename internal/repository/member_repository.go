package repository

import (
	"errors"
	"strings"

	"github.com/adminsolds/milktea-program-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberRepository 会员数据访问接口
type MemberRepository interface {
	GetByID(id uint) (*models.Member, error)
	GetByIDForUpdate(id uint) (*models.Member, error)
	GetByOpenID(openID string) (*models.Member, error)
	GetByPhone(phone string) (*models.Member, error)
	GetByMemberNo(memberNo string) (*models.Member, error)
	Create(member *models.Member) error
	Update(member *models.Member) error
	List(filter MemberListFilter) ([]models.Member, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormMemberRepository
}

// GormMemberRepository GORM 会员仓储实现
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// Transaction 在数据库事务内执行
func (r *GormMemberRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormMemberRepository) WithTx(tx *gorm.DB) *GormMemberRepository {
	if tx == nil {
		return r
	}
	return &GormMemberRepository{db: tx}
}

// GetByID 按主键获取会员
func (r *GormMemberRepository) GetByID(id uint) (*models.Member, error) {
	if id == 0 {
		return nil, nil
	}
	var member models.Member
	if err := r.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// GetByIDForUpdate 按主键加锁获取会员
func (r *GormMemberRepository) GetByIDForUpdate(id uint) (*models.Member, error) {
	if id == 0 {
		return nil, nil
	}
	var member models.Member
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// GetByOpenID 按小程序 OpenID 获取会员
func (r *GormMemberRepository) GetByOpenID(openID string) (*models.Member, error) {
	openID = strings.TrimSpace(openID)
	if openID == "" {
		return nil, nil
	}
	var member models.Member
	if err := r.db.Where("open_id = ?", openID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// GetByPhone 按手机号获取会员
func (r *GormMemberRepository) GetByPhone(phone string) (*models.Member, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	var member models.Member
	if err := r.db.Where("phone = ?", phone).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// GetByMemberNo 按会员号获取会员
func (r *GormMemberRepository) GetByMemberNo(memberNo string) (*models.Member, error) {
	memberNo = strings.TrimSpace(memberNo)
	if memberNo == "" {
		return nil, nil
	}
	var member models.Member
	if err := r.db.Where("member_no = ?", memberNo).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// Create 创建会员
func (r *GormMemberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}

// Update 更新会员
func (r *GormMemberRepository) Update(member *models.Member) error {
	return r.db.Save(member).Error
}

// List 分页查询会员
func (r *GormMemberRepository) List(filter MemberListFilter) ([]models.Member, int64, error) {
	query := r.db.Model(&models.Member{})
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("(nickname LIKE ? OR phone LIKE ? OR member_no LIKE ?)", like, like, like)
	}
	if filter.LevelID != "" {
		query = query.Where("level_id = ?", filter.LevelID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var members []models.Member
	if err := query.Order("id desc").Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}
