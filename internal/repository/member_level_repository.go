package repository

import (
	"errors"
	"strings"

	"github.com/adminsolds/milktea-program-sub000/internal/models"

	"gorm.io/gorm"
)

// MemberLevelRepository 会员等级数据访问接口
type MemberLevelRepository interface {
	GetByLevelID(levelID string) (*models.MemberLevel, error)
	ListActive() ([]models.MemberLevel, error)
	ListAll() ([]models.MemberLevel, error)
	Create(level *models.MemberLevel) error
	Update(level *models.MemberLevel) error
	WithTx(tx *gorm.DB) *GormMemberLevelRepository
}

// GormMemberLevelRepository GORM 会员等级仓储实现
type GormMemberLevelRepository struct {
	db *gorm.DB
}

// NewMemberLevelRepository 创建会员等级仓储
func NewMemberLevelRepository(db *gorm.DB) *GormMemberLevelRepository {
	return &GormMemberLevelRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMemberLevelRepository) WithTx(tx *gorm.DB) *GormMemberLevelRepository {
	if tx == nil {
		return r
	}
	return &GormMemberLevelRepository{db: tx}
}

// GetByLevelID 按等级标识获取等级
func (r *GormMemberLevelRepository) GetByLevelID(levelID string) (*models.MemberLevel, error) {
	levelID = strings.TrimSpace(levelID)
	if levelID == "" {
		return nil, nil
	}
	var level models.MemberLevel
	if err := r.db.Where("level_id = ?", levelID).First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &level, nil
}

// ListActive 按成长值门槛升序获取启用中的等级
func (r *GormMemberLevelRepository) ListActive() ([]models.MemberLevel, error) {
	var levels []models.MemberLevel
	if err := r.db.Where("is_active = ?", true).
		Order("growth_required asc").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// ListAll 获取全部等级
func (r *GormMemberLevelRepository) ListAll() ([]models.MemberLevel, error) {
	var levels []models.MemberLevel
	if err := r.db.Order("sort_order asc, growth_required asc").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Create 创建等级
func (r *GormMemberLevelRepository) Create(level *models.MemberLevel) error {
	return r.db.Create(level).Error
}

// Update 更新等级
func (r *GormMemberLevelRepository) Update(level *models.MemberLevel) error {
	return r.db.Save(level).Error
}
