package repository

import (
	"github.com/adminsolds/milktea-program-sub000/internal/models"

	"gorm.io/gorm"
)

// BalanceRecordRepository 余额流水数据访问接口
type BalanceRecordRepository interface {
	Create(record *models.BalanceRecord) error
	List(filter BalanceRecordListFilter) ([]models.BalanceRecord, int64, error)
	ListByMemberAsc(memberID uint) ([]models.BalanceRecord, error)
	WithTx(tx *gorm.DB) *GormBalanceRecordRepository
}

// GormBalanceRecordRepository GORM 余额流水仓储实现
type GormBalanceRecordRepository struct {
	db *gorm.DB
}

// NewBalanceRecordRepository 创建余额流水仓储
func NewBalanceRecordRepository(db *gorm.DB) *GormBalanceRecordRepository {
	return &GormBalanceRecordRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBalanceRecordRepository) WithTx(tx *gorm.DB) *GormBalanceRecordRepository {
	if tx == nil {
		return r
	}
	return &GormBalanceRecordRepository{db: tx}
}

// Create 追加一条余额流水（流水只增不改）
func (r *GormBalanceRecordRepository) Create(record *models.BalanceRecord) error {
	return r.db.Create(record).Error
}

// List 分页查询余额流水
func (r *GormBalanceRecordRepository) List(filter BalanceRecordListFilter) ([]models.BalanceRecord, int64, error) {
	query := r.db.Model(&models.BalanceRecord{})
	if filter.MemberID != 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.SourceType != "" {
		query = query.Where("source_type = ?", filter.SourceType)
	}
	if filter.SourceID != 0 {
		query = query.Where("source_id = ?", filter.SourceID)
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

	var records []models.BalanceRecord
	if err := query.Order("id desc").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListByMemberAsc 按写入顺序读取会员的全部流水，用于余额重放核对
func (r *GormBalanceRecordRepository) ListByMemberAsc(memberID uint) ([]models.BalanceRecord, error) {
	if memberID == 0 {
		return []models.BalanceRecord{}, nil
	}
	var records []models.BalanceRecord
	if err := r.db.Where("member_id = ?", memberID).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
