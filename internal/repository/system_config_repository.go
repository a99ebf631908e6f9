package repository

import (
	"errors"

	"github.com/adminsolds/milktea-program-sub000/internal/models"

	"gorm.io/gorm"
)

// SystemConfigRepository 系统配置数据访问接口
type SystemConfigRepository interface {
	GetByKey(key string) (*models.SystemConfig, error)
	Upsert(key string, value models.JSON) (*models.SystemConfig, error)
}

// GormSystemConfigRepository GORM 实现
type GormSystemConfigRepository struct {
	db *gorm.DB
}

// NewSystemConfigRepository 创建系统配置仓库
func NewSystemConfigRepository(db *gorm.DB) *GormSystemConfigRepository {
	return &GormSystemConfigRepository{db: db}
}

// GetByKey 获取配置
func (r *GormSystemConfigRepository) GetByKey(key string) (*models.SystemConfig, error) {
	var config models.SystemConfig
	if err := r.db.Where("key = ?", key).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// Upsert 更新或创建配置
func (r *GormSystemConfigRepository) Upsert(key string, value models.JSON) (*models.SystemConfig, error) {
	config, err := r.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &models.SystemConfig{
			Key:   key,
			Value: value,
		}
		if err := r.db.Create(config).Error; err != nil {
			return nil, err
		}
		return config, nil
	}

	config.Value = value
	if err := r.db.Save(config).Error; err != nil {
		return nil, err
	}
	return config, nil
}
