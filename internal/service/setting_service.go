package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/cache"
	"github.com/adminsolds/milktea-program-sub000/internal/constants"
	"github.com/adminsolds/milktea-program-sub000/internal/logger"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"
)

const settingCacheTTL = 5 * time.Minute

// SettingService 系统配置业务服务
type SettingService struct {
	repo repository.SystemConfigRepository
}

// NewSettingService 创建系统配置服务
func NewSettingService(repo repository.SystemConfigRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetByKey 获取配置值
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	config, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, nil
	}
	return config.Value, nil
}

// Update 更新配置值并失效缓存
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	config, err := s.repo.Upsert(key, value)
	if err != nil {
		return nil, err
	}
	if err := cache.Del(context.Background(), settingCacheKey(key)); err != nil {
		logger.Warnw("setting_cache_del_failed", "key", key, "error", err)
	}
	return config.Value, nil
}

// GetGrowthRate 获取成长值兑换比率（消费 N 元得 1 成长值），缺省为 1
func (s *SettingService) GetGrowthRate() int {
	return s.getRate(constants.SettingKeyGrowthRate)
}

// GetPointsRate 获取积分兑换比率（消费 N 元得 1 积分），缺省为 1
func (s *SettingService) GetPointsRate() int {
	return s.getRate(constants.SettingKeyPointsRate)
}

// getRate 读取 {"rate": n} 形式的比率配置，配置缺失或非法时回退为 1。
func (s *SettingService) getRate(key string) int {
	if s == nil {
		return 1
	}

	ctx := context.Background()
	var cached int
	if hit, err := cache.GetJSON(ctx, settingCacheKey(key), &cached); err == nil && hit && cached > 0 {
		return cached
	}

	value, err := s.GetByKey(key)
	if err != nil {
		logger.Warnw("setting_rate_query_failed", "key", key, "error", err)
		return 1
	}
	rate := 1
	if value != nil {
		if raw, ok := value[constants.SettingFieldRate]; ok {
			if parsed, parseErr := parseSettingInt(raw); parseErr == nil && parsed > 0 {
				rate = parsed
			}
		}
	}

	if err := cache.SetJSON(ctx, settingCacheKey(key), rate, settingCacheTTL); err != nil {
		logger.Warnw("setting_cache_set_failed", "key", key, "error", err)
	}
	return rate
}

func settingCacheKey(key string) string {
	return fmt.Sprintf("setting:%s", key)
}

func parseSettingInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := v.Float64(); err == nil {
			return int(f), nil
		}
		return 0, fmt.Errorf("invalid json number")
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported value type")
	}
}
