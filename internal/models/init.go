package models

import (
	"github.com/adminsolds/milktea-program-sub000/internal/constants"
	"github.com/adminsolds/milktea-program-sub000/internal/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(username, password string) error {
	var count int64
	DB.Model(&Admin{}).Count(&count)
	if count > 0 {
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
		Nickname:     "管理员",
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}

// InitDefaultMemberLevels 初始化默认会员等级（基础等级成长值门槛必须为 0）
func InitDefaultMemberLevels() error {
	var count int64
	DB.Model(&MemberLevel{}).Count(&count)
	if count > 0 {
		return nil
	}

	levels := []MemberLevel{
		{Name: "普通会员", LevelID: constants.MemberLevelNormal, GrowthRequired: 0, Discount: decimal.NewFromInt(100), SortOrder: 1, IsActive: true},
		{Name: "银卡会员", LevelID: "silver", GrowthRequired: 500, Discount: decimal.NewFromInt(95), SortOrder: 2, IsActive: true},
		{Name: "金卡会员", LevelID: "gold", GrowthRequired: 2000, Discount: decimal.NewFromInt(90), SortOrder: 3, IsActive: true},
	}
	return DB.Create(&levels).Error
}

// InitDefaultLoyaltyRates 初始化成长值/积分换算比例（已存在的配置不覆盖）
func InitDefaultLoyaltyRates(growthRate, pointsRate int) error {
	if growthRate <= 0 {
		growthRate = 1
	}
	if pointsRate <= 0 {
		pointsRate = 1
	}

	defaults := []SystemConfig{
		{Key: constants.SettingKeyGrowthRate, Value: JSON{"rate": growthRate}, Description: "每消费 1 元获得的成长值", Category: "loyalty"},
		{Key: constants.SettingKeyPointsRate, Value: JSON{"rate": pointsRate}, Description: "每消费 1 元获得的积分", Category: "loyalty"},
	}
	for _, cfg := range defaults {
		var count int64
		DB.Model(&SystemConfig{}).Where("key = ?", cfg.Key).Count(&count)
		if count > 0 {
			continue
		}
		if err := DB.Create(&cfg).Error; err != nil {
			return err
		}
	}
	return nil
}
