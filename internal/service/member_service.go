package service

import (
	"time"

	"github.com/adminsolds/milktea-program-sub000/internal/logger"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"

	"gorm.io/gorm"
)

// MemberService 会员业务服务
// 成长值、积分与等级的全部写入都经由此服务，等级永远是成长值的派生结果。
type MemberService struct {
	memberRepo repository.MemberRepository
	levelRepo  repository.MemberLevelRepository
}

// MemberDetail 会员详情（含等级信息）
type MemberDetail struct {
	Member *models.Member      `json:"member"`
	Level  *models.MemberLevel `json:"level,omitempty"`
}

// NewMemberService 创建会员服务
func NewMemberService(
	memberRepo repository.MemberRepository,
	levelRepo repository.MemberLevelRepository,
) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		levelRepo:  levelRepo,
	}
}

// GetMember 获取会员详情
func (s *MemberService) GetMember(memberID uint) (*MemberDetail, error) {
	member, err := s.memberRepo.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	level, err := s.levelRepo.GetByLevelID(member.LevelID)
	if err != nil {
		return nil, err
	}
	return &MemberDetail{Member: member, Level: level}, nil
}

// GetMemberByPhone 按手机号查会员（POS 现场点单用）
func (s *MemberService) GetMemberByPhone(phone string) (*models.Member, error) {
	member, err := s.memberRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// ListMembers 分页查询会员
func (s *MemberService) ListMembers(filter repository.MemberListFilter) ([]models.Member, int64, error) {
	return s.memberRepo.List(filter)
}

// AdminSetGrowthValue 管理员校正会员成长值并重新评定等级（允许下调触发降级）
func (s *MemberService) AdminSetGrowthValue(memberID uint, growthValue int) (*models.Member, error) {
	if growthValue < 0 {
		return nil, ErrInvalidInput
	}
	var result *models.Member
	if err := s.memberRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.memberRepo.WithTx(tx)
		member, err := repo.GetByIDForUpdate(memberID)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrMemberNotFound
		}
		member.GrowthValue = growthValue
		if err := s.ReevaluateLevelInTx(tx, member); err != nil {
			return err
		}
		member.UpdatedAt = time.Now()
		if err := repo.Update(member); err != nil {
			return err
		}
		result = member
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// AddGrowthAndPointsInTx 在事务内增加成长值与积分并重新评定等级
// member 必须是事务内加锁取得的行；本方法只改内存值并评定等级，落库由调用方完成。
func (s *MemberService) AddGrowthAndPointsInTx(tx *gorm.DB, member *models.Member, growthDelta, pointsDelta int) error {
	if member == nil {
		return ErrMemberNotFound
	}
	if growthDelta < 0 || pointsDelta < 0 {
		return ErrInvalidInput
	}
	member.GrowthValue += growthDelta
	member.Points += pointsDelta
	return s.ReevaluateLevelInTx(tx, member)
}

// ReevaluateLevelInTx 按当前成长值重新评定会员等级
// 每次成长值写入后都必须调用；评定结果与现等级不同时改写 level_id。
func (s *MemberService) ReevaluateLevelInTx(tx *gorm.DB, member *models.Member) error {
	if member == nil {
		return ErrMemberNotFound
	}
	levels, err := s.levelRepo.WithTx(tx).ListActive()
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return ErrMemberLevelNotConfigured
	}
	matched := EvaluateLevel(member.GrowthValue, levels)
	if matched == nil {
		// 等级表配置不含 0 门槛的基础等级时取最低档兜底
		matched = &levels[0]
	}
	if matched.LevelID != member.LevelID {
		logger.Infow("member_level_changed",
			"member_id", member.ID,
			"from", member.LevelID,
			"to", matched.LevelID,
			"growth_value", member.GrowthValue,
		)
		member.LevelID = matched.LevelID
	}
	return nil
}
