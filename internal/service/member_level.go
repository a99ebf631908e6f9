package service

import (
	"github.com/adminsolds/milktea-program-sub000/internal/models"
)

// EvaluateLevel 按成长值评定会员等级
// levels 必须按 growth_required 升序；返回最后一个门槛 ≤ growthValue 的等级。
// 评定只依赖当前成长值，成长值被下调后下一次评定即降级。
func EvaluateLevel(growthValue int, levels []models.MemberLevel) *models.MemberLevel {
	var matched *models.MemberLevel
	for i := range levels {
		if levels[i].GrowthRequired <= growthValue {
			matched = &levels[i]
			continue
		}
		break
	}
	return matched
}
