package checker

import (
	"github.com/passwordtools/password_rules_checker/pkg/types"
)

// NormalizeAllowed 返回 allowed 中去掉冗余项之后的子序列：
// 凡是已经出现在任意 required 分组里的类别，列在 allowed 中只是重复声明，
// 可以安全移除。保持幸存类别的原始相对顺序（顺序用于展示），不修改输入
func NormalizeAllowed(rule *types.ParsedRule) []types.CharacterClass {
	out := make([]types.CharacterClass, 0, len(rule.Allowed))
	for _, allowed := range rule.Allowed {
		if !requiredContains(rule.Required, allowed) {
			out = append(out, allowed)
		}
	}
	return out
}

func requiredContains(required [][]types.CharacterClass, c types.CharacterClass) bool {
	for _, group := range required {
		for _, member := range group {
			if member.Equal(c) {
				return true
			}
		}
	}
	return false
}
