package checker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/passwordtools/password_rules_checker/pkg/types"
)

// Mismatch 描述两条规则在哪个字段上不等价，携带双方的渲染值供诊断输出。
// 不等价是正常的比较结果，不是程序错误
type Mismatch struct {
	Field string
	A     string
	B     string
}

func (m *Mismatch) String() string {
	return fmt.Sprintf("field %q differs: %s vs %s", m.Field, m.A, m.B)
}

// Compare 逐字段比较两条已归一化的规则，返回第一个不匹配的字段；
// 完全等价时返回 nil。
// 调用方义务：两侧的 Allowed 必须先各自经过 NormalizeAllowed，
// 归一化依赖规则自身的 Required，这里不会代为归一化。
// 比较语义：长度与连续性约束按标量比较；allowed 按有序序列比较；
// required 按集合的集合比较（分组顺序与组内顺序均无语义）
func Compare(a, b *types.ParsedRule) *Mismatch {
	if !intPtrEqual(a.MinLength, b.MinLength) {
		return &Mismatch{Field: "minlength", A: formatOptInt(a.MinLength), B: formatOptInt(b.MinLength)}
	}
	if !intPtrEqual(a.MaxLength, b.MaxLength) {
		return &Mismatch{Field: "maxlength", A: formatOptInt(a.MaxLength), B: formatOptInt(b.MaxLength)}
	}
	if !intPtrEqual(a.MaxConsecutive, b.MaxConsecutive) {
		return &Mismatch{Field: "max-consecutive", A: formatOptInt(a.MaxConsecutive), B: formatOptInt(b.MaxConsecutive)}
	}
	if !types.ClassesEqual(a.Allowed, b.Allowed) {
		return &Mismatch{Field: "allowed", A: formatClassList(a.Allowed), B: formatClassList(b.Allowed)}
	}
	if !requiredEqual(a.Required, b.Required) {
		return &Mismatch{Field: "required", A: formatGroups(a.Required), B: formatGroups(b.Required)}
	}
	return nil
}

// requiredEqual 对称包含：a 的每个分组都能在 b 中找到类别集合相同的分组，反之亦然
func requiredEqual(a, b [][]types.CharacterClass) bool {
	aKeys := groupKeySet(a)
	bKeys := groupKeySet(b)
	if len(aKeys) != len(bKeys) {
		return false
	}
	for key := range aKeys {
		if _, ok := bKeys[key]; !ok {
			return false
		}
	}
	return true
}

// groupKey 把一个分组规约为规范化键：组内类别键排序后拼接，
// 使组内顺序和重复项都不影响比较
func groupKey(group []types.CharacterClass) string {
	keys := make([]string, 0, len(group))
	seen := make(map[string]struct{}, len(group))
	for _, c := range group {
		k := c.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

func groupKeySet(groups [][]types.CharacterClass) map[string]struct{} {
	set := make(map[string]struct{}, len(groups))
	for _, group := range groups {
		set[groupKey(group)] = struct{}{}
	}
	return set
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func formatOptInt(v *int) string {
	if v == nil {
		return "(absent)"
	}
	return fmt.Sprintf("%d", *v)
}

func formatClassList(classes []types.CharacterClass) string {
	if len(classes) == 0 {
		return "(empty)"
	}
	return types.FormatClasses(classes)
}

// formatGroups 按规范化键排序后渲染分组集合，保证诊断输出稳定
func formatGroups(groups [][]types.CharacterClass) string {
	if len(groups) == 0 {
		return "(empty)"
	}
	keys := make([]string, 0, len(groups))
	for key := range groupKeySet(groups) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = "{" + strings.ReplaceAll(key, "|", ", ") + "}"
	}
	return strings.Join(parts, " ")
}
