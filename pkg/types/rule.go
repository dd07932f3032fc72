package types

import (
	"sort"
	"strings"
)

// ClassKind 字符类别的标签
type ClassKind string

const (
	ClassUpper          ClassKind = "upper"
	ClassLower          ClassKind = "lower"
	ClassDigit          ClassKind = "digit"
	ClassSpecial        ClassKind = "special"
	ClassASCIIPrintable ClassKind = "ascii-printable"
	ClassUnicode        ClassKind = "unicode"
	ClassCustom         ClassKind = "custom"
)

// CharacterClass 表示密码规则中的一个字符类别。
// 命名类别只有 Kind；自定义类别额外携带一组码点，
// 解析器保证 Custom 已排序且去重，因此集合相等可以按切片比较。
type CharacterClass struct {
	Kind   ClassKind
	Custom []rune
}

// Named 创建一个命名字符类别
func Named(kind ClassKind) CharacterClass {
	return CharacterClass{Kind: kind}
}

// CustomClass 由字面码点创建自定义类别，内部排序并去重
func CustomClass(chars []rune) CharacterClass {
	dedup := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		dedup[r] = struct{}{}
	}
	out := make([]rune, 0, len(dedup))
	for r := range dedup {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return CharacterClass{Kind: ClassCustom, Custom: out}
}

// Equal 判断两个字符类别是否相等：标签相同，且自定义类别的码点集合完全一致
func (c CharacterClass) Equal(other CharacterClass) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind != ClassCustom {
		return true
	}
	if len(c.Custom) != len(other.Custom) {
		return false
	}
	for i, r := range c.Custom {
		if other.Custom[i] != r {
			return false
		}
	}
	return true
}

// Key 返回类别的规范化键，用于 required 分组的集合比较
func (c CharacterClass) Key() string {
	if c.Kind != ClassCustom {
		return string(c.Kind)
	}
	return "custom:" + string(c.Custom)
}

// String 按规则语法的写法渲染类别
func (c CharacterClass) String() string {
	if c.Kind != ClassCustom {
		return string(c.Kind)
	}
	return "[" + string(c.Custom) + "]"
}

// FormatClasses 将类别序列渲染为逗号分隔的列表
func FormatClasses(classes []CharacterClass) string {
	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// ClassesEqual 按序比较两个类别序列
func ClassesEqual(a, b []CharacterClass) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// ParsedRule 一条密码规则解析后的结构化结果。
// Required 的每个元素是一个备选分组：密码必须包含该分组中至少一个类别，
// 分组之间是逻辑与。Allowed 是密码中允许出现的全部字符类别，
// 其顺序只影响展示，不影响策略语义。
type ParsedRule struct {
	MinLength      *int
	MaxLength      *int
	MaxConsecutive *int
	Required       [][]CharacterClass
	Allowed        []CharacterClass
}

// RuleEntry 规则文件中的一条记录：站点名及其原始规则字符串
type RuleEntry struct {
	Site    string
	RawRule string
}
