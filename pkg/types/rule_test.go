package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCustomClassCanonical 自定义类别构造时排序并去重
func TestCustomClassCanonical(t *testing.T) {
	c := CustomClass([]rune("cba!a"))
	assert.Equal(t, []rune("!abc"), c.Custom)
	assert.Equal(t, "custom:!abc", c.Key())
	assert.Equal(t, "[!abc]", c.String())
}

// TestCharacterClassEqual 标签相同且码点集合一致才相等
func TestCharacterClassEqual(t *testing.T) {
	assert.True(t, Named(ClassUpper).Equal(Named(ClassUpper)))
	assert.False(t, Named(ClassUpper).Equal(Named(ClassLower)))
	assert.True(t, CustomClass([]rune("ab")).Equal(CustomClass([]rune("ba"))))
	assert.False(t, CustomClass([]rune("ab")).Equal(CustomClass([]rune("abc"))))
	assert.False(t, Named(ClassUpper).Equal(CustomClass([]rune("A"))))
}

// TestFormatClasses 按书写语法渲染类别列表
func TestFormatClasses(t *testing.T) {
	classes := []CharacterClass{
		Named(ClassUpper),
		Named(ClassASCIIPrintable),
		CustomClass([]rune("!#")),
	}
	assert.Equal(t, "upper, ascii-printable, [!#]", FormatClasses(classes))
	assert.Equal(t, "", FormatClasses(nil))
}

// TestClassesEqual 有序序列比较
func TestClassesEqual(t *testing.T) {
	a := []CharacterClass{Named(ClassUpper), Named(ClassLower)}
	b := []CharacterClass{Named(ClassUpper), Named(ClassLower)}
	c := []CharacterClass{Named(ClassLower), Named(ClassUpper)}

	assert.True(t, ClassesEqual(a, b))
	assert.False(t, ClassesEqual(a, c), "顺序不同的序列不相等")
	assert.False(t, ClassesEqual(a, a[:1]))
	assert.True(t, ClassesEqual(nil, []CharacterClass{}))
}
