package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passwordtools/password_rules_checker/pkg/types"
)

// normalized 解析并归一化一条规则，Compare 的调用方义务
func normalized(t *testing.T, raw string) *types.ParsedRule {
	t.Helper()
	rule := mustParse(t, raw)
	rule.Allowed = NormalizeAllowed(rule)
	return rule
}

// TestCompareReflexive 任意规则与自身等价
func TestCompareReflexive(t *testing.T) {
	rules := []string{
		"minlength: 8; maxlength: 64; max-consecutive: 2; required: upper; allowed: lower, digit",
		"required: upper, lower; required: digit",
		"allowed: ascii-printable",
		"",
	}

	for _, raw := range rules {
		rule := normalized(t, raw)
		assert.Nil(t, Compare(rule, rule), "规则 %q 与自身不等价", raw)
	}
}

// TestCompareSymmetric 等价判定是对称的
func TestCompareSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"minlength: 8; required: upper", "minlength: 8; required: upper"},
		{"minlength: 8; required: upper", "minlength: 9; required: upper"},
		{"required: upper; required: digit", "required: digit; required: upper"},
		{"allowed: lower, digit", "allowed: digit, lower"},
	}

	for _, pair := range pairs {
		a := normalized(t, pair[0])
		b := normalized(t, pair[1])
		assert.Equal(t, Compare(a, b) == nil, Compare(b, a) == nil,
			"比较 %q 与 %q 不对称", pair[0], pair[1])
	}
}

// TestCompareScalarFields 长度与连续性约束按标量比较，包含双方缺省的情况
func TestCompareScalarFields(t *testing.T) {
	testCases := []struct {
		name          string
		a, b          string
		expectedField string // 为空表示等价
	}{
		{
			name: "双方都缺省minlength视为相等",
			a:    "allowed: lower",
			b:    "allowed: lower",
		},
		{
			name:          "minlength数值不同",
			a:             "minlength: 8",
			b:             "minlength: 12",
			expectedField: "minlength",
		},
		{
			name:          "一方缺省minlength",
			a:             "minlength: 8",
			b:             "allowed: lower; required: lower",
			expectedField: "minlength",
		},
		{
			name:          "maxlength不同",
			a:             "minlength: 8; maxlength: 20",
			b:             "minlength: 8; maxlength: 30",
			expectedField: "maxlength",
		},
		{
			name:          "max-consecutive不同",
			a:             "max-consecutive: 2",
			b:             "max-consecutive: 3",
			expectedField: "max-consecutive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := normalized(t, tc.a)
			b := normalized(t, tc.b)
			mismatch := Compare(a, b)
			if tc.expectedField == "" {
				assert.Nil(t, mismatch)
			} else {
				require.NotNil(t, mismatch)
				assert.Equal(t, tc.expectedField, mismatch.Field, "失配字段不符")
			}
		})
	}
}

// TestCompareRequiredOrderIndependent required 分组顺序和组内顺序都不影响等价性
func TestCompareRequiredOrderIndependent(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
	}{
		{
			name: "组内类别顺序互换",
			a:    "required: upper, lower",
			b:    "required: lower, upper",
		},
		{
			name: "分组顺序互换",
			a:    "required: upper; required: digit",
			b:    "required: digit; required: upper",
		},
		{
			name: "分组与组内顺序同时互换",
			a:    "required: upper, lower; required: digit, special",
			b:    "required: special, digit; required: lower, upper",
		},
		{
			name: "自定义类别按码点集合参与分组比较",
			a:    "required: [ab], upper",
			b:    "required: upper, [ba]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := normalized(t, tc.a)
			b := normalized(t, tc.b)
			assert.Nil(t, Compare(a, b))
			assert.Nil(t, Compare(b, a))
		})
	}
}

// TestCompareRequiredMismatch required 分组集合不同导致不等价
func TestCompareRequiredMismatch(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
	}{
		{
			name: "分组数不同",
			a:    "required: upper",
			b:    "required: upper; required: digit",
		},
		{
			name: "分组内容不同",
			a:    "required: upper, lower",
			b:    "required: upper, digit",
		},
		{
			name: "一个分组不等于拆成两个分组",
			a:    "required: upper, lower",
			b:    "required: upper; required: lower",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := normalized(t, tc.a)
			b := normalized(t, tc.b)
			mismatch := Compare(a, b)
			require.NotNil(t, mismatch)
			assert.Equal(t, "required", mismatch.Field)
		})
	}
}

// TestAllowedOrderSensitivity 记录当前的字面行为：allowed 按有序序列比较，
// 类别集合相同但顺序不同判为不等价。语义上 allowed 是字符全集，
// 顺序并无策略含义，这里同时断言两个方向，使该选择是显式的而非偶然的
func TestAllowedOrderSensitivity(t *testing.T) {
	a := normalized(t, "allowed: lower, digit")
	b := normalized(t, "allowed: digit, lower")

	// 有序比较：不等价，失配字段为 allowed
	mismatch := Compare(a, b)
	require.NotNil(t, mismatch)
	assert.Equal(t, "allowed", mismatch.Field)

	// 集合视角：两侧包含完全相同的类别
	aKeys := make([]string, 0, len(a.Allowed))
	for _, c := range a.Allowed {
		aKeys = append(aKeys, c.Key())
	}
	bKeys := make([]string, 0, len(b.Allowed))
	for _, c := range b.Allowed {
		bKeys = append(bKeys, c.Key())
	}
	assert.ElementsMatch(t, aKeys, bKeys)
}

// TestCompareAfterNormalization 归一化后冗余的 allowed 声明不再影响等价性
func TestCompareAfterNormalization(t *testing.T) {
	// a 把必需的 upper 也列进了 allowed，b 没列；归一化后两者等价
	a := normalized(t, "minlength: 8; required: upper; allowed: upper, lower")
	b := normalized(t, "minlength: 8; required: upper; allowed: lower")

	assert.Nil(t, Compare(a, b))
}

// TestCompareCheckOrder 多个字段同时不同时报告最先检查的字段
func TestCompareCheckOrder(t *testing.T) {
	a := normalized(t, "minlength: 8; allowed: lower")
	b := normalized(t, "minlength: 9; allowed: digit")

	mismatch := Compare(a, b)
	require.NotNil(t, mismatch)
	assert.Equal(t, "minlength", mismatch.Field)
	assert.Equal(t, "8", mismatch.A)
	assert.Equal(t, "9", mismatch.B)
}

// TestMismatchRendering 失配描述包含字段名和双方的值
func TestMismatchRendering(t *testing.T) {
	a := normalized(t, "required: upper")
	b := normalized(t, "required: digit")

	mismatch := Compare(a, b)
	require.NotNil(t, mismatch)
	assert.Contains(t, mismatch.String(), `field "required"`)
	assert.Contains(t, mismatch.String(), "upper")
	assert.Contains(t, mismatch.String(), "digit")
}
