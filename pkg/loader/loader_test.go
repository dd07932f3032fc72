package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePreservesOrder 站点顺序与文件中的书写顺序一致
func TestParsePreservesOrder(t *testing.T) {
	data := []byte(`{
		"c.example.com": {"password-rules": "minlength: 8"},
		"a.example.com": {"password-rules": "required: upper"},
		"b.example.com": {"password-rules": "allowed: digit"}
	}`)

	set, err := parse(data)
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())

	sites := make([]string, 0, set.Len())
	for _, entry := range set.Entries() {
		sites = append(sites, entry.Site)
	}
	assert.Equal(t, []string{"c.example.com", "a.example.com", "b.example.com"}, sites)
}

// TestParseGet 按站点名查找
func TestParseGet(t *testing.T) {
	data := []byte(`{"example.com": {"password-rules": "minlength: 8"}}`)

	set, err := parse(data)
	require.NoError(t, err)

	entry, ok := set.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, "minlength: 8", entry.RawRule)

	_, ok = set.Get("missing.example.com")
	assert.False(t, ok)
}

// TestParseErrors 测试各类格式错误
func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name        string
		data        string
		errContains string
	}{
		{
			name:        "顶层不是对象",
			data:        `["example.com"]`,
			errContains: "top-level JSON value must be an object",
		},
		{
			name:        "缺少password-rules字段",
			data:        `{"example.com": {"other": "x"}}`,
			errContains: "missing the password-rules property",
		},
		{
			name:        "站点重复",
			data:        `{"example.com": {"password-rules": "minlength: 8"}, "example.com": {"password-rules": "minlength: 9"}}`,
			errContains: "duplicate entry for site",
		},
		{
			name:        "顶层对象之后有多余内容",
			data:        `{} {}`,
			errContains: "unexpected data after top-level object",
		},
		{
			name:        "JSON截断",
			data:        `{"example.com": {"password-rules":`,
			errContains: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := parse([]byte(tc.data))
			require.Error(t, err)
			assert.Nil(t, set)
			if tc.errContains != "" {
				assert.Contains(t, err.Error(), tc.errContains)
			}
		})
	}
}

// TestLoadFromFile 从磁盘加载并在失败时携带文件路径上下文
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	content := `{"example.com": {"password-rules": "minlength: 8; required: upper"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())

	entry, ok := set.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, "minlength: 8; required: upper", entry.RawRule)
}

// TestLoadMissingFile 文件不存在时错误信息包含路径
func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not_exist.json")
	set, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, set)
	assert.Contains(t, err.Error(), "failed to read rules file")
	assert.Contains(t, err.Error(), path)
}

// TestLoadMalformedJSON 非法JSON的错误信息包含路径
func TestLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	set, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, set)
	assert.Contains(t, err.Error(), "failed to parse JSON loaded from")
	assert.Contains(t, err.Error(), path)
}
