package loader

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/passwordtools/password_rules_checker/pkg/types"
)

// quirk 规则文件中单个站点对象，固定只有一个 password-rules 字段
type quirk struct {
	PasswordRules *string `json:"password-rules"`
}

// RuleSet 一个规则文件加载后的有序站点映射
type RuleSet struct {
	entries []types.RuleEntry
	index   map[string]int
}

// Entries 按文件中出现的顺序返回全部记录
func (s *RuleSet) Entries() []types.RuleEntry {
	return s.entries
}

// Get 按站点名查找记录
func (s *RuleSet) Get(site string) (types.RuleEntry, bool) {
	i, ok := s.index[site]
	if !ok {
		return types.RuleEntry{}, false
	}
	return s.entries[i], true
}

func (s *RuleSet) Len() int {
	return len(s.entries)
}

// Load 从 JSON 文件加载规则映射。顶层必须是对象，键为站点名，
// 值为含 password-rules 字符串的对象。用 Decoder 逐 token 读取
// 以保留文件中的站点顺序，标准 map 反序列化会丢掉顺序
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rules file %s", path)
	}

	set, err := parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse JSON loaded from %s", path)
	}
	return set, nil
}

func parse(data []byte) (*RuleSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("top-level JSON value must be an object")
	}

	set := &RuleSet{index: make(map[string]int)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		site, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("object key is not a string")
		}

		var q quirk
		if err := dec.Decode(&q); err != nil {
			return nil, errors.Wrapf(err, "invalid entry for site %s", site)
		}
		if q.PasswordRules == nil {
			return nil, errors.Errorf("entry for site %s is missing the password-rules property", site)
		}
		if _, exists := set.index[site]; exists {
			return nil, errors.Errorf("duplicate entry for site %s", site)
		}

		set.index[site] = len(set.entries)
		set.entries = append(set.entries, types.RuleEntry{Site: site, RawRule: *q.PasswordRules})
	}

	// 消费闭括号并确认后面没有多余内容
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level object")
	}
	return set, nil
}
