package parser

import (
	"strings"

	"github.com/passwordtools/password_rules_checker/pkg/types"
)

// 命名字符类别表，类别名不区分大小写
var namedClasses = map[string]types.ClassKind{
	"upper":           types.ClassUpper,
	"lower":           types.ClassLower,
	"digit":           types.ClassDigit,
	"special":         types.ClassSpecial,
	"ascii-printable": types.ClassASCIIPrintable,
	"unicode":         types.ClassUnicode,
}

// Parse 将一条原始密码规则字符串解析为结构化规则。
// 规则由分号分隔的属性组成：minlength/maxlength/max-consecutive 取无符号整数，
// required/allowed 取逗号分隔的字符类别列表；每个 required 属性构成一个备选分组。
// strict 为真时任何语法问题都返回 *ParseError；否则跳过出错的属性继续解析。
func Parse(raw string, strict bool) (*types.ParsedRule, error) {
	p := &ruleParser{raw: raw, strict: strict, rule: &types.ParsedRule{}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.rule, nil
}

type ruleParser struct {
	raw    string
	strict bool
	rule   *types.ParsedRule
}

func (p *ruleParser) run() error {
	pos := 0
	for pos <= len(p.raw) {
		end := p.propertyEnd(pos)
		if err := p.parseProperty(pos, end); err != nil {
			if p.strict {
				return err
			}
			// 非严格模式：整条属性作废，继续处理后面的属性
		}
		pos = end + 1
	}
	return nil
}

// propertyEnd 返回从 start 开始这条属性的结束位置：
// 下一个不在自定义类别方括号内的分号，或字符串末尾
func (p *ruleParser) propertyEnd(start int) int {
	inCustom := false
	literalNext := false
	for i := start; i < len(p.raw); i++ {
		c := p.raw[i]
		switch {
		case inCustom:
			if literalNext {
				literalNext = false
				continue
			}
			if c == ']' {
				inCustom = false
			}
		case c == '[':
			inCustom = true
			literalNext = true // 紧跟 [ 的首字符按字面处理，即使是 ]
		case c == ';':
			return i
		}
	}
	return len(p.raw)
}

func (p *ruleParser) parseProperty(start, end int) error {
	nameStart := p.skipSpace(start, end)
	if nameStart >= end {
		return nil // 空属性（连续分号或尾随分号），直接忽略
	}

	colon := strings.IndexByte(p.raw[nameStart:end], ':')
	if colon < 0 {
		return newParseError(nameStart, "expected ':' after property name")
	}
	colon += nameStart

	name := strings.ToLower(strings.TrimSpace(p.raw[nameStart:colon]))
	valueStart := colon + 1

	switch name {
	case "minlength":
		return p.setInt(&p.rule.MinLength, name, nameStart, valueStart, end)
	case "maxlength":
		return p.setInt(&p.rule.MaxLength, name, nameStart, valueStart, end)
	case "max-consecutive":
		return p.setInt(&p.rule.MaxConsecutive, name, nameStart, valueStart, end)
	case "required":
		group, err := p.parseClassList(valueStart, end)
		if err != nil {
			return err
		}
		p.rule.Required = append(p.rule.Required, group)
		return nil
	case "allowed":
		classes, err := p.parseClassList(valueStart, end)
		if err != nil {
			return err
		}
		for _, c := range classes {
			if !containsClass(p.rule.Allowed, c) {
				p.rule.Allowed = append(p.rule.Allowed, c)
			}
		}
		return nil
	default:
		return newParseError(nameStart, "unknown property %q", name)
	}
}

// setInt 解析无符号整数属性值。同名属性重复出现时报错，
// 非严格模式下这意味着保留第一次出现的值
func (p *ruleParser) setInt(dst **int, name string, nameStart, valueStart, end int) error {
	if *dst != nil {
		return newParseError(nameStart, "duplicate property %q", name)
	}

	vs := p.skipSpace(valueStart, end)
	ve := p.trimEnd(vs, end)
	if vs >= ve {
		return newParseError(vs, "expected unsigned integer")
	}

	n := 0
	for i := vs; i < ve; i++ {
		c := p.raw[i]
		if c < '0' || c > '9' {
			return newParseError(i, "expected unsigned integer")
		}
		n = n*10 + int(c-'0')
	}
	v := n
	*dst = &v
	return nil
}

// parseClassList 解析逗号分隔的字符类别列表，逗号在方括号内按字面处理。
// 同一列表内重复的类别只保留首次出现
func (p *ruleParser) parseClassList(start, end int) ([]types.CharacterClass, error) {
	var classes []types.CharacterClass

	itemStart := start
	inCustom := false
	literalNext := false
	for i := start; i < end; i++ {
		c := p.raw[i]
		switch {
		case inCustom:
			if literalNext {
				literalNext = false
				continue
			}
			if c == ']' {
				inCustom = false
			}
		case c == '[':
			inCustom = true
			literalNext = true
		case c == ',':
			cls, err := p.parseClassItem(itemStart, i)
			if err != nil {
				return nil, err
			}
			if !containsClass(classes, cls) {
				classes = append(classes, cls)
			}
			itemStart = i + 1
		}
	}

	cls, err := p.parseClassItem(itemStart, end)
	if err != nil {
		return nil, err
	}
	if !containsClass(classes, cls) {
		classes = append(classes, cls)
	}
	return classes, nil
}

func (p *ruleParser) parseClassItem(start, end int) (types.CharacterClass, error) {
	s := p.skipSpace(start, end)
	e := p.trimEnd(s, end)
	if s >= e {
		return types.CharacterClass{}, newParseError(s, "expected character class")
	}

	if p.raw[s] == '[' {
		return p.parseCustomClass(s, e)
	}

	word := p.raw[s:e]
	kind, ok := namedClasses[strings.ToLower(word)]
	if !ok {
		return types.CharacterClass{}, newParseError(s, "unknown character class %q", word)
	}
	return types.Named(kind), nil
}

// parseCustomClass 解析 [...] 形式的自定义类别，方括号之间的字符按字面码点处理。
// 紧跟开方括号的 ] 视为字面字符，前提是后面还有真正的闭方括号
func (p *ruleParser) parseCustomClass(s, e int) (types.CharacterClass, error) {
	cs := s + 1
	idx := cs
	if idx < e && p.raw[idx] == ']' {
		if strings.IndexByte(p.raw[idx+1:e], ']') < 0 {
			return types.CharacterClass{}, newParseError(cs, "empty custom character class")
		}
		idx++
	}
	for idx < e && p.raw[idx] != ']' {
		idx++
	}
	if idx >= e {
		return types.CharacterClass{}, newParseError(s, "unterminated custom character class")
	}

	if rest := strings.TrimSpace(p.raw[idx+1 : e]); rest != "" {
		return types.CharacterClass{}, newParseError(idx+1, "unexpected characters after custom character class")
	}

	content := p.raw[cs:idx]
	if content == "" {
		return types.CharacterClass{}, newParseError(cs, "empty custom character class")
	}
	return types.CustomClass([]rune(content)), nil
}

func (p *ruleParser) skipSpace(i, end int) int {
	for i < end && isSpace(p.raw[i]) {
		i++
	}
	return i
}

func (p *ruleParser) trimEnd(start, end int) int {
	for end > start && isSpace(p.raw[end-1]) {
		end--
	}
	return end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func containsClass(classes []types.CharacterClass, c types.CharacterClass) bool {
	for _, existing := range classes {
		if existing.Equal(c) {
			return true
		}
	}
	return false
}
