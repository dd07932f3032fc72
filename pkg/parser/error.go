package parser

import (
	"fmt"
	"strings"
)

// ParseError 规则字符串的语法错误，Offset 是原始字符串中的字节偏移
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

// Render 基于原始规则字符串渲染带位置标注的诊断信息，
// 在出错位置下方打印插入符号，便于定位
func (e *ParseError) Render(raw string) string {
	offset := e.Offset
	if offset > len(raw) {
		offset = len(raw)
	}
	var b strings.Builder
	b.WriteString(raw)
	b.WriteByte('\n')
	// 偏移按字节计算，规则字符串在出错前缀部分必然是单行 ASCII
	b.WriteString(strings.Repeat(" ", offset))
	b.WriteString("^ ")
	b.WriteString(e.Message)
	return b.String()
}

func newParseError(offset int, format string, args ...interface{}) *ParseError {
	return &ParseError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}
