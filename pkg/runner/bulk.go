package runner

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/passwordtools/password_rules_checker/pkg/audit"
	"github.com/passwordtools/password_rules_checker/pkg/checker"
	"github.com/passwordtools/password_rules_checker/pkg/loader"
	"github.com/passwordtools/password_rules_checker/pkg/parser"
	"github.com/passwordtools/password_rules_checker/pkg/types"
)

// SiteResult 批量校验中单个站点的结果
type SiteResult struct {
	Entry      types.RuleEntry
	Rule       *types.ParsedRule // 解析失败时为 nil
	ParseErr   *parser.ParseError
	Shortened  []types.CharacterClass // allowed 可缩短时为缩短后的序列，否则为 nil
	Violations []audit.Violation
}

// BulkResult 一次批量校验的累积结果，失败计数随结果返回而非全局状态
type BulkResult struct {
	Results         []SiteResult
	ParseFailures   int
	AuditViolations int
}

// ValidateAll 对规则集中的每个站点执行：解析 → 归一化 → 可缩短提示。
// 解析失败打印诊断并计数后继续处理后续站点，尽量一次暴露所有问题。
// auditor 非空时对解析成功的规则执行审计检查
func ValidateAll(w io.Writer, set *loader.RuleSet, strict bool, auditor *audit.Auditor) (*BulkResult, error) {
	result := &BulkResult{}

	for _, entry := range set.Entries() {
		site := SiteResult{Entry: entry}

		rule, err := parser.Parse(entry.RawRule, strict)
		if err != nil {
			perr, ok := err.(*parser.ParseError)
			if !ok {
				return nil, types.NewCheckError(types.StageParse, err)
			}
			fmt.Fprintf(w, "%s:\n\n%s\n\n", entry.Site, perr.Render(entry.RawRule))
			site.ParseErr = perr
			result.ParseFailures++
			result.Results = append(result.Results, site)
			continue
		}
		site.Rule = rule

		shortened := checker.NormalizeAllowed(rule)
		if !types.ClassesEqual(rule.Allowed, shortened) {
			fmt.Fprintf(w, "%s: the `allowed` property for this rule can be shortened to: %s\n",
				entry.Site, types.FormatClasses(shortened))
			site.Shortened = shortened
		}

		if auditor != nil {
			violations, err := auditor.Evaluate(entry.Site, rule)
			if err != nil {
				return nil, types.NewCheckError(types.StageAudit, err)
			}
			for _, v := range violations {
				fmt.Fprintf(w, "%s: audit check %q failed: %s\n", v.Site, v.Check, describeViolation(v))
			}
			site.Violations = violations
			result.AuditViolations += len(violations)
		}

		result.Results = append(result.Results, site)
	}

	logrus.Debugf("Bulk validation finished: %d sites, %d parse failures, %d audit violations",
		set.Len(), result.ParseFailures, result.AuditViolations)
	return result, nil
}

func describeViolation(v audit.Violation) string {
	if v.Description != "" {
		return v.Description
	}
	return v.Expression
}
