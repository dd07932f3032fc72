package runner

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/passwordtools/password_rules_checker/pkg/checker"
	"github.com/passwordtools/password_rules_checker/pkg/loader"
	"github.com/passwordtools/password_rules_checker/pkg/parser"
	"github.com/passwordtools/password_rules_checker/pkg/types"
)

// Diff 断言两个规则集逐站点语义等价。
// 前置条件：primary 已通过批量校验（全部解析成功）。
// 站点数不一致或 secondary 缺少站点时立即失败，不做部分比较；
// 遇到第一处不等价即中止，残缺的 diff 结果没有参考价值
func Diff(w io.Writer, primary, secondary *loader.RuleSet) error {
	if primary.Len() != secondary.Len() {
		return types.NewCheckError(types.StageDiff, errors.Errorf(
			"the number of rules is different between the two files being compared (%d vs %d); they must have the same number of rules",
			primary.Len(), secondary.Len()))
	}

	for _, entry := range primary.Entries() {
		other, ok := secondary.Get(entry.Site)
		if !ok {
			return types.NewCheckError(types.StageDiff, errors.Errorf(
				"the rules being diffed against didn't contain an entry for %s", entry.Site))
		}

		// primary 的规则在批量校验阶段已经全部解析成功过
		rule, err := parser.Parse(entry.RawRule, true)
		if err != nil {
			return types.NewCheckError(types.StageParse, errors.Wrapf(err,
				"rule for %s failed to re-parse", entry.Site))
		}

		otherRule, err := parser.Parse(other.RawRule, true)
		if err != nil {
			if perr, isParseErr := err.(*parser.ParseError); isParseErr {
				fmt.Fprintf(w, "%s:\n\n%s\n\n", entry.Site, perr.Render(other.RawRule))
			}
			return types.NewCheckError(types.StageParse, errors.New(
				"one of the password rules in the file being diffed against failed to parse"))
		}

		// 两侧各自按自己的 required 归一化之后再比较
		rule.Allowed = checker.NormalizeAllowed(rule)
		otherRule.Allowed = checker.NormalizeAllowed(otherRule)

		fmt.Fprintf(w, "Checking %s\n", entry.Site)

		if mismatch := checker.Compare(rule, otherRule); mismatch != nil {
			logrus.Warnf("Rules for %s are not equivalent: %s", entry.Site, mismatch)
			return types.NewCheckError(types.StageDiff, errors.Errorf(
				"rules for %s are not semantically equivalent: %s", entry.Site, mismatch))
		}
	}

	fmt.Fprintln(w, "All rules were semantically equivalent!")
	return nil
}
