package audit

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
	"github.com/sirupsen/logrus"

	"github.com/passwordtools/password_rules_checker/pkg/types"
)

// Check 一条审计检查。Expression 是对单条解析后规则求值的 CEL 布尔表达式，
// 可用变量：site、min_length/max_length/max_consecutive（缺省时为 0）、
// has_min_length/has_max_length/has_max_consecutive、allowed、required
type Check struct {
	Name        string
	Expression  string
	Description string
}

// Violation 某站点的规则未通过某条审计检查
type Violation struct {
	Site        string
	Check       string
	Expression  string
	Description string
}

type compiledCheck struct {
	check   Check
	program cel.Program
}

// Auditor 持有预编译的审计检查，表达式只编译一次，逐站点求值
type Auditor struct {
	env    *cel.Env
	checks []compiledCheck
}

// NewAuditor 创建 CEL 环境并预编译所有检查表达式，编译失败视为配置错误
func NewAuditor(checks []Check) (*Auditor, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("site", decls.String),
			decls.NewVar("min_length", decls.Int),
			decls.NewVar("max_length", decls.Int),
			decls.NewVar("max_consecutive", decls.Int),
			decls.NewVar("has_min_length", decls.Bool),
			decls.NewVar("has_max_length", decls.Bool),
			decls.NewVar("has_max_consecutive", decls.Bool),
			decls.NewVar("allowed", decls.NewListType(decls.String)),
			decls.NewVar("required", decls.NewListType(decls.String)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env failed: %v", err)
	}

	auditor := &Auditor{env: env}
	for _, check := range checks {
		ast, issues := env.Compile(check.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("compile audit check %q failed: %v", check.Name, issues.Err())
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("build program for audit check %q failed: %v", check.Name, err)
		}
		auditor.checks = append(auditor.checks, compiledCheck{check: check, program: program})
		logrus.Debugf("Compiled audit check %s: %s", check.Name, check.Expression)
	}
	return auditor, nil
}

// Evaluate 对一条解析成功的规则执行全部审计检查，返回未通过的检查列表。
// 审计是建议性的，违规不是错误；只有表达式求值本身失败才返回 error
func (a *Auditor) Evaluate(site string, rule *types.ParsedRule) ([]Violation, error) {
	activation := buildActivation(site, rule)

	var violations []Violation
	for _, cc := range a.checks {
		out, _, err := cc.program.Eval(activation)
		if err != nil {
			return nil, fmt.Errorf("evaluate audit check %q for site %s failed: %v", cc.check.Name, site, err)
		}
		passed, ok := out.Value().(bool)
		if !ok {
			return nil, fmt.Errorf("audit check %q did not evaluate to a boolean", cc.check.Name)
		}
		if !passed {
			violations = append(violations, Violation{
				Site:        site,
				Check:       cc.check.Name,
				Expression:  cc.check.Expression,
				Description: cc.check.Description,
			})
		}
	}
	return violations, nil
}

func buildActivation(site string, rule *types.ParsedRule) map[string]interface{} {
	allowed := make([]string, 0, len(rule.Allowed))
	for _, c := range rule.Allowed {
		allowed = append(allowed, c.Key())
	}

	// required 展平成类别键列表，分组结构对审计表达式意义不大
	var required []string
	for _, group := range rule.Required {
		for _, c := range group {
			required = append(required, c.Key())
		}
	}

	return map[string]interface{}{
		"site":                site,
		"min_length":          optInt(rule.MinLength),
		"max_length":          optInt(rule.MaxLength),
		"max_consecutive":     optInt(rule.MaxConsecutive),
		"has_min_length":      rule.MinLength != nil,
		"has_max_length":      rule.MaxLength != nil,
		"has_max_consecutive": rule.MaxConsecutive != nil,
		"allowed":             allowed,
		"required":            required,
	}
}

func optInt(v *int) int64 {
	if v == nil {
		return 0
	}
	return int64(*v)
}
