package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/passwordtools/password_rules_checker/pkg/runner"
)

type SiteStatus string

const (
	StatusOK          SiteStatus = "ok"
	StatusShortenable SiteStatus = "shortenable"
	StatusParseError  SiteStatus = "parse-error"
)

type SiteReport struct {
	Site            string     `json:"site"`
	Status          SiteStatus `json:"status"`
	Shortened       []string   `json:"shortened,omitempty"`
	Error           string     `json:"error,omitempty"`
	AuditViolations []string   `json:"audit_violations,omitempty"`
}

type Summary struct {
	GeneratedAt     time.Time    `json:"generated_at"`
	Total           int          `json:"total"`
	ParseFailures   int          `json:"parse_failures"`
	AuditViolations int          `json:"audit_violations"`
	Sites           []SiteReport `json:"sites"`
}

// Build 把批量校验结果转换为可序列化的报告
func Build(result *runner.BulkResult) *Summary {
	summary := &Summary{
		GeneratedAt:     time.Now(),
		Total:           len(result.Results),
		ParseFailures:   result.ParseFailures,
		AuditViolations: result.AuditViolations,
	}

	for _, site := range result.Results {
		sr := SiteReport{Site: site.Entry.Site, Status: StatusOK}
		switch {
		case site.ParseErr != nil:
			sr.Status = StatusParseError
			sr.Error = site.ParseErr.Error()
		case site.Shortened != nil:
			sr.Status = StatusShortenable
			for _, c := range site.Shortened {
				sr.Shortened = append(sr.Shortened, c.String())
			}
		}
		for _, v := range site.Violations {
			sr.AuditViolations = append(sr.AuditViolations, v.Check)
		}
		summary.Sites = append(summary.Sites, sr)
	}
	return summary
}

// WriteFile 将报告以缩进 JSON 写入文件
func WriteFile(filename string, summary *Summary) error {
	f, err := os.Create(filename)
	if err != nil {
		logrus.Errorf("Failed to create report file: %v", err)
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		logrus.Errorf("Failed to write report: %v", err)
		return err
	}

	logrus.Infof("Wrote validation report to %s", filename)
	return nil
}
