package main

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/jessevdk/go-flags"
	rotates "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/passwordtools/password_rules_checker/pkg/audit"
	"github.com/passwordtools/password_rules_checker/pkg/config"
	"github.com/passwordtools/password_rules_checker/pkg/loader"
	"github.com/passwordtools/password_rules_checker/pkg/report"
	"github.com/passwordtools/password_rules_checker/pkg/runner"
)

type Options struct {
	Config      string `long:"config" description:"path to an optional YAML config file"`
	DiffAgainst string `long:"diff-against" description:"path to a password rules JSON file to diff against"`
	Output      string `long:"output" description:"write a JSON validation report to this file"`

	Args struct {
		File string `positional-arg-name:"FILE" description:"the path to the password rules JSON file"`
	} `positional-args:"yes" required:"yes"`
}

func InitLogger(cfg *config.Config) error {
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
	logrus.SetFormatter(formatter)

	var level logrus.Level
	switch cfg.Log.Level {
	case "DEBUG":
		level = logrus.DebugLevel
	case "WARN":
		level = logrus.WarnLevel
	case "INFO":
		level = logrus.InfoLevel
	case "ERROR":
		level = logrus.ErrorLevel
	case "FATAL":
		level = logrus.FatalLevel
	case "PANIC":
		level = logrus.PanicLevel
	default:
		level = logrus.WarnLevel //默认
	}
	logrus.SetLevel(level)

	// 未配置日志目录时只输出到控制台，一次性命令行工具的默认形态
	if cfg.Log.Dir == "" {
		return nil
	}

	//1、判断文件路径和文件是否存在，不存在则创建
	if _, err := os.Stat(cfg.Log.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(cfg.Log.Dir, 0755); err != nil {
			return err
		}
	}
	logFileName := path.Join(cfg.Log.Dir, cfg.Log.Filename)

	//2、日志切割功能，按时间来切割
	var logWriter *rotates.RotateLogs
	var err error
	if runtime.GOOS == "windows" {
		logWriter, err = rotates.New(
			logFileName+".%Y%m%d%H%M",
			rotates.WithMaxAge(24*time.Hour),    //文件最大保存时间
			rotates.WithRotationTime(time.Hour), //文件切割间隔
		)
	} else {
		logWriter, err = rotates.New(
			logFileName+".%Y%m%d%H%M",
			rotates.WithLinkName(logFileName),   //文件软链接
			rotates.WithMaxAge(24*time.Hour),    //文件最大保存时间
			rotates.WithRotationTime(time.Hour), //文件切割间隔
		)
	}
	if err != nil {
		return err
	}

	//创建 local file system hook，所有级别写入同一个日志文件
	lfHook := lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: logWriter,
		logrus.InfoLevel:  logWriter,
		logrus.WarnLevel:  logWriter,
		logrus.ErrorLevel: logWriter,
		logrus.FatalLevel: logWriter,
		logrus.PanicLevel: logWriter,
	}, &logrus.TextFormatter{})

	logrus.AddHook(lfHook)
	return nil
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.LoadConfig(opts.Config)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// 初始化日志
	if err := InitLogger(cfg); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logrus.Debug("Starting password rules checker...")

	var auditor *audit.Auditor
	if len(cfg.Audit.Checks) > 0 {
		checks := make([]audit.Check, 0, len(cfg.Audit.Checks))
		for _, c := range cfg.Audit.Checks {
			checks = append(checks, audit.Check{
				Name:        c.Name,
				Expression:  c.Expression,
				Description: c.Description,
			})
		}
		a, err := audit.NewAuditor(checks)
		if err != nil {
			logrus.Fatalf("Failed to set up audit checks: %v", err)
		}
		auditor = a
	}

	primary, err := loader.Load(opts.Args.File)
	if err != nil {
		logrus.Fatalf("Failed to load rules: %v", err)
	}

	result, err := runner.ValidateAll(os.Stdout, primary, cfg.Strict(), auditor)
	if err != nil {
		logrus.Fatalf("Bulk validation aborted: %v", err)
	}

	if opts.Output != "" {
		if err := report.WriteFile(opts.Output, report.Build(result)); err != nil {
			logrus.Fatalf("Failed to write report: %v", err)
		}
	}

	if result.ParseFailures != 0 {
		// 存在解析失败时不进入 diff，按原有行为以成功状态退出
		return
	}
	fmt.Println("All password rules parsed successfully!")

	if opts.DiffAgainst == "" {
		return
	}

	fmt.Printf("Diffing against the rules loaded from %s\n", opts.DiffAgainst)

	secondary, err := loader.Load(opts.DiffAgainst)
	if err != nil {
		logrus.Fatalf("Failed to load rules to diff against: %v", err)
	}

	if err := runner.Diff(os.Stdout, primary, secondary); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
