package types

import "fmt"

// Stage 标识错误发生在哪个处理阶段
type Stage string

const (
	StageLoad  Stage = "load"
	StageParse Stage = "parse"
	StageDiff  Stage = "diff"
	StageAudit Stage = "audit"
)

type CheckError struct {
	Stage Stage
	Err   error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check error at stage %s: %v", e.Stage, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

func NewCheckError(stage Stage, err error) error {
	return &CheckError{Stage: stage, Err: err}
}
