// internal/domain/masteredition/errors.go
package masteredition

import "errors"

// Errors
//
// 1 回の実行で発生しうるエラーはすべてここに集約し、呼び出し側は errors.Is で判定する。
// いずれも終端エラーで、内部リトライは行わない。
var (
	ErrConfigNotFound       = errors.New("masteredition: config not found")
	ErrConfigMalformed      = errors.New("masteredition: config malformed")
	ErrProgramNotDeployed   = errors.New("masteredition: program needs to be deployed")
	ErrProgramNotBuilt      = errors.New("masteredition: program needs to be built and deployed")
	ErrProgramNotExecutable = errors.New("masteredition: program is not executable")
	ErrSubmissionRejected   = errors.New("masteredition: submission rejected")
	ErrNetworkUnavailable   = errors.New("masteredition: network unavailable")
	ErrTimeout              = errors.New("masteredition: confirmation timeout")
)
