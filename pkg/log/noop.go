package log

import (
	saltLog "github.com/goto/salt/log"
)

func NewNoop() *CtxLogger {
	return NewCtxLoggerWithSaltLogger(saltLog.NewNoop(), nil)
}
