package observability

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoverPanic recovers a panic in a background task and logs it with the
// stack. Call it in a defer at the top of the task:
//
//	defer observability.RecoverPanic(logger, "session report")
//
// The panic is not re-raised.
func RecoverPanic(logger logrus.FieldLogger, task string) {
	if r := recover(); r != nil {
		logger.WithFields(logrus.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
			"task":  task,
		}).Error("panic recovered")
	}
}
