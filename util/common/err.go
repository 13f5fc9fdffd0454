// Package common contains small helpers shared by the scheduled jobs.
package common

import (
	"github.com/secretsweb/secrets/logger"
)

// Recover stops a panic in the calling goroutine and logs it. It has to be
// deferred directly: defer common.Recover("stats job").
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		logger.Error(msg, "panic:", panicErr)
	}
	return panicErr
}
