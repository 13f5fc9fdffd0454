package job

import (
	"github.com/secretsweb/secrets/database"
	"github.com/secretsweb/secrets/logger"
	"github.com/secretsweb/secrets/util/common"
)

// CheckpointJob flushes the SQLite write-ahead log. Stores without a WAL are
// left alone.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")

	checkpointer, ok := database.GetStore().(database.Checkpointer)
	if !ok {
		return
	}
	if err := checkpointer.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
		return
	}
	logger.Debug("database checkpoint done")
}
