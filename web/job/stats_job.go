package job

import (
	"context"
	"time"

	"github.com/secretsweb/secrets/logger"
	"github.com/secretsweb/secrets/util/common"
	"github.com/secretsweb/secrets/web/service"
)

const statsTimeout = 30 * time.Second

// StatsJob logs how many users exist and how many of them shared a secret.
type StatsJob struct {
	secretService service.SecretService
}

func NewStatsJob() *StatsJob {
	return new(StatsJob)
}

func (j *StatsJob) Run() {
	defer common.Recover("stats job")

	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	stats, err := j.secretService.GetStats(ctx)
	if err != nil {
		logger.Warning("stats job err:", err)
		return
	}
	logger.Infof("%d users, %d secrets", stats.Users, stats.Secrets)
}
