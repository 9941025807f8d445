package workers

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// ChallengeExpirer is implemented by services.ChallengeService.
type ChallengeExpirer interface {
	ExpireChallenges(ctx context.Context, now time.Time) (int64, error)
}

// StartChallengeSweep expires lapsed challenge instances every interval.
// The caller owns the returned scheduler and must shut it down.
func StartChallengeSweep(ctx context.Context, expirer ChallengeExpirer, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			SweepChallenges(ctx, expirer, time.Now())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	logrus.Infof("🧹 Challenge sweep scheduled every %s", interval)
	return sched, nil
}

// SweepChallenges runs one expiry pass.
func SweepChallenges(ctx context.Context, expirer ChallengeExpirer, now time.Time) int64 {
	n, err := expirer.ExpireChallenges(ctx, now)
	if err != nil {
		logrus.Warnf("[Scheduler] challenge sweep failed: %v", err)
		return 0
	}
	if n > 0 {
		logrus.Infof("✅ Expired %d challenge(s)", n)
	}
	return n
}
