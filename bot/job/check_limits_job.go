package job

import (
	"fmt"
	"strconv"
	"strings"

	"mqwatch/bot/service"
	"mqwatch/logger"
	"mqwatch/util/common"
)

// ValueGetter fetches the latest value of a topic from the value bridge.
type ValueGetter interface {
	GetValue(topic string) (string, error)
}

// CheckLimitsJob re-evaluates every user's configured limits against freshly
// fetched topic values and notifies the user on each crossing. Evaluation is
// stateless: a value that stays past a threshold re-fires the notification on
// every tick.
type CheckLimitsJob struct {
	groupService  service.GroupService
	configService service.UserConfigService

	bridge   ValueGetter
	notifier Notifier
}

func NewCheckLimitsJob(bridge ValueGetter, notifier Notifier) *CheckLimitsJob {
	return &CheckLimitsJob{
		bridge:   bridge,
		notifier: notifier,
	}
}

// Run performs one evaluation pass over all known users. Failures are
// isolated per user, per topic and per limit.
func (j *CheckLimitsJob) Run() {
	userIds, err := j.groupService.ListUserIds()
	if err != nil {
		logger.Warning("check limits: list users failed:", err)
		return
	}

	for _, userId := range userIds {
		config, err := j.configService.GetConfig(userId)
		if err != nil {
			logger.Warningf("check limits: load config for user %d failed: %v", userId, err)
			continue
		}
		if config == nil || config.Limits == nil {
			continue
		}

		for topic, limits := range config.Limits {
			raw, err := j.bridge.GetValue(topic)
			if err != nil {
				logger.Warningf("check limits: get value for topic %s failed: %v", topic, err)
				continue
			}
			value := strings.TrimSpace(raw)
			current, err := strconv.ParseFloat(value, 64)
			if err != nil {
				logger.Errorf("check limits: value %q for topic %s is not numeric", value, topic)
				continue
			}

			for limitName, limitValue := range limits {
				if !crossed(limitName, limitValue, current) {
					continue
				}
				topicName := j.configService.TopicName(userId, topic)
				msg := fmt.Sprintf("The %s topic has exceeded its %s limit of %v with a current value of %s.",
					topicName, common.FormatTitleCase(limitName), limitValue, value)
				j.notifier.Notify(userId, msg)
				logger.Infof("check limits: topic %s exceeded %s of %v for user %d, current %s",
					topic, limitName, limitValue, userId, value)
			}
		}
	}
}

// crossed reports whether the current value violates the limit: a lower_*
// limit when the value fell below the floor, an upper_* limit when it rose
// above the ceiling.
func crossed(limitName string, limitValue float64, current float64) bool {
	switch {
	case strings.HasPrefix(limitName, "lower"):
		return limitValue > current
	case strings.HasPrefix(limitName, "upper"):
		return limitValue < current
	}
	return false
}
