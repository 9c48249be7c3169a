// Package job contains the background jobs driven by the polling scheduler.
package job

import (
	"fmt"

	"mqwatch/bot/service"
	"mqwatch/logger"
	"mqwatch/util/random"
)

const passwordLength = 8

// TopicLister enumerates the topic names the value bridge currently knows.
type TopicLister interface {
	ListTopics() ([]string, error)
}

// Notifier delivers a message to a chat. Delivery failure is handled by the
// implementation and never propagates.
type Notifier interface {
	Notify(chatId int64, msg string)
}

// ProvisionJob creates an access group for every topic the bridge knows that
// has no group yet, and announces the generated password to the admin chats.
// The plaintext password is never persisted, so the announcement is the only
// chance for operators to learn it.
type ProvisionJob struct {
	groupService service.GroupService

	bridge   TopicLister
	notifier Notifier
	adminIds []int64
}

func NewProvisionJob(bridge TopicLister, notifier Notifier, adminIds []int64) *ProvisionJob {
	return &ProvisionJob{
		bridge:   bridge,
		notifier: notifier,
		adminIds: adminIds,
	}
}

// Run performs one reconciliation pass. A failed or empty topic fetch means
// no topics this tick; one topic's failure does not stop the others.
func (j *ProvisionJob) Run() {
	topics, err := j.bridge.ListTopics()
	if err != nil {
		logger.Warning("provision: list topics failed:", err)
		return
	}
	if len(topics) == 0 {
		return
	}

	existing, err := j.groupService.ListGroupNames()
	if err != nil {
		logger.Warning("provision: list groups failed:", err)
		return
	}
	existingSet := make(map[string]bool, len(existing))
	for _, name := range existing {
		existingSet[name] = true
	}

	for _, topic := range topics {
		if topic == "" || existingSet[topic] {
			continue
		}

		password := random.Seq(passwordLength)
		if err := j.groupService.AddGroup(topic, password); err != nil {
			logger.Warningf("provision: add group for topic %s failed: %v", topic, err)
			continue
		}

		info := fmt.Sprintf("Password for %s group is: %s", topic, password)
		logger.Infof("provision: new group for topic %s", topic)
		for _, adminId := range j.adminIds {
			j.notifier.Notify(adminId, info)
		}
	}
}
