package job

import (
	"errors"
	"strings"
	"testing"

	"mqwatch/bot/service"
)

func groupCount(t *testing.T, name string) int {
	t.Helper()
	groupService := service.GroupService{}
	names, err := groupService.ListGroupNames()
	if err != nil {
		t.Fatalf("ListGroupNames() error: %v", err)
	}
	count := 0
	for _, n := range names {
		if n == name {
			count++
		}
	}
	return count
}

func TestProvisionCreatesGroupsAndAnnounces(t *testing.T) {
	bridge := &fakeBridge{topics: []string{"prov/one", "prov/two"}}
	notifier := &fakeNotifier{}
	job := NewProvisionJob(bridge, notifier, []int64{42})

	job.Run()

	if groupCount(t, "prov/one") != 1 || groupCount(t, "prov/two") != 1 {
		t.Error("expected a group per new topic")
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("got %d notifications, expected 2", len(notifier.sent))
	}
	for _, n := range notifier.sent {
		if n.chatId != 42 {
			t.Errorf("notification sent to %d, expected admin 42", n.chatId)
		}
		if !strings.Contains(n.msg, "Password for") {
			t.Errorf("notification %q does not announce a password", n.msg)
		}
	}
}

func TestProvisionIdempotent(t *testing.T) {
	bridge := &fakeBridge{topics: []string{"prov/stable"}}
	notifier := &fakeNotifier{}
	job := NewProvisionJob(bridge, notifier, []int64{42})

	job.Run()
	firstCount := len(notifier.sent)
	job.Run()

	if groupCount(t, "prov/stable") != 1 {
		t.Error("second run created a duplicate group")
	}
	if len(notifier.sent) != firstCount {
		t.Errorf("second run announced %d more passwords, expected none",
			len(notifier.sent)-firstCount)
	}
}

func TestProvisionSkipsExistingGroups(t *testing.T) {
	groupService := service.GroupService{}
	if err := groupService.AddGroup("prov/existing", "already-set"); err != nil {
		t.Fatalf("AddGroup() error: %v", err)
	}

	bridge := &fakeBridge{topics: []string{"prov/existing", "prov/fresh"}}
	notifier := &fakeNotifier{}
	job := NewProvisionJob(bridge, notifier, []int64{42})

	job.Run()

	if len(notifier.sent) != 1 {
		t.Fatalf("got %d notifications, expected 1 for the fresh topic only", len(notifier.sent))
	}
	if !strings.Contains(notifier.sent[0].msg, "prov/fresh") {
		t.Errorf("notification %q does not reference the fresh topic", notifier.sent[0].msg)
	}
}

func TestProvisionToleratesListFailure(t *testing.T) {
	bridge := &fakeBridge{listErr: errors.New("bridge unreachable")}
	notifier := &fakeNotifier{}
	job := NewProvisionJob(bridge, notifier, []int64{42})

	job.Run()

	if len(notifier.sent) != 0 {
		t.Errorf("got %d notifications after a failed fetch, expected none", len(notifier.sent))
	}
}

func TestProvisionIgnoresEmptyTopicNames(t *testing.T) {
	bridge := &fakeBridge{topics: []string{""}}
	notifier := &fakeNotifier{}
	job := NewProvisionJob(bridge, notifier, []int64{42})

	job.Run()

	if len(notifier.sent) != 0 {
		t.Errorf("got %d notifications for an empty topic name, expected none", len(notifier.sent))
	}
}
