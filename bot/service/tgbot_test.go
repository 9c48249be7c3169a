package service

import (
	"testing"

	"github.com/mymmrac/telego"
)

func commandMessage(userId int64, text string) *telego.Message {
	return &telego.Message{
		Text: text,
		From: &telego.User{ID: userId},
		Chat: telego.Chat{ID: userId},
	}
}

func TestAnswerCommandPasswordEnrolls(t *testing.T) {
	groupService := GroupService{}
	if err := groupService.AddGroup("cmd/enroll", "cmd-enroll-pw"); err != nil {
		t.Fatalf("AddGroup() error: %v", err)
	}

	tgbot := Tgbot{}
	message := commandMessage(1101, "/password cmd-enroll-pw")
	tgbot.answerCommand(message, message.Chat.ID)

	groups, err := groupService.GetUserGroups(1101)
	if err != nil {
		t.Fatalf("GetUserGroups() error: %v", err)
	}
	if len(groups) != 1 || groups[0] != "cmd/enroll" {
		t.Errorf("user groups = %v, expected exactly [cmd/enroll]", groups)
	}
}

func TestAnswerCommandPasswordMissingArg(t *testing.T) {
	tgbot := Tgbot{}
	message := commandMessage(1102, "/password")
	tgbot.answerCommand(message, message.Chat.ID)

	userIds, err := (&GroupService{}).ListUserIds()
	if err != nil {
		t.Fatalf("ListUserIds() error: %v", err)
	}
	if containsId(userIds, 1102) {
		t.Error("user row created by a /password call with no argument")
	}
}

func TestAnswerCommandPasswordWrong(t *testing.T) {
	groupService := GroupService{}
	if err := groupService.AddGroup("cmd/wrong", "cmd-wrong-pw"); err != nil {
		t.Fatalf("AddGroup() error: %v", err)
	}

	tgbot := Tgbot{}
	message := commandMessage(1103, "/password not-the-password")
	tgbot.answerCommand(message, message.Chat.ID)

	groups, err := groupService.GetUserGroups(1103)
	if err != nil {
		t.Fatalf("GetUserGroups() error: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("user groups = %v, expected none for a wrong password", groups)
	}
}
