package service

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"mqwatch/bridge"
	"mqwatch/config"
	"mqwatch/database/model"
	"mqwatch/logger"
	"mqwatch/util/common"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
)

var bot *telego.Bot
var botHandler *th.BotHandler
var adminIds []int64
var isRunning bool

// wizard steps awaiting free-form text input from a chat
const (
	awaitingLimitValue = "limit_value"
	awaitingRenameName = "rename_name"
)

// pendingInput tracks a multi-step command (limit or rename wizard) between
// the inline-keyboard selection and the typed value.
type pendingInput struct {
	kind  string
	topic string
	limit string
}

var pendingMu sync.Mutex
var pending = make(map[int64]*pendingInput)

// Tgbot is the Telegram front end: it dispatches user commands against the
// store and doubles as the notifier for the background jobs.
type Tgbot struct {
	accessService AccessService
	groupService  GroupService
	configService UserConfigService

	bridge *bridge.Client
}

func (t *Tgbot) NewTgbot() *Tgbot {
	return new(Tgbot)
}

func (t *Tgbot) Start() error {
	token := config.GetBotToken()
	if token == "" {
		return common.NewError("BOT_TOKEN is not set")
	}

	adminIds = config.GetAdminIds()
	t.bridge = bridge.NewClient(config.GetBridgeAddress(), config.GetBridgePort())

	var err error
	bot, err = telego.NewBot(token)
	if err != nil {
		logger.Warning("Get tgbot's api error:", err)
		return err
	}

	t.setCommandMenu()

	// listen for TG bot income messages
	if !isRunning {
		logger.Info("Starting Telegram receiver ...")
		go t.OnReceive()
		isRunning = true
	}

	t.SendMsgToTgbotAdmins("Bot is started")

	return nil
}

func (t *Tgbot) IsRunning() bool {
	return isRunning
}

func (t *Tgbot) Stop() {
	if botHandler != nil {
		botHandler.Stop()
	}
	if bot != nil {
		bot.StopLongPolling()
	}
	logger.Info("Stop Telegram receiver ...")
	isRunning = false
	adminIds = nil
}

// setCommandMenu publishes the command list shown in the Telegram client menu.
func (t *Tgbot) setCommandMenu() {
	params := telego.SetMyCommandsParams{
		Commands: []telego.BotCommand{
			{Command: "start", Description: "Start message"},
			{Command: "password", Description: "Enter topic password"},
			{Command: "report", Description: "Show all your topics"},
			{Command: "check", Description: "Check value of the topic"},
			{Command: "limit", Description: "Set limit for the topic"},
			{Command: "list_limits", Description: "Show your limits"},
			{Command: "rename", Description: "Rename the topic"},
			{Command: "list_renames", Description: "Show your renames"},
			{Command: "revoke", Description: "Leave a topic group"},
		},
	}
	if err := bot.SetMyCommands(&params); err != nil {
		logger.Warning("Set bot commands failed:", err)
	}
}

func (t *Tgbot) OnReceive() {
	params := telego.GetUpdatesParams{
		Timeout: 10,
	}

	updates, _ := bot.UpdatesViaLongPolling(&params)

	botHandler, _ = th.NewBotHandler(bot, updates)

	botHandler.HandleMessage(func(_ *telego.Bot, message telego.Message) {
		t.answerCommand(&message, message.Chat.ID)
	}, th.AnyCommand())

	botHandler.HandleCallbackQuery(func(_ *telego.Bot, query telego.CallbackQuery) {
		t.answerCallback(&query)
	}, th.AnyCallbackQueryWithMessage())

	botHandler.HandleMessage(func(_ *telego.Bot, message telego.Message) {
		t.answerText(&message, message.Chat.ID)
	}, th.AnyMessage())

	botHandler.Start()
}

func (t *Tgbot) answerCommand(message *telego.Message, chatId int64) {
	msg := ""
	userId := message.From.ID

	command, _, commandArgs := tu.ParseCommand(message.Text)

	switch command {
	case "start", "help":
		msg = "Hello! Check the commands menu to start using bot."
	case "password":
		if len(commandArgs) == 0 {
			msg = "Usage: /password <password>"
			break
		}
		result, err := t.accessService.SubmitPassword(userId, commandArgs[0])
		if err != nil {
			logger.Warning("submit password failed:", err)
			msg = "Something went wrong, try again later."
			break
		}
		msg = result
	case "report":
		t.sendReport(chatId, userId)
		return
	case "check":
		t.sendTopicKeyboard(chatId, userId, "check-topic")
		return
	case "limit":
		t.sendTopicKeyboard(chatId, userId, "limit-topic")
		return
	case "list_limits":
		msg = t.listLimitsMsg(userId)
	case "rename":
		t.sendTopicKeyboard(chatId, userId, "rename-topic")
		return
	case "list_renames":
		msg = t.listRenamesMsg(userId)
	case "revoke":
		msg = t.revokeMsg(userId, commandArgs)
	default:
		msg = "Unknown command"
	}
	t.SendMsgToTgbot(chatId, msg)
}

// answerText consumes free-form input for an in-progress wizard. Messages
// outside a wizard are ignored.
func (t *Tgbot) answerText(message *telego.Message, chatId int64) {
	pendingMu.Lock()
	input, ok := pending[chatId]
	pendingMu.Unlock()
	if !ok {
		return
	}

	userId := message.From.ID
	text := strings.TrimSpace(message.Text)
	msg := ""

	switch input.kind {
	case awaitingLimitValue:
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			t.SendMsgToTgbot(chatId, "Please enter a numeric value")
			return
		}
		if err := t.configService.SetLimit(userId, input.topic, input.limit, value); err != nil {
			logger.Warning("set limit failed:", err)
			msg = "Something went wrong, try again later."
		} else {
			msg = "Limit set"
		}
	case awaitingRenameName:
		if text == "" {
			t.SendMsgToTgbot(chatId, "Please enter a name")
			return
		}
		if err := t.configService.SetRename(userId, input.topic, text); err != nil {
			logger.Warning("set rename failed:", err)
			msg = "Something went wrong, try again later."
		} else {
			msg = "Rename set"
		}
	}

	pendingMu.Lock()
	delete(pending, chatId)
	pendingMu.Unlock()
	t.SendMsgToTgbot(chatId, msg)
}

func (t *Tgbot) answerCallback(callbackQuery *telego.CallbackQuery) {
	chatId := callbackQuery.Message.GetChat().ID
	userId := callbackQuery.From.ID

	// callback data is "<action>_<payload>"; topics may contain underscores,
	// so only the first one separates action from payload
	parts := strings.SplitN(callbackQuery.Data, "_", 2)
	if len(parts) != 2 {
		t.sendCallbackAnswerTgBot(callbackQuery.ID, "")
		return
	}
	action, payload := parts[0], parts[1]

	switch action {
	case "check-topic":
		value, err := t.bridge.GetValue(payload)
		if err != nil {
			logger.Warningf("get value for topic %s failed: %v", payload, err)
			value = "unavailable"
		}
		text := fmt.Sprintf("Value of %s topic: %s",
			t.configService.TopicName(userId, payload), strings.TrimSpace(value))
		t.editMessageTgBot(chatId, callbackQuery.Message.GetMessageID(), text)
	case "limit-topic":
		pendingMu.Lock()
		pending[chatId] = &pendingInput{topic: payload}
		pendingMu.Unlock()

		rows := make([]telego.InlineKeyboardButton, 0, len(model.LimitNames))
		for _, limitName := range model.LimitNames {
			rows = append(rows, tu.InlineKeyboardButton(common.FormatTitleCase(limitName)).
				WithCallbackData("limit-name_"+limitName))
		}
		keyboard := tu.InlineKeyboard(
			tu.InlineKeyboardRow(rows[0], rows[1]),
			tu.InlineKeyboardRow(rows[2], rows[3]),
		)
		t.editMessageTgBot(chatId, callbackQuery.Message.GetMessageID(), "Select a limit:", keyboard)
	case "limit-name":
		pendingMu.Lock()
		input, ok := pending[chatId]
		if ok {
			input.kind = awaitingLimitValue
			input.limit = payload
		}
		pendingMu.Unlock()
		if !ok {
			t.sendCallbackAnswerTgBot(callbackQuery.ID, "Start over with /limit")
			return
		}
		text := fmt.Sprintf("Set a value of %s for the %s topic:",
			common.FormatTitleCase(payload), t.configService.TopicName(userId, input.topic))
		t.editMessageTgBot(chatId, callbackQuery.Message.GetMessageID(), text)
	case "rename-topic":
		pendingMu.Lock()
		pending[chatId] = &pendingInput{kind: awaitingRenameName, topic: payload}
		pendingMu.Unlock()
		text := fmt.Sprintf("Set a name of the %s topic:",
			t.configService.TopicName(userId, payload))
		t.editMessageTgBot(chatId, callbackQuery.Message.GetMessageID(), text)
	}

	t.sendCallbackAnswerTgBot(callbackQuery.ID, "")
}

// sendReport sends the user's topics with their current values.
func (t *Tgbot) sendReport(chatId int64, userId int64) {
	topics, err := t.groupService.GetUserGroups(userId)
	if err != nil {
		logger.Warning("get user groups failed:", err)
		t.SendMsgToTgbot(chatId, "Something went wrong, try again later.")
		return
	}
	if len(topics) == 0 {
		t.SendMsgToTgbot(chatId, "You don't have topics")
		return
	}

	output := ""
	for _, topic := range topics {
		value, err := t.bridge.GetValue(topic)
		if err != nil {
			logger.Warningf("get value for topic %s failed: %v", topic, err)
			value = "unavailable"
		}
		output += fmt.Sprintf("%s: %s\n", t.configService.TopicName(userId, topic), strings.TrimSpace(value))
	}
	t.SendMsgToTgbot(chatId, output)
}

// sendTopicKeyboard sends an inline keyboard of the user's topics, one row
// per topic, with prefix-tagged callback data.
func (t *Tgbot) sendTopicKeyboard(chatId int64, userId int64, prefix string) {
	topics, err := t.groupService.GetUserGroups(userId)
	if err != nil {
		logger.Warning("get user groups failed:", err)
		t.SendMsgToTgbot(chatId, "Something went wrong, try again later.")
		return
	}
	if len(topics) == 0 {
		t.SendMsgToTgbot(chatId, "You don't have topics")
		return
	}

	rows := make([][]telego.InlineKeyboardButton, 0, len(topics))
	for _, topic := range topics {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(t.configService.TopicName(userId, topic)).
				WithCallbackData(prefix+"_"+topic),
		))
	}
	t.SendMsgToTgbot(chatId, "Select a topic", tu.InlineKeyboard(rows...))
}

func (t *Tgbot) listLimitsMsg(userId int64) string {
	limits, err := t.configService.ListLimits(userId)
	if err != nil {
		logger.Warning("list limits failed:", err)
		return "Something went wrong, try again later."
	}
	if len(limits) == 0 {
		return "You don't have limits"
	}

	output := ""
	for topic, topicLimits := range limits {
		output += t.configService.TopicName(userId, topic) + "\n"
		for _, limitName := range model.LimitNames {
			if value, ok := topicLimits[limitName]; ok {
				output += fmt.Sprintf("    %s: %v\n", common.FormatTitleCase(limitName), value)
			}
		}
	}
	return output
}

func (t *Tgbot) listRenamesMsg(userId int64) string {
	renames, err := t.configService.ListRenames(userId)
	if err != nil {
		logger.Warning("list renames failed:", err)
		return "Something went wrong, try again later."
	}
	if len(renames) == 0 {
		return "You don't have renames"
	}

	output := ""
	for topic, name := range renames {
		output += fmt.Sprintf("%s -> %s\n", topic, name)
	}
	return output
}

// revokeMsg removes the caller from a group. Admins may pass a second
// argument to remove another user.
func (t *Tgbot) revokeMsg(userId int64, args []string) string {
	if len(args) == 0 {
		return "Usage: /revoke <group>"
	}
	groupName := args[0]
	targetId := userId
	if len(args) > 1 {
		if !isAdmin(userId) {
			return "Only admins can revoke other users"
		}
		parsed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return "Usage: /revoke <group> <user_id>"
		}
		targetId = parsed
	}

	groups, err := t.groupService.GetUserGroups(targetId)
	if err != nil {
		logger.Warning("get user groups failed:", err)
		return "Something went wrong, try again later."
	}
	member := false
	for _, name := range groups {
		if name == groupName {
			member = true
			break
		}
	}
	if !member {
		return fmt.Sprintf("Not a member of group '%s'", groupName)
	}

	if err := t.accessService.RemoveUser(targetId, groupName); err != nil {
		logger.Warning("remove user failed:", err)
		return "Something went wrong, try again later."
	}
	return fmt.Sprintf("Removed from group '%s'", groupName)
}

func isAdmin(userId int64) bool {
	for _, adminId := range adminIds {
		if adminId == userId {
			return true
		}
	}
	return false
}

// Notify implements the notifier boundary used by the background jobs.
func (t *Tgbot) Notify(chatId int64, msg string) {
	t.SendMsgToTgbot(chatId, msg)
}

func (t *Tgbot) SendMsgToTgbot(chatId int64, msg string, replyMarkup ...telego.ReplyMarkup) {
	if !isRunning {
		return
	}
	if msg == "" {
		logger.Info("[tgbot] message is empty!")
		return
	}

	var allMessages []string
	limit := 2000

	// paging message if it is big
	if len(msg) > limit {
		messages := strings.Split(msg, "\n")
		lastIndex := -1

		for _, message := range messages {
			if (len(allMessages) == 0) || (len(allMessages[lastIndex])+len(message) > limit) {
				allMessages = append(allMessages, message)
				lastIndex++
			} else {
				allMessages[lastIndex] += "\n" + message
			}
		}
	} else {
		allMessages = append(allMessages, msg)
	}
	for _, message := range allMessages {
		params := telego.SendMessageParams{
			ChatID: tu.ID(chatId),
			Text:   message,
		}
		if len(replyMarkup) > 0 {
			params.ReplyMarkup = replyMarkup[0]
		}
		_, err := bot.SendMessage(&params)
		if err != nil {
			logger.Warning("Error sending telegram message :", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func (t *Tgbot) SendMsgToTgbotAdmins(msg string) {
	for _, adminId := range adminIds {
		t.SendMsgToTgbot(adminId, msg)
	}
}

func (t *Tgbot) sendCallbackAnswerTgBot(id string, message string) {
	params := telego.AnswerCallbackQueryParams{
		CallbackQueryID: id,
		Text:            message,
	}
	if err := bot.AnswerCallbackQuery(&params); err != nil {
		logger.Warning(err)
	}
}

func (t *Tgbot) editMessageTgBot(chatId int64, messageID int, text string, inlineKeyboard ...*telego.InlineKeyboardMarkup) {
	params := telego.EditMessageTextParams{
		ChatID:    tu.ID(chatId),
		MessageID: messageID,
		Text:      text,
	}
	if len(inlineKeyboard) > 0 {
		params.ReplyMarkup = inlineKeyboard[0]
	}
	if _, err := bot.EditMessageText(&params); err != nil {
		logger.Warning(err)
	}
}
