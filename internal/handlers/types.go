package handlers

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	"github.com/rs/zerolog"

	"ruble-bot/internal/auth"
	"ruble-bot/internal/database"
	telegoapi "ruble-bot/pkg/telegoapi"
)

// Action types for logging and user updates
const (
	ActionCommandStart      = "command_start"
	ActionFeedbackRequested = "feedback_requested"
	ActionFeedbackCancelled = "feedback_cancelled"
	ActionFeedbackSubmitted = "feedback_submitted"
	ActionAdminReply        = "admin_reply"
)

// Callback data of the menu buttons.
const (
	CallbackLeaveFeedback  = "leave_feedback"
	CallbackCancelFeedback = "cancel_feedback"
)

// CommandFunc handles one bot command.
type CommandFunc func(context.Context, telegoapi.BotAPI, telego.Message) error

// Command represents a bot command, mapping the command string to its description and handler function.
type Command struct {
	Command     string // The command string (e.g., "start").
	Description string // Localization key of the description.
	Handler     CommandFunc
}

// MenuLinks are the destinations of the main menu buttons. Empty links are
// left out of the keyboard.
type MenuLinks struct {
	WebApp   string
	Trade    string
	Website  string
	X        string
	Buy      string
	Contract string
}

// Deps holds the dependencies of MessageHandler.
type Deps struct {
	Feedback       FeedbackService
	AdminChecker   auth.AdminCheckerInterface
	ActionLogger   database.UserActionLogger
	UserRepo       database.UserRepository
	Menu           MenuLinks
	FeedbackMarker string
	WelcomePhoto   string
	Log            zerolog.Logger
}

// MessageHandler turns Telegram messages and callbacks into feedback protocol
// transitions and renders their outcome.
type MessageHandler struct {
	feedback     FeedbackService
	adminChecker auth.AdminCheckerInterface
	actionLogger database.UserActionLogger
	userRepo     database.UserRepository

	menu         MenuLinks
	marker       string
	welcomePhoto string

	commands []Command
	log      zerolog.Logger
}

// NewMessageHandler creates and initializes a new MessageHandler instance.
func NewMessageHandler(deps Deps) (*MessageHandler, error) {
	if deps.Feedback == nil {
		return nil, fmt.Errorf("feedback service is required")
	}
	if deps.AdminChecker == nil {
		return nil, fmt.Errorf("admin checker is required")
	}
	if deps.ActionLogger == nil || deps.UserRepo == nil {
		return nil, fmt.Errorf("action logger and user repository are required")
	}
	if deps.FeedbackMarker == "" {
		return nil, fmt.Errorf("feedback marker cannot be empty")
	}

	h := &MessageHandler{
		feedback:     deps.Feedback,
		adminChecker: deps.AdminChecker,
		actionLogger: deps.ActionLogger,
		userRepo:     deps.UserRepo,
		menu:         deps.Menu,
		marker:       deps.FeedbackMarker,
		welcomePhoto: deps.WelcomePhoto,
		log:          deps.Log.With().Str("component", "handlers").Logger(),
	}
	h.commands = []Command{
		{Command: "start", Description: "CmdStartDesc", Handler: h.HandleStart},
		{Command: "feedback", Description: "CmdFeedbackDesc", Handler: h.HandleFeedback},
		{Command: "cancel", Description: "CmdCancelDesc", Handler: h.HandleCancel},
	}
	return h, nil
}

// GetCommandHandler returns the handler of command, or nil if there is none.
func (h *MessageHandler) GetCommandHandler(command string) CommandFunc {
	for _, cmd := range h.commands {
		if cmd.Command == command {
			return cmd.Handler
		}
	}
	return nil
}
