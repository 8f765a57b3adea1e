package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ruble-bot/internal/handlers"
	telegoapi "ruble-bot/pkg/telegoapi"
)

type MockBot struct {
	mock.Mock
}

func (m *MockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	return nil, args.Error(1)
}

func (m *MockBot) SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	return nil, args.Error(1)
}

func (m *MockBot) AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockBot) SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockBot) GetMe(ctx context.Context) (*telego.User, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

type MockHandler struct {
	mock.Mock
	commands map[string]handlers.CommandFunc
}

func (m *MockHandler) GetCommandHandler(command string) handlers.CommandFunc {
	return m.commands[command]
}

func (m *MockHandler) HandleText(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	return m.Called(message.Text).Error(0)
}

func (m *MockHandler) HandleUnknown(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	return m.Called(message.Text).Error(0)
}

func (m *MockHandler) HandleCallbackQuery(ctx context.Context, bot telegoapi.BotAPI, query telego.CallbackQuery) error {
	return m.Called(query.Data).Error(0)
}

func newTestBot(t *testing.T, h *MockHandler, updates <-chan telego.Update) *Bot {
	t.Helper()
	b, err := New(BotDeps{
		Bot:         new(MockBot),
		UpdatesChan: updates,
		Handler:     h,
		RateLimit:   1000,
		Log:         zerolog.Nop(),
	})
	require.NoError(t, err)
	return b
}

func messageUpdate(text string) telego.Update {
	return telego.Update{Message: &telego.Message{
		From: &telego.User{ID: 7},
		Chat: telego.Chat{ID: 7},
		Text: text,
	}}
}

func TestNew(t *testing.T) {
	updates := make(chan telego.Update)

	_, err := New(BotDeps{UpdatesChan: updates, Handler: new(MockHandler)})
	assert.Error(t, err)
	_, err = New(BotDeps{Bot: new(MockBot), UpdatesChan: updates})
	assert.Error(t, err)
	_, err = New(BotDeps{Bot: new(MockBot), Handler: new(MockHandler)})
	assert.Error(t, err)
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "start", commandName("/start"))
	assert.Equal(t, "start", commandName("/start@ruble_bot"))
	assert.Equal(t, "feedback", commandName("/feedback now please"))
	assert.Equal(t, "", commandName("/"))
}

func TestRoute(t *testing.T) {
	var started bool
	h := &MockHandler{commands: map[string]handlers.CommandFunc{
		"start": func(context.Context, telegoapi.BotAPI, telego.Message) error {
			started = true
			return nil
		},
	}}
	b := newTestBot(t, h, make(chan telego.Update))
	ctx := context.Background()

	kind, err := b.route(ctx, messageUpdate("/start@ruble_bot"))
	require.NoError(t, err)
	assert.Equal(t, "command", kind)
	assert.True(t, started)

	h.On("HandleUnknown", "/help").Return(nil).Once()
	kind, err = b.route(ctx, messageUpdate("/help"))
	require.NoError(t, err)
	assert.Equal(t, "command", kind)

	h.On("HandleText", "ticket hi").Return(errors.New("boom")).Once()
	kind, err = b.route(ctx, messageUpdate("ticket hi"))
	assert.Error(t, err)
	assert.Equal(t, "text", kind)

	h.On("HandleUnknown", "").Return(nil).Once()
	kind, err = b.route(ctx, messageUpdate(""))
	require.NoError(t, err)
	assert.Equal(t, "other", kind)

	h.On("HandleCallbackQuery", "leave_feedback").Return(nil).Once()
	kind, err = b.route(ctx, telego.Update{CallbackQuery: &telego.CallbackQuery{ID: "q", Data: "leave_feedback"}})
	require.NoError(t, err)
	assert.Equal(t, "callback", kind)

	kind, err = b.route(ctx, telego.Update{Message: &telego.Message{Chat: telego.Chat{ID: -1}, Text: "channel post"}})
	require.NoError(t, err)
	assert.Equal(t, "ignored", kind)

	h.AssertExpectations(t)
}

func TestProcessUpdateRecoversPanic(t *testing.T) {
	h := &MockHandler{commands: map[string]handlers.CommandFunc{
		"start": func(context.Context, telegoapi.BotAPI, telego.Message) error {
			panic("handler exploded")
		},
	}}
	b := newTestBot(t, h, make(chan telego.Update))

	assert.NotPanics(t, func() {
		b.processUpdate(context.Background(), messageUpdate("/start"))
	})
}

func TestStartDrainsUntilChannelCloses(t *testing.T) {
	updates := make(chan telego.Update, 3)
	h := new(MockHandler)
	h.On("HandleText", mock.Anything).Return(nil).Times(3)
	b := newTestBot(t, h, updates)

	for i := 0; i < 3; i++ {
		updates <- messageUpdate("hello")
	}
	close(updates)

	done := make(chan struct{})
	go func() {
		b.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after the channel closed")
	}
	h.AssertNumberOfCalls(t, "HandleText", 3)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	b := newTestBot(t, new(MockHandler), make(chan telego.Update))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		b.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
