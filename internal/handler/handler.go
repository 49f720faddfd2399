package handler

import (
	"context"
	"sync"
	"time"

	"lessonbook/internal/domain"
	"lessonbook/internal/middleware"
	"lessonbook/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// requestTimeout bounds the store work done for a single update
const requestTimeout = 30 * time.Second

const errorMessage = "Something went wrong. Please try again later."

const passwordPrompt = middleware.PasswordPrompt

// Handler manages all bot interactions
type Handler struct {
	bot             *tele.Bot
	authService     *service.AuthService
	importService   *service.ImportService
	conflictService *service.ConflictService
	lessonService   *service.LessonService
	notebookService *service.NotebookService
	logger          *zap.Logger

	maxImportBytes int64

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex
}

// Services groups what the handler needs from the service layer
type Services struct {
	Auth     *service.AuthService
	Import   *service.ImportService
	Conflict *service.ConflictService
	Lessons  *service.LessonService
	Notebook *service.NotebookService
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	services Services,
	maxImportBytes int64,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:             bot,
		authService:     services.Auth,
		importService:   services.Import,
		conflictService: services.Conflict,
		lessonService:   services.Lessons,
		notebookService: services.Notebook,
		logger:          logger,
		maxImportBytes:  maxImportBytes,
		states:          make(map[int64]*domain.StateData),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Open to everyone: /start and plain text (password entry)
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle(tele.OnText, h.handleText)

	protected := h.bot.Group()
	protected.Use(middleware.AuthMiddleware(h.authService, h.logger))

	// Commands
	protected.Handle("/lessons", h.handleLessons)
	protected.Handle("/lesson", h.handleLesson)
	protected.Handle("/rename", h.handleRename)
	protected.Handle("/delete", h.handleDelete)
	protected.Handle("/template", h.handleTemplate)
	protected.Handle("/note", h.handleNote)
	protected.Handle("/notes", h.handleNotes)
	protected.Handle("/done", h.handleDone)

	// Lesson files
	protected.Handle(tele.OnDocument, h.handleDocument)

	// Callback queries (inline buttons)
	protected.Handle(&btnLessons, h.handleLessons)
	protected.Handle(&btnTemplate, h.handleTemplate)
	protected.Handle(&btnNotes, h.handleNotes)
	protected.Handle(&btnMerge, h.handleMerge)
	protected.Handle(&btnAbort, h.handleAbort)
	protected.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	protected.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// takePendingImport removes and returns the batch waiting for a merge decision
func (h *Handler) takePendingImport(userID int64) *domain.ParsedBatch {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()

	state, exists := h.states[userID]
	if !exists || state.State != domain.StateConfirmConflict {
		return nil
	}
	batch := state.PendingImport
	h.states[userID] = &domain.StateData{State: domain.StateIdle}
	return batch
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnLessons = tele.Btn{
		Unique: "lessons",
		Text:   "📚 Lessons",
	}
	btnTemplate = tele.Btn{
		Unique: "template",
		Text:   "📄 CSV template",
	}
	btnNotes = tele.Btn{
		Unique: "notes",
		Text:   "📝 General notes",
	}
	btnMerge = tele.Btn{
		Unique: "merge",
		Text:   "🔀 Merge",
	}
	btnAbort = tele.Btn{
		Unique: "abort",
		Text:   "❌ Abort",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

const mainMenuText = "🏠 Main menu\n\nSend a lesson file (.csv, .json or .xlsx) to import it, or choose an action:"

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnLessons),
		menu.Row(btnTemplate, btnNotes),
	)
	return menu
}

// conflictMarkup offers the merge/abort decision for a pending import
func conflictMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnMerge, btnAbort))
	return menu
}
