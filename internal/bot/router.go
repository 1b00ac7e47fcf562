package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	"github.com/titansbeer/titans-linebot-go/internal/cards"
	"github.com/titansbeer/titans-linebot-go/internal/ctxutil"
	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
	"github.com/titansbeer/titans-linebot-go/internal/fetcher"
	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/metrics"
)

// MenuFetcher returns the current beer menu.
type MenuFetcher interface {
	FetchMenu(ctx context.Context) fetcher.Result[beer.Record]
}

// SavedStore reads and writes a user's saved beers.
type SavedStore interface {
	FetchSaved(ctx context.Context, userID string) fetcher.Result[beer.Saved]
	Save(ctx context.Context, userID string, payload beer.SavePayload) error
}

// Deps are the collaborators the command handlers need.
type Deps struct {
	Menu  MenuFetcher
	Store SavedStore // nil disables saved beers
	Cards *cards.Builder

	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Router maps events to replies. It holds no per-request state and is safe
// for concurrent use.
type Router struct {
	triggers []TriggerSet
	handlers [commandCount]HandlerFunc

	store   SavedStore
	cards   *cards.Builder
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewRouter validates triggers and binds every command to its handler.
// It fails when a trigger set names a command without a handler.
func NewRouter(triggers []TriggerSet, deps Deps) (*Router, error) {
	if err := ValidateTriggers(triggers); err != nil {
		return nil, fmt.Errorf("invalid triggers: %w", err)
	}
	if deps.Menu == nil {
		return nil, errors.New("menu fetcher is required")
	}
	if deps.Cards == nil {
		return nil, errors.New("card builder is required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.New("info")
	}

	r := &Router{
		triggers: triggers,
		store:    deps.Store,
		cards:    deps.Cards,
		logger:   deps.Logger.WithModule("bot"),
		metrics:  deps.Metrics,
	}

	bindings := map[Command]HandlerFunc{
		CommandMenu:         r.menuHandler(deps.Menu),
		CommandSize:         r.static(r.cards.SizeChart),
		CommandStaff:        r.static(r.cards.StaffCarousel),
		CommandHagehige:     r.static(r.cards.HagehigeCarousel),
		CommandProfileYurie: r.profile("yurie"),
		CommandProfileAdam:  r.profile("adam"),
		CommandSavedBeers:   r.savedHandler,
	}

	mws := []Middleware{RecoveryMiddleware(r.logger), MetricsMiddleware(r.metrics), LoggingMiddleware(r.logger)}
	for cmd, h := range bindings {
		r.handlers[cmd] = chain(cmd, h, mws...)
	}

	for _, s := range triggers {
		if r.handlers[s.Command()] == nil {
			return nil, fmt.Errorf("command %s has no handler", s.Command())
		}
	}
	return r, nil
}

// Match returns the command selected by text, or CommandNone.
func (r *Router) Match(text string) Command {
	normalized := Normalize(text)
	if normalized == "" {
		return CommandNone
	}
	for _, s := range r.triggers {
		if s.Matches(normalized) {
			return s.Command()
		}
	}
	return CommandNone
}

// Route answers one event. A nil message means no reply is warranted:
// unrecognized text, an empty menu or an unparsable postback.
func (r *Router) Route(ctx context.Context, ev Event) messaging_api.MessageInterface {
	if uid := ev.Origin().UserID; uid != "" {
		ctx = ctxutil.WithUserID(ctx, uid)
	}

	switch e := ev.(type) {
	case TextEvent:
		cmd := r.Match(e.Text)
		if cmd == CommandNone {
			return nil
		}
		return r.handlers[cmd](ctx, e)
	case PostbackEvent:
		return r.handlePostback(ctx, e)
	}
	return nil
}

func (r *Router) static(build func() messaging_api.MessageInterface) HandlerFunc {
	return func(context.Context, TextEvent) messaging_api.MessageInterface {
		return build()
	}
}

func (r *Router) profile(key string) HandlerFunc {
	return func(context.Context, TextEvent) messaging_api.MessageInterface {
		return r.cards.Profile(key)
	}
}

// menuHandler fetches the live menu. Empty and failed fetches both stay
// silent: the user simply gets no carousel.
func (r *Router) menuHandler(menu MenuFetcher) HandlerFunc {
	return func(ctx context.Context, _ TextEvent) messaging_api.MessageInterface {
		res := menu.FetchMenu(ctx)
		switch res.Status {
		case fetcher.StatusOK:
			return r.cards.BeerCarousel(res.Items)
		case fetcher.StatusEmpty:
			r.logger.WithField("source", res.Source).InfoContext(ctx, "Menu is empty")
		default:
			r.logger.WithError(res.Err).WarnContext(ctx, "Menu fetch failed")
		}
		return nil
	}
}

func (r *Router) savedHandler(ctx context.Context, ev TextEvent) messaging_api.MessageInterface {
	if ev.UserID == "" {
		return cards.Text(cards.TextNoSavedBeers)
	}
	if r.store == nil {
		return cards.Text(cards.TextSavedLoadFailed)
	}

	res := r.store.FetchSaved(ctx, ev.UserID)
	switch res.Status {
	case fetcher.StatusOK:
		return r.cards.SavedCarousel(res.Items)
	case fetcher.StatusEmpty:
		return cards.Text(cards.TextNoSavedBeers)
	default:
		r.logger.WithError(res.Err).WarnContext(ctx, "Saved beers fetch failed")
		return cards.Text(cards.TextSavedLoadFailed)
	}
}

// handlePostback runs a save action. Unparsable data is logged and dropped
// without a reply.
func (r *Router) handlePostback(ctx context.Context, ev PostbackEvent) messaging_api.MessageInterface {
	payload, err := ParsePostback(ev.Data)
	if err != nil {
		entry := r.logger.WithError(err).WithField("data_length", len(ev.Data))
		if errors.Is(err, apperrors.ErrUnknownAction) {
			entry.InfoContext(ctx, "Ignoring postback with unknown action")
		} else {
			entry.WarnContext(ctx, "Ignoring malformed postback")
		}
		return nil
	}

	if r.metrics != nil {
		r.metrics.RecordCommand(beer.ActionSave)
	}

	if r.store == nil {
		r.recordSave("disabled")
		return cards.Text(cards.TextSaveFailed)
	}

	if err := r.store.Save(ctx, ev.UserID, payload); err != nil {
		r.recordSave("error")
		r.logger.WithError(err).WithField("beer", payload.Name).WarnContext(ctx, "Save failed")
		return cards.Text(cards.TextSaveFailed)
	}

	r.recordSave("success")
	return r.cards.SaveSucceeded(payload.Name)
}

func (r *Router) recordSave(status string) {
	if r.metrics != nil {
		r.metrics.RecordSave(status)
	}
}
