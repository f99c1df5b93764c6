package recording

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/client"
	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

// ErrSubmitInFlight is returned by Submit while a previous submission is pending.
var ErrSubmitInFlight = errors.New("submission already in progress")

const (
	msgSaved        = "Estatísticas adicionadas com sucesso"
	msgSaveFailed   = "Erro ao adicionar estatísticas"
	msgNoPlayer     = "Selecione uma jogadora"
	msgQuarter      = "Quarto deve estar entre 1 e 4"
	msgNegative     = "Estatísticas não podem ser negativas"
	msgMakes        = "Acertos não podem exceder tentativas"
	msgInvalidInput = "Estatísticas inválidas"
)

// Recorder sends one stat line to the API; *client.Client satisfies it.
type Recorder interface {
	RecordStats(ctx context.Context, gameID int, entry stats.Entry, key string) (*store.StatEntry, error)
}

// Notifier shows transient success and failure messages
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// Form is the stats recording form of one game.
type Form struct {
	mu       sync.Mutex
	gameID   int
	recorder Recorder
	notifier Notifier
	refresh  func(context.Context)

	state     FormState
	inFlight  bool
	inlineErr string
	// key is reused by retries of an unchanged state and dropped on any edit
	key string
}

// NewForm creates a form for gameID. refresh, if not nil, runs after every
// successful submission so the caller can reload the summary.
func NewForm(gameID int, recorder Recorder, notifier Notifier, refresh func(context.Context)) *Form {
	return &Form{
		gameID:   gameID,
		recorder: recorder,
		notifier: notifier,
		refresh:  refresh,
		state:    NewFormState(),
	}
}

// State returns a copy of the current state
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Update applies fn to the state and clears the inline error.
func (f *Form) Update(fn func(*FormState)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.state)
	f.inlineErr = ""
	f.key = ""
}

// InlineError is the message shown next to the form, empty when none
func (f *Form) InlineError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inlineErr
}

// Submitting reports whether a submission is pending; the submit control is disabled meanwhile.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Submit validates and sends the current state. Validation failures only set
// the inline error. On success the form resets to its defaults; on failure the
// state is kept so the user can retry.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	state := f.state
	if err := state.Validate(); err != nil {
		f.inlineErr = inlineMessage(err)
		f.mu.Unlock()
		return err
	}
	if f.key == "" {
		f.key = uuid.NewString()
	}
	key := f.key
	f.inFlight = true
	f.inlineErr = ""
	f.mu.Unlock()

	record, err := f.recorder.RecordStats(ctx, f.gameID, state.Entry(), key)

	f.mu.Lock()
	f.inFlight = false
	if err != nil {
		f.inlineErr = failureMessage(err)
		f.mu.Unlock()

		log.WithFields(log.Fields{"game_id": f.gameID, "player_id": state.PlayerID}).WithError(err).Warn("failed to record stats")
		f.notify(func(n Notifier) { n.Failure(msgSaveFailed) })
		return err
	}
	f.state = NewFormState()
	f.key = ""
	f.mu.Unlock()

	if record != nil {
		log.WithFields(log.Fields{"game_id": f.gameID, "entry_id": record.ID}).Debug("stats recorded")
	}
	f.notify(func(n Notifier) { n.Success(msgSaved) })
	if f.refresh != nil {
		f.refresh(ctx)
	}
	return nil
}

func (f *Form) notify(fn func(Notifier)) {
	if f.notifier != nil {
		fn(f.notifier)
	}
}

func inlineMessage(err error) string {
	switch {
	case errors.Is(err, ErrPlayerRequired):
		return msgNoPlayer
	case errors.Is(err, stats.ErrInvalidQuarter):
		return msgQuarter
	case errors.Is(err, stats.ErrNegativeCounter):
		return msgNegative
	case errors.Is(err, stats.ErrMakesExceedAttempts):
		return msgMakes
	}
	return msgInvalidInput
}

// failureMessage prefers the message the API answered with.
func failureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return msgSaveFailed
}
