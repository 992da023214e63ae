package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/service/checkpoint"
	"github.com/sandevgo/tuskmem/pkg/log"
)

const thinkingLabel = "Thinking..."

// TransitionFunc observes every state change of the driver.
type TransitionFunc func(from, to State, outcome Outcome)

// Driver runs the turn-taking loop: it alternates between waiting for the
// operator and stepping the agent, and keeps stepping on its own while the
// agent signals that it wants to continue.
type Driver struct {
	cfg      *config.AppConfig
	agent    core.Agent
	console  core.Console
	router   core.CmdRouter
	store    *checkpoint.Store
	recorder core.CheckpointRecorder

	now          func() time.Time
	onTransition TransitionFunc

	state   State
	pending core.Message
	first   bool
	steps   int
}

func NewDriver(
	cfg *config.AppConfig,
	agent core.Agent,
	console core.Console,
	router core.CmdRouter,
	store *checkpoint.Store,
	recorder core.CheckpointRecorder,
) *Driver {
	return &Driver{
		cfg:      cfg,
		agent:    agent,
		console:  console,
		router:   router,
		store:    store,
		recorder: recorder,
		now:      time.Now,
	}
}

func (d *Driver) OnTransition(fn TransitionFunc) {
	d.onTransition = fn
}

func (d *Driver) State() State {
	return d.state
}

// Steps reports how many times the agent has been stepped.
func (d *Driver) Steps() int {
	return d.steps
}

// Run drives the session until it terminates. A checkpoint is attempted on
// the way out regardless of what ended the session.
func (d *Driver) Run(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	d.state = AwaitingInput
	if d.cfg.AgentFirst {
		d.state = Processing
		d.pending = core.LoginMessage(d.now())
		d.first = true
	}
	logger.Debug().Str("state", d.state.String()).Msg("session started")

	for {
		switch d.state {
		case AwaitingInput:
			d.awaitInput(ctx)
		case Processing:
			d.process(ctx)
		case AutoContinue:
			// Cancellation is honored between steps, never inside one.
			if ctx.Err() != nil {
				d.transition(ctx, Terminated, Outcome{})
				continue
			}
			d.transition(ctx, Processing, Outcome{})
		case Terminated:
			d.shutdown(ctx)
			return nil
		}
	}
}

func (d *Driver) awaitInput(ctx context.Context) {
	input, err := d.console.Prompt(ctx)
	if err != nil {
		if !errors.Is(err, io.EOF) && ctx.Err() == nil {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to read input")
		}
		d.transition(ctx, Terminated, Outcome{})
		return
	}
	d.handleInput(ctx, input)
}

// handleInput either moves the loop forward or leaves it where it is.
func (d *Driver) handleInput(ctx context.Context, input string) {
	input = strings.TrimSpace(input)

	switch {
	case input == "":
		d.console.Notify(ctx, core.NoticeWarn, "Empty input received. Try again!")
	case strings.HasPrefix(input, "!"):
		d.console.Notify(ctx, core.NoticeWarn, "Commands begin with '/' not '!'")
	case strings.HasPrefix(input, "/"):
		res, _ := d.router.Execute(ctx, input)
		if res.Output != "" {
			level := core.NoticeInfo
			if res.Failed {
				level = core.NoticeError
			}
			d.console.Notify(ctx, level, res.Output)
		}
		switch res.Action {
		case core.ActionExit:
			d.transition(ctx, Terminated, Outcome{})
		case core.ActionSubmit:
			if res.Message != nil {
				d.pending = *res.Message
				d.transition(ctx, Processing, Outcome{})
			}
		}
	default:
		d.pending = core.UserMessage(input, d.now())
		d.transition(ctx, Processing, Outcome{})
	}
}

func (d *Driver) process(ctx context.Context) {
	logger := log.FromCtx(ctx)

	first := d.first
	d.first = false

	stop := d.console.Busy(ctx, thinkingLabel)
	res, err := d.agent.Step(context.WithoutCancel(ctx), d.pending, first, d.cfg.NoVerify)
	stop()
	d.steps++

	if err != nil {
		logger.Error().Err(err).Int("step", d.steps).Msg("agent step failed")
		d.console.Notify(ctx, core.NoticeError, "Agent step failed: "+err.Error())
		d.transition(ctx, AwaitingInput, Outcome{})
		return
	}

	d.console.Render(ctx, res.Messages)

	outcome := Resolve(res)
	next, ok := outcome.NextMessage(d.now())
	if !ok {
		d.transition(ctx, AwaitingInput, outcome)
		return
	}
	d.pending = next
	d.transition(ctx, AutoContinue, outcome)
}

func (d *Driver) shutdown(ctx context.Context) {
	// The session context may already be cancelled; the checkpoint still runs.
	ctx = context.WithoutCancel(ctx)

	res, err := d.store.SaveAndRecord(ctx, d.agent, checkpoint.TriggerShutdown, d.recorder)
	for _, line := range res.Summary() {
		level := core.NoticeSuccess
		if err != nil {
			level = core.NoticeWarn
		}
		d.console.Notify(ctx, level, line)
	}
	d.console.Notify(ctx, core.NoticeInfo, "Finished.")
}

func (d *Driver) transition(ctx context.Context, to State, outcome Outcome) {
	from := d.state
	d.state = to

	log.FromCtx(ctx).Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Str("outcome", outcome.String()).
		Int("steps", d.steps).
		Msg("session transition")

	if d.onTransition != nil {
		d.onTransition(from, to, outcome)
	}
}
