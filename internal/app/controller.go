package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/joacominatel/salesdash/internal/catalog"
	"github.com/joacominatel/salesdash/internal/database"
	"github.com/joacominatel/salesdash/internal/logging"
	"github.com/joacominatel/salesdash/internal/metrics"
	"github.com/rs/zerolog"
)

// State is a step of a single selection run. Every run starts and ends in StateIdle.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateNoQuery
	StateExecuting
	StatePresenting
	StateErrorDisplay
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateNoQuery:
		return "no_query"
	case StateExecuting:
		return "executing"
	case StatePresenting:
		return "presenting"
	case StateErrorDisplay:
		return "error_display"
	default:
		return "unknown"
	}
}

// Runner executes a statement. *Executor is the production implementation.
type Runner interface {
	Execute(ctx context.Context, statement string) (*database.QueryResult, error)
}

// Controller turns a selection event into a render instruction.
type Controller struct {
	catalogs *catalog.Set
	runner   Runner
	log      zerolog.Logger
}

// NewController creates a controller over the given catalogs.
func NewController(catalogs *catalog.Set, runner Runner) *Controller {
	return &Controller{
		catalogs: catalogs,
		runner:   runner,
		log:      logging.With().Str("component", "controller").Logger(),
	}
}

// OnSelect resolves questionID in the catalog of the given kind, runs its statement
// and presents the result. It never fails: an unknown question yields a prompt and a
// failed statement yields an error instruction. Nothing is retried.
func (c *Controller) OnSelect(ctx context.Context, kind catalog.Kind, questionID string) RenderInstruction {
	log := c.log.With().
		Str("run_id", uuid.NewString()).
		Str("catalog", string(kind)).
		Str("question", questionID).
		Logger()

	out := c.run(ctx, log, kind, questionID)
	metrics.Selections.WithLabelValues(string(kind), string(out.Kind)).Inc()
	log.Debug().Stringer("state", StateIdle).Str("kind", string(out.Kind)).Int("rows", out.RowCount).Msg("selection done")
	return out
}

func (c *Controller) run(ctx context.Context, log zerolog.Logger, kind catalog.Kind, questionID string) RenderInstruction {
	log.Debug().Stringer("state", StateResolving).Msg("selection received")

	var statement string
	cat, ok := c.catalogs.Catalog(kind)
	if ok {
		statement, ok = cat.Resolve(questionID)
	}
	if !ok {
		log.Debug().Stringer("state", StateNoQuery).Msg("no question selected")
		return Prompt(kind)
	}

	log.Debug().Stringer("state", StateExecuting).Msg("running statement")
	res, err := c.runner.Execute(ctx, statement)
	if err != nil {
		log.Warn().Err(err).Stringer("state", StateErrorDisplay).Msg("selection failed")
		return Failure(kind, questionID, err)
	}

	log.Debug().Stringer("state", StatePresenting).Int("rows", res.RowCount).Msg("presenting result")
	return Present(kind, questionID, res)
}
