package rollout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rolloutlab/replaypool/internal/policy"
	"github.com/rolloutlab/replaypool/internal/replay"
)

// Collector runs one rollout worker per environment and joins them all.
// A collector can be reused: every Run starts a fresh episode on each
// environment while the pool keeps accumulating.
type Collector struct {
	pool   *replay.Pool
	envs   []Environment
	policy policy.Policy
	logger zerolog.Logger
}

// New creates a collector. envs must hold exactly one environment per
// pool segment; environment i is owned by worker i.
func New(pool *replay.Pool, envs []Environment, pol policy.Policy, logger *zerolog.Logger) (*Collector, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if pol == nil {
		return nil, fmt.Errorf("policy is required")
	}
	if len(envs) != pool.Processes() {
		return nil, fmt.Errorf("expected %d environments, got %d", pool.Processes(), len(envs))
	}

	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "collector").Logger()
	}

	return &Collector{
		pool:   pool,
		envs:   envs,
		policy: pol,
		logger: log,
	}, nil
}

// Run spawns one goroutine per worker and blocks until every worker has
// finished its episode. A failing worker is fatal to itself only; the
// others run their episodes to completion and the first failure is
// returned after all workers have joined. Cancelling ctx stops workers
// cooperatively at their next loop iteration.
func (c *Collector) Run(ctx context.Context) error {
	var g errgroup.Group
	for p := range c.envs {
		p := p
		g.Go(func() error {
			return c.runWorker(ctx, p)
		})
	}
	return g.Wait()
}

// runWorker executes one episode for worker p: reset, then repeatedly
// select an action, step the environment, pick a target segment, and
// store the transition through the pool's locked append protocol.
func (c *Collector) runWorker(ctx context.Context, p int) error {
	episodeID := uuid.New().String()

	state, err := c.envs[p].Reset()
	if err != nil {
		return fmt.Errorf("worker %d: reset: %w", p, err)
	}

	steps := 0
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("worker %d: %w", p, ctx.Err())
		default:
		}

		action, err := c.policy.SelectAction(state)
		if err != nil {
			return fmt.Errorf("worker %d: select action: %w", p, err)
		}

		taken, next, reward, done, err := c.envs[p].Step(action)
		if err != nil {
			return fmt.Errorf("worker %d: step: %w", p, err)
		}

		index, err := c.pool.NextIndex(p)
		if err != nil {
			return fmt.Errorf("worker %d: %w", p, err)
		}

		sample := replay.Sample{
			State:     state,
			Action:    taken,
			NextState: next,
			Reward:    reward,
			Done:      done,
		}
		if err := c.pool.Store(sample, index); err != nil {
			return fmt.Errorf("worker %d: %w", p, err)
		}
		steps++

		if done {
			c.logger.Debug().
				Int("worker", p).
				Str("episode_id", episodeID).
				Int("steps", steps).
				Msg("episode completed")
			return nil
		}
		state = next
	}
}
