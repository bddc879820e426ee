// Package pipeline composes aggregation, consolidation and persistence into
// the single consolidate-user-profile operation.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/profile-consolidator/internal/aggregation"
	"github.com/jonathan/profile-consolidator/internal/consolidation"
	"github.com/jonathan/profile-consolidator/internal/errs"
	"github.com/jonathan/profile-consolidator/internal/llm"
	"github.com/jonathan/profile-consolidator/internal/result"
	"github.com/jonathan/profile-consolidator/internal/types"
)

// UnitOfWork is the persistence contract for exactly one profile save. The
// storage boundary assigns the profile's identity field on commit; Refresh
// copies it back onto the in-memory profile.
type UnitOfWork interface {
	Add(ctx context.Context, p *types.Profile) error
	Commit(ctx context.Context) error
	Refresh(ctx context.Context, p *types.Profile) error
	Rollback(ctx context.Context) error
}

// ProfileStore opens a fresh unit of work per orchestrator invocation.
type ProfileStore interface {
	BeginProfileSave(ctx context.Context) (UnitOfWork, error)
}

// StoreFunc adapts a function to the ProfileStore interface.
type StoreFunc func(ctx context.Context) (UnitOfWork, error)

// BeginProfileSave implements ProfileStore.
func (f StoreFunc) BeginProfileSave(ctx context.Context) (UnitOfWork, error) {
	return f(ctx)
}

// Orchestrator owns the pipeline's dependency defaults and guarantees profile
// persistence is attempted exactly once per invocation.
type Orchestrator struct {
	store      ProfileStore
	aggregator *aggregation.Aggregator
	strategy   consolidation.Strategy
	provider   llm.Provider
	logger     *zap.Logger
}

// Option customizes orchestrator construction. The three injection shapes are
// explicit strategy, explicit provider (by instance or by name) and both.
type Option func(*options)

type options struct {
	strategy     consolidation.Strategy
	provider     llm.Provider
	providerName string
}

// WithStrategy injects an alternative consolidation strategy.
func WithStrategy(s consolidation.Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithProvider injects a concrete provider instance.
func WithProvider(p llm.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithProviderName selects a provider through the factory allow-list.
func WithProviderName(name string) Option {
	return func(o *options) { o.providerName = name }
}

// New constructs an Orchestrator. Without options it uses the default LLM
// strategy and the factory's Gemini provider built from factoryCfg; an unknown
// provider or strategy name fails here, not mid-pipeline.
func New(ctx context.Context, store ProfileStore, sources aggregation.SourceStore, factoryCfg llm.FactoryConfig, logger *zap.Logger, opts ...Option) (*Orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	provider := o.provider
	if provider == nil {
		name := o.providerName
		if name == "" {
			name = llm.ProviderGemini
		}
		var err error
		provider, err = llm.New(ctx, name, factoryCfg)
		if err != nil {
			return nil, err
		}
	}

	strategy := o.strategy
	if strategy == nil {
		strategy = consolidation.NewLLMStrategy(logger)
	}

	return &Orchestrator{
		store:      store,
		aggregator: aggregation.New(sources, logger),
		strategy:   strategy,
		provider:   provider,
		logger:     logger,
	}, nil
}

// ConsolidateUserProfile runs the full pipeline for one user: aggregate the
// ten sources, synthesize a profile through the strategy, persist it. Each
// stage short-circuits on the first error; callers always receive a Result.
func (orc *Orchestrator) ConsolidateUserProfile(ctx context.Context, userID int64) result.Result[*types.Profile] {
	return result.Bind(orc.aggregator.Aggregate(ctx, userID),
		func(agg *types.RawAggregate) result.Result[*types.Profile] {
			return result.Bind(orc.strategy.Consolidate(ctx, userID, agg, orc.provider),
				func(profile *types.Profile) result.Result[*types.Profile] {
					return orc.persist(ctx, profile)
				})
		})
}

// persist saves the profile through a fresh unit of work. On any failure the
// unit of work is rolled back and the in-memory profile is discarded; no
// partial profile is ever visible to a caller.
func (orc *Orchestrator) persist(ctx context.Context, profile *types.Profile) result.Result[*types.Profile] {
	uow, err := orc.store.BeginProfileSave(ctx)
	if err != nil {
		return result.Err[*types.Profile](errs.Persistence(err, "failed to open unit of work"))
	}

	if err := uow.Add(ctx, profile); err != nil {
		orc.rollback(ctx, uow, profile.UserID)
		return result.Err[*types.Profile](errs.Persistence(err, "failed to stage profile"))
	}

	if err := uow.Commit(ctx); err != nil {
		orc.rollback(ctx, uow, profile.UserID)
		return result.Err[*types.Profile](errs.Persistence(err, "failed to commit profile"))
	}

	if err := uow.Refresh(ctx, profile); err != nil {
		return result.Err[*types.Profile](errs.Persistence(err, "failed to refresh persisted profile"))
	}

	orc.logger.Info("profile persisted",
		zap.Int64("user_id", profile.UserID),
		zap.String("profile_id", profile.ID.String()),
	)
	return result.Ok(profile)
}

func (orc *Orchestrator) rollback(ctx context.Context, uow UnitOfWork, userID int64) {
	if err := uow.Rollback(ctx); err != nil {
		orc.logger.Error("rollback failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
