package client

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// buildError ties a hydration failure to its input position.
type buildError struct {
	index   int
	buildID int64
	err     error
}

func (e *buildError) Error() string {
	return fmt.Sprintf("hydrating build %d: %v", e.buildID, e.err)
}

func (e *buildError) Unwrap() error {
	return e.err
}

// HydrateWithChanges fetches, for every build, its full metadata and its
// changes, and the full metadata of each of those changes. Results
// correspond positionally to builds.
//
// Requests run concurrently, at most opts.Concurrency at a time. The
// semaphore is held only for the duration of a single request, so nested
// fan-out cannot starve itself.
//
// With JoinFailFast the first failure cancels every outstanding request and
// a *tcapi.JoinError is returned without results. With JoinBestEffort every
// build settles; the successfully hydrated builds are returned in input
// order alongside a *tcapi.JoinError listing the failures.
func (c *BuildsClient) HydrateWithChanges(
	ctx context.Context,
	builds []tcapi.Build,
	opts *tcapi.HydrationOptions,
) ([]tcapi.BuildMetadataWithChangeMetadata, error) {
	policy, concurrency, err := c.hydrationSettings(opts)
	if err != nil {
		return nil, err
	}

	if len(builds) == 0 {
		return []tcapi.BuildMetadataWithChangeMetadata{}, nil
	}

	c.logger.Debug("Hydrating builds", map[string]interface{}{
		"builds":      len(builds),
		"policy":      string(policy),
		"concurrency": concurrency,
	})

	h := &hydrator{
		builds:  c,
		changes: c.changes,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		results: make([]*tcapi.BuildMetadataWithChangeMetadata, len(builds)),
	}

	if policy == tcapi.JoinFailFast {
		return h.failFast(ctx, builds)
	}

	return h.bestEffort(ctx, builds)
}

func (c *BuildsClient) hydrationSettings(opts *tcapi.HydrationOptions) (tcapi.JoinPolicy, int, error) {
	policy := tcapi.JoinFailFast
	concurrency := c.concurrency

	if opts != nil {
		if opts.Policy != "" {
			policy = opts.Policy
		}

		if opts.Concurrency > 0 {
			concurrency = opts.Concurrency
		}
	}

	if policy != tcapi.JoinFailFast && policy != tcapi.JoinBestEffort {
		return "", 0, fmt.Errorf("%w: %q", tcapi.ErrInvalidJoinPolicy, policy)
	}

	if concurrency <= 0 {
		concurrency = constants.DefaultHydrationConcurrency
	}

	if concurrency > constants.MaxHydrationConcurrency {
		concurrency = constants.MaxHydrationConcurrency
	}

	return policy, concurrency, nil
}

type hydrator struct {
	builds  *BuildsClient
	changes *ChangesClient
	sem     *semaphore.Weighted
	// results is indexed by input position; each goroutine writes only its own slot.
	results []*tcapi.BuildMetadataWithChangeMetadata
}

func (h *hydrator) failFast(ctx context.Context, builds []tcapi.Build) ([]tcapi.BuildMetadataWithChangeMetadata, error) {
	group, groupCtx := errgroup.WithContext(ctx)

	for index, build := range builds {
		group.Go(func() error {
			hydrated, err := h.hydrateBuild(groupCtx, build.ID)
			if err != nil {
				return &buildError{index: index, buildID: build.ID, err: err}
			}

			h.results[index] = hydrated

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		failure := tcapi.JoinFailure{Err: err}

		var buildErr *buildError
		if errors.As(err, &buildErr) {
			failure = tcapi.JoinFailure{Index: buildErr.index, BuildID: buildErr.buildID, Err: buildErr.err}
		}

		h.builds.logger.Debug("Build hydration failed", map[string]interface{}{
			"build_id": failure.BuildID,
			"error":    failure.Err.Error(),
		})
		h.finished(nil, len(builds), 1)

		return nil, &tcapi.JoinError{
			Policy:   tcapi.JoinFailFast,
			Total:    len(builds),
			Failures: []tcapi.JoinFailure{failure},
		}
	}

	hydrated := make([]tcapi.BuildMetadataWithChangeMetadata, 0, len(builds))
	for _, result := range h.results {
		hydrated = append(hydrated, *result)
	}

	h.finished(hydrated, len(builds), 0)

	return hydrated, nil
}

func (h *hydrator) bestEffort(ctx context.Context, builds []tcapi.Build) ([]tcapi.BuildMetadataWithChangeMetadata, error) {
	var group errgroup.Group

	failures := make([]error, len(builds))

	for index, build := range builds {
		group.Go(func() error {
			hydrated, err := h.hydrateBuild(ctx, build.ID)
			if err != nil {
				failures[index] = err

				return nil
			}

			h.results[index] = hydrated

			return nil
		})
	}

	_ = group.Wait()

	hydrated := make([]tcapi.BuildMetadataWithChangeMetadata, 0, len(builds))
	joinErr := &tcapi.JoinError{Policy: tcapi.JoinBestEffort, Total: len(builds)}

	for index, result := range h.results {
		if failures[index] != nil {
			joinErr.Failures = append(joinErr.Failures, tcapi.JoinFailure{
				Index:   index,
				BuildID: builds[index].ID,
				Err:     failures[index],
			})

			continue
		}

		hydrated = append(hydrated, *result)
	}

	h.finished(hydrated, len(builds), len(joinErr.Failures))

	if len(joinErr.Failures) > 0 {
		h.builds.logger.Warn("Some builds could not be hydrated", map[string]interface{}{
			"failed": len(joinErr.Failures),
			"total":  len(builds),
		})

		return hydrated, joinErr
	}

	return hydrated, nil
}

func (h *hydrator) finished(hydrated []tcapi.BuildMetadataWithChangeMetadata, total, failed int) {
	changes := 0
	for _, build := range hydrated {
		changes += len(build.Changes)
	}

	h.builds.logger.Debug("Hydrated builds", map[string]interface{}{
		"builds":   total,
		"hydrated": len(hydrated),
		"failed":   failed,
		"changes":  changes,
	})
}

// hydrateBuild fetches one build's metadata and change list concurrently,
// then every change's metadata.
func (h *hydrator) hydrateBuild(ctx context.Context, buildID int64) (*tcapi.BuildMetadataWithChangeMetadata, error) {
	group, groupCtx := errgroup.WithContext(ctx)

	var (
		metadata       *tcapi.BuildMetadata
		changeMetadata []tcapi.ChangeMetadata
	)

	group.Go(func() error {
		var err error

		metadata, err = acquire(groupCtx, h.sem, func() (*tcapi.BuildMetadata, error) {
			return h.builds.GetMetadata(groupCtx, tcapi.IDLocator(buildID))
		})

		return err
	})

	group.Go(func() error {
		var err error

		changeMetadata, err = h.hydrateChanges(groupCtx, buildID)

		return err
	})

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	hydrated := metadata.WithChanges(changeMetadata)

	return &hydrated, nil
}

func (h *hydrator) hydrateChanges(ctx context.Context, buildID int64) ([]tcapi.ChangeMetadata, error) {
	changes, err := acquire(ctx, h.sem, func() ([]tcapi.Change, error) {
		return h.changes.List(ctx, tcapi.BuildChangesLocator(buildID))
	})
	if err != nil {
		return nil, err
	}

	metadata := make([]tcapi.ChangeMetadata, len(changes))
	group, groupCtx := errgroup.WithContext(ctx)

	for index, change := range changes {
		group.Go(func() error {
			changeMetadata, err := acquire(groupCtx, h.sem, func() (*tcapi.ChangeMetadata, error) {
				return h.changes.GetMetadata(groupCtx, tcapi.IDLocator(change.ID))
			})
			if err != nil {
				return err
			}

			metadata[index] = *changeMetadata

			return nil
		})
	}

	err = group.Wait()
	if err != nil {
		return nil, err
	}

	return metadata, nil
}

// acquire runs fetch while holding one semaphore slot.
func acquire[T any](ctx context.Context, sem *semaphore.Weighted, fetch func() (T, error)) (T, error) {
	err := sem.Acquire(ctx, 1)
	if err != nil {
		var zero T

		return zero, fmt.Errorf("waiting for request slot: %w", err)
	}
	defer sem.Release(1)

	return fetch()
}
