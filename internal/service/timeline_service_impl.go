package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andrewchch/jira-dependency-viewer/internal/schedule"
)

type timelineService struct {
	graphs   GraphService
	engine   *schedule.Engine
	observer UseCaseObserver
}

// NewTimelineService layers schedule computation over graph builds.
func NewTimelineService(graphs GraphService, engine *schedule.Engine, observer UseCaseObserver) TimelineService {
	return &timelineService{
		graphs:   graphs,
		engine:   engine,
		observer: observerOrNoop(observer),
	}
}

func (s *timelineService) BuildTimeline(ctx context.Context, req TimelineRequest) (*TimelineResult, error) {
	start := time.Now()
	requestID := uuid.NewString()

	graphResult, err := s.graphs.BuildGraph(ctx, req.GraphRequest)
	if err != nil {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "build_timeline",
			RequestID: requestID,
			Duration:  time.Since(start),
			Err:       err,
			StartedAt: start,
		})
		return nil, err
	}

	today := time.Now().UTC()
	if req.Today != nil {
		today = *req.Today
	}

	plan := s.engine.Schedule(graphResult.Snapshot, today)

	result := &TimelineResult{
		Snapshot: graphResult.Snapshot,
		Failures: graphResult.Failures,
		Tasks:    plan.Tasks,
		Links:    plan.Links,
	}
	if plan.Cycle != nil {
		result.CycleIDs = plan.Cycle.IDs
	}

	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "build_timeline",
		RequestID: requestID,
		Duration:  time.Since(start),
		Success:   true,
		StartedAt: start,
		Fields: map[string]any{
			"task_count":  len(result.Tasks),
			"cycle_count": len(result.CycleIDs),
		},
	})
	return result, nil
}
