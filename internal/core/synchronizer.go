// ABOUTME: Daily synchronizer that turns scheduled activities into routine pages
// ABOUTME: Idempotent find-or-create of the summary and items, then full relink
package core

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/config"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/metrics"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/models"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
	"github.com/JoaoVitorDomingos/automacao-rotina/internal/schedule"
)

// Status describes what a run did (or would do) with a page.
type Status string

const (
	StatusCreated  Status = "created"
	StatusExisting Status = "existing"
	StatusPending  Status = "pending" // plan only: would be created
)

// Recorder receives per-record counts. *metrics.Recorder satisfies it.
type Recorder interface {
	RecordCreated(kind string)
	RecordReused(kind string)
	RecordActivities(n int)
}

type noopRecorder struct{}

func (noopRecorder) RecordCreated(string) {}
func (noopRecorder) RecordReused(string)  {}
func (noopRecorder) RecordActivities(int) {}

// Item is the outcome for one scheduled activity.
type Item struct {
	ActivityID string
	RoutineID  string
	Name       string
	Time       string
	Status     Status
}

// Result summarizes a run or a plan.
type Result struct {
	Day           schedule.Day
	DataSources   DataSources
	Empty         bool
	SummaryID     string
	SummaryStatus Status
	Items         []Item
	Linked        bool
}

// RoutineIDs returns the routine page ids in activity fetch order, skipping
// items that do not exist yet.
func (r *Result) RoutineIDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		if item.RoutineID != "" {
			ids = append(ids, item.RoutineID)
		}
	}
	return ids
}

// Count returns how many items have status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, item := range r.Items {
		if item.Status == status {
			n++
		}
	}
	return n
}

// Synchronizer runs the daily workflow against a workspace.
type Synchronizer struct {
	ws        Workspace
	databases config.Databases
	logger    *log.Logger
	recorder  Recorder
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Synchronizer) {
		if logger == nil {
			logger = log.New(io.Discard, "", 0)
		}
		s.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Synchronizer) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewSynchronizer creates a synchronizer for the configured databases.
func NewSynchronizer(ws Workspace, databases config.Databases, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		ws:        ws,
		databases: databases,
		logger:    log.Default(),
		recorder:  noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run synchronizes day. Calls are strictly sequential. On failure the partial
// result is returned with the error; pages created before the failure remain
// and are found again by the next run.
func (s *Synchronizer) Run(ctx context.Context, day schedule.Day) (*Result, error) {
	result := &Result{Day: day}

	sources, err := ResolveDataSources(ctx, s.ws, s.databases)
	if err != nil {
		return result, err
	}
	result.DataSources = sources

	activities, err := s.fetchActivities(ctx, sources.Activities, day)
	if err != nil {
		return result, err
	}
	if len(activities) == 0 {
		s.logger.Printf("[Sync] No activities scheduled for %s (%s)", day, day.Weekday())
		result.Empty = true
		return result, nil
	}

	summaryID, status, err := s.ensureSummary(ctx, sources.Analysis, day)
	if err != nil {
		return result, err
	}
	result.SummaryID = summaryID
	result.SummaryStatus = status

	for _, activity := range activities {
		item, err := s.ensureRoutineItem(ctx, sources.Routine, activity, day)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, item)
	}

	ids := result.RoutineIDs()
	if _, err := s.ws.UpdatePage(ctx, summaryID, models.LinkProperties(ids)); err != nil {
		return result, fmt.Errorf("linking %d routine items to summary %s: %w", len(ids), summaryID, err)
	}
	result.Linked = true

	s.logger.Printf("[Sync] Routine and summary synchronized for %s: %d created, %d existing",
		day, result.Count(StatusCreated), result.Count(StatusExisting))
	return result, nil
}

// Plan resolves and queries like Run but never creates or updates pages.
// Missing pages are reported as StatusPending.
func (s *Synchronizer) Plan(ctx context.Context, day schedule.Day) (*Result, error) {
	result := &Result{Day: day}

	sources, err := ResolveDataSources(ctx, s.ws, s.databases)
	if err != nil {
		return result, err
	}
	result.DataSources = sources

	activities, err := s.fetchActivities(ctx, sources.Activities, day)
	if err != nil {
		return result, err
	}
	if len(activities) == 0 {
		result.Empty = true
		return result, nil
	}

	summary, err := s.findSummary(ctx, sources.Analysis, day)
	if err != nil {
		return result, err
	}
	result.SummaryStatus = StatusPending
	if summary != nil {
		result.SummaryID = summary.ID
		result.SummaryStatus = StatusExisting
	}

	for _, activity := range activities {
		item := Item{
			ActivityID: activity.ID,
			Name:       activity.Name,
			Time:       models.ScheduleTime(activity, day.Weekday()),
			Status:     StatusPending,
		}
		existing, err := s.findRoutineItem(ctx, sources.Routine, activity.ID, day)
		if err != nil {
			return result, err
		}
		if existing != nil {
			item.RoutineID = existing.ID
			item.Status = StatusExisting
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func (s *Synchronizer) fetchActivities(ctx context.Context, dataSourceID string, day schedule.Day) ([]models.Activity, error) {
	weekday := day.Weekday()
	pages, err := s.ws.QueryDataSource(ctx, dataSourceID, models.ActivitiesFilter(weekday))
	if err != nil {
		return nil, fmt.Errorf("fetching activities for %s: %w", weekday, err)
	}

	activities := make([]models.Activity, 0, len(pages))
	for _, p := range pages {
		activities = append(activities, models.ActivityFromPage(p))
	}
	s.recorder.RecordActivities(len(activities))
	s.logger.Printf("[Sync] %d activities scheduled for %s", len(activities), weekday)
	return activities, nil
}

func (s *Synchronizer) findSummary(ctx context.Context, dataSourceID string, day schedule.Day) (*notion.Page, error) {
	pages, err := s.ws.QueryDataSource(ctx, dataSourceID, models.SummaryFilter(day))
	if err != nil {
		return nil, fmt.Errorf("looking up summary for %s: %w", day, err)
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return &pages[0], nil
}

func (s *Synchronizer) ensureSummary(ctx context.Context, dataSourceID string, day schedule.Day) (string, Status, error) {
	existing, err := s.findSummary(ctx, dataSourceID, day)
	if err != nil {
		return "", "", err
	}
	if existing != nil {
		s.logger.Printf("[Sync] Summary for %s already exists: %s", day, existing.ID)
		s.recorder.RecordReused(metrics.KindSummary)
		return existing.ID, StatusExisting, nil
	}

	summary := models.NewDailySummary(day)
	page, err := s.ws.CreatePage(ctx, summary.CreateRequest(dataSourceID))
	if err != nil {
		return "", "", fmt.Errorf("creating summary %q: %w", summary.Title, err)
	}
	s.logger.Printf("[Sync] Created summary %q: %s", summary.Title, page.ID)
	s.recorder.RecordCreated(metrics.KindSummary)
	return page.ID, StatusCreated, nil
}

func (s *Synchronizer) findRoutineItem(ctx context.Context, dataSourceID, activityID string, day schedule.Day) (*notion.Page, error) {
	pages, err := s.ws.QueryDataSource(ctx, dataSourceID, models.RoutineFilter(activityID, day))
	if err != nil {
		return nil, fmt.Errorf("looking up routine item for activity %s: %w", activityID, err)
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return &pages[0], nil
}

func (s *Synchronizer) ensureRoutineItem(ctx context.Context, dataSourceID string, activity models.Activity, day schedule.Day) (Item, error) {
	routine := models.NewRoutineItem(activity, day)
	item := Item{
		ActivityID: activity.ID,
		Name:       routine.Name,
		Time:       routine.Time,
	}

	existing, err := s.findRoutineItem(ctx, dataSourceID, activity.ID, day)
	if err != nil {
		return item, err
	}
	if existing != nil {
		s.logger.Printf("[Sync] Routine item already exists for activity %s: %s", activity.ID, existing.ID)
		s.recorder.RecordReused(metrics.KindRoutine)
		item.RoutineID = existing.ID
		item.Status = StatusExisting
		return item, nil
	}

	page, err := s.ws.CreatePage(ctx, routine.CreateRequest(dataSourceID))
	if err != nil {
		return item, fmt.Errorf("creating routine item %q: %w", routine.Name, err)
	}
	s.logger.Printf("[Sync] Created routine item %q (%s): %s", routine.Name, routine.Time, page.ID)
	s.recorder.RecordCreated(metrics.KindRoutine)
	item.RoutineID = page.ID
	item.Status = StatusCreated
	return item, nil
}
