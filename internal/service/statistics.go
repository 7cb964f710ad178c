package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/farmflow/farmflow-server/internal/models"
)

// dateOnly drops the time part of a timestamp.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// inWindow reports whether a record day falls inside [begin, end], inclusive
// on both ends.
func inWindow(date, begin, end time.Time) bool {
	d := dateOnly(date)
	return !d.Before(dateOnly(begin)) && !d.After(dateOnly(end))
}

// filterByDate keeps the records whose day falls inside the window.
func filterByDate(records []models.RecordView, begin, end time.Time) []models.RecordView {
	filtered := make([]models.RecordView, 0, len(records))
	for _, record := range records {
		if inWindow(record.Date, begin, end) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// productGroup accumulates one product's records during aggregation.
type productGroup struct {
	measure      string
	amount       int64
	contributors []string
	seen         map[string]bool
}

// groupByProduct sums record amounts per product, preserving first-seen
// product order and deduplicating contributor emails.
func groupByProduct(records []models.RecordView) ([]string, map[string]*productGroup) {
	order := []string{}
	groups := map[string]*productGroup{}

	for _, record := range records {
		group, ok := groups[record.ProductName]
		if !ok {
			group = &productGroup{
				measure: record.Measure,
				seen:    make(map[string]bool),
			}
			groups[record.ProductName] = group
			order = append(order, record.ProductName)
		}

		group.amount += record.Amount
		if !group.seen[record.UserEmail] {
			group.seen[record.UserEmail] = true
			group.contributors = append(group.contributors, record.UserEmail)
		}
	}

	return order, groups
}

// StatisticsByUser aggregates one contributor's records over the inclusive
// window [begin, end], grouped by product.
func (s *DefaultService) StatisticsByUser(ctx context.Context, email string, begin, end time.Time) ([]models.UserStatEntry, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, fmt.Errorf("%w: user with this email was not found", ErrNotFound)
	}

	records, err := s.repo.GetRecordsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting records: %w", err)
	}

	order, groups := groupByProduct(filterByDate(records, begin, end))

	stats := make([]models.UserStatEntry, 0, len(order))
	for _, name := range order {
		group := groups[name]
		stats = append(stats, models.UserStatEntry{
			ProductName: name,
			Amount:      group.amount,
			Measure:     group.measure,
		})
	}

	return stats, nil
}

// StatisticsByFarm aggregates all records over the inclusive window
// [begin, end], grouped by product, with the deduplicated set of
// contributor emails per product.
func (s *DefaultService) StatisticsByFarm(ctx context.Context, begin, end time.Time) ([]models.FarmStatEntry, error) {
	records, err := s.repo.GetAllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting records: %w", err)
	}

	order, groups := groupByProduct(filterByDate(records, begin, end))

	stats := make([]models.FarmStatEntry, 0, len(order))
	for _, name := range order {
		group := groups[name]
		stats = append(stats, models.FarmStatEntry{
			ProductName:  name,
			Contributors: group.contributors,
			Amount:       group.amount,
			Measure:      group.measure,
		})
	}

	return stats, nil
}

// SendDailyStatistics computes today's per-farm statistics and mails them,
// pretty-printed, to the configured recipient. It is invoked by the report
// scheduler; an error here is reported to the caller and never affects the
// next scheduled run.
func (s *DefaultService) SendDailyStatistics(ctx context.Context) error {
	now := today()

	stats, err := s.StatisticsByFarm(ctx, now, now)
	if err != nil {
		return fmt.Errorf("error computing daily statistics: %w", err)
	}

	body, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing daily statistics: %w", err)
	}

	if err := s.mailer.Send(s.reportTo, s.reportFrom, "Daily statistic", string(body)); err != nil {
		return fmt.Errorf("error sending daily statistics: %w", err)
	}

	return nil
}
