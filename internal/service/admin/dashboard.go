package admin

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/kirinyoku/fringe/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardUpcoming = 5
	dashboardTopShows = 5
)

type Dashboard struct {
	PerformancesToday int                  `json:"performancesToday"`
	ActiveShows       int                  `json:"activeShows"`
	ActiveVenues      int                  `json:"activeVenues"`
	Upcoming          []domain.Performance `json:"upcoming"`
	TopShows          []domain.ShowSales   `json:"topShows"`
}

// Dashboard fetches shows, venues, performances and sales concurrently and
// aggregates them for the admin landing page. Any failed fetch fails the
// whole dashboard.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	const op = "service.admin.Dashboard"

	var (
		shows  []domain.Show
		venues []domain.Venue
		perfs  []domain.Performance
		sales  []domain.ShowSales
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		shows, err = s.backend.ListShows(gctx)
		return err
	})
	g.Go(func() (err error) {
		venues, err = s.venues(gctx)
		return err
	})
	g.Go(func() (err error) {
		perfs, err = s.backend.ListPerformances(gctx)
		return err
	})
	g.Go(func() (err error) {
		sales, err = s.backend.ShowSalesReport(gctx, "", "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	loc := s.cfg.Location
	now := s.now().In(loc)
	today := startOfDay(now)

	d := &Dashboard{
		ActiveShows: len(shows),
		Upcoming:    []domain.Performance{},
		TopShows:    []domain.ShowSales{},
	}

	for _, v := range venues {
		if v.Active {
			d.ActiveVenues++
		}
	}

	type dated struct {
		p  domain.Performance
		at time.Time
	}
	var upcoming []dated
	for _, p := range perfs {
		day, err := domain.ParseDate(p.PerformanceDate, loc)
		if err != nil {
			continue
		}
		day = startOfDay(day.In(loc))
		if day.Equal(today) {
			d.PerformancesToday++
		}
		if !p.Active || day.Before(today) {
			continue
		}
		at := day.Add(p.StartTime.Duration())
		if at.Before(now) {
			continue
		}
		upcoming = append(upcoming, dated{p: p, at: at})
	}

	slices.SortStableFunc(upcoming, func(a, b dated) int {
		return a.at.Compare(b.at)
	})
	for _, u := range upcoming[:min(len(upcoming), dashboardUpcoming)] {
		d.Upcoming = append(d.Upcoming, u.p)
	}

	ranked := slices.Clone(sales)
	slices.SortStableFunc(ranked, func(a, b domain.ShowSales) int {
		return cmp.Compare(b.TotalRevenue, a.TotalRevenue)
	})
	d.TopShows = append(d.TopShows, ranked[:min(len(ranked), dashboardTopShows)]...)

	return d, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
