package service

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"portal/internal/applications/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

const latestOnDashboard = 5

type Dashboard struct {
	Welcome       string
	Counts        models.StatusCounts
	Latest        []Summary
	AssignedCount int
}

// Dashboard summarizes the actor's visible applications. The status counts,
// the latest applications and, for officials, the active assignment count
// are loaded concurrently.
func (s *Service) Dashboard(ctx context.Context, actor policy.Actor) (*Dashboard, error) {
	v, err := s.resolve(ctx, actor, policy.OpDashboardRead)
	if err != nil {
		return nil, err
	}
	out := &Dashboard{Welcome: s.welcome(ctx, actor, v)}

	var latest []*models.Application
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.store.CountByStatus(gctx, v.vis)
		if err != nil {
			return internal(err, "failed to count applications")
		}
		out.Counts = counts
		return nil
	})
	g.Go(func() error {
		apps, err := s.store.List(gctx, v.vis, models.Filter{Limit: latestOnDashboard, RecentlyUpdated: true})
		if err != nil {
			return internal(err, "failed to list applications")
		}
		latest = apps
		return nil
	})
	if v.official != nil && actor.Role == id.RoleOfficial {
		g.Go(func() error {
			active, err := s.store.ActiveAssignmentsFor(gctx, v.official.ID)
			if err != nil {
				return internal(err, "failed to count assignments")
			}
			out.AssignedCount = len(active)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.Latest = s.summaries(ctx, latest)
	return out, nil
}

func (s *Service) welcome(ctx context.Context, actor policy.Actor, v view) string {
	switch {
	case v.citizen != nil:
		return "Bienvenido, " + v.citizen.FirstName
	case v.official != nil:
		msg := "Bienvenido, " + v.official.FullName
		if d, err := s.catalog.GetDepartment(ctx, v.official.DepartmentID); err == nil {
			msg += " (" + d.Name + ")"
		}
		return msg
	case actor.Role == id.RoleAdministrator:
		return "Bienvenido, Administrador"
	}
	return "Bienvenido"
}

type Stats struct {
	TotalUsers          int
	TotalCitizens       int
	TotalOfficials      int
	CreatedToday        int
	Departments         int
	AverageResponseDays float64
	StatusDistribution  models.StatusCounts
}

// Stats gathers the administrator's portal-wide figures concurrently.
func (s *Service) Stats(ctx context.Context, actor policy.Actor) (*Stats, error) {
	if _, err := policy.Authorize(actor, policy.OpStatsRead); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	out := &Stats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		roles, err := s.users.CountActiveByRole(gctx)
		if err != nil {
			return err
		}
		for _, n := range roles {
			out.TotalUsers += n
		}
		out.TotalCitizens = roles[id.RoleCitizen]
		out.TotalOfficials = roles[id.RoleOfficial]
		return nil
	})
	g.Go(func() error {
		n, err := s.store.CountCreatedSince(gctx, today)
		if err != nil {
			return internal(err, "failed to count applications")
		}
		out.CreatedToday = n
		return nil
	})
	g.Go(func() error {
		n, err := s.catalog.CountDepartments(gctx)
		if err != nil {
			return err
		}
		out.Departments = n
		return nil
	})
	g.Go(func() error {
		days, err := s.store.AverageResponseDays(gctx)
		if err != nil {
			return internal(err, "failed to compute response time")
		}
		out.AverageResponseDays = days
		return nil
	})
	g.Go(func() error {
		counts, err := s.store.CountByStatus(gctx, models.Visibility{All: true})
		if err != nil {
			return internal(err, "failed to count applications")
		}
		out.StatusDistribution = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TrendPeriods are the windows, in days, accepted by Trends.
var TrendPeriods = []int{7, 30, 90}

const defaultTrendPeriod = 30

// Trends is one entry per UTC day of the window, oldest first, today last.
type Trends struct {
	Period int
	Days   []models.DayCounts
}

// Trends reports how many applications were created on each day of the last
// period days and how many of them are now approved or rejected. A zero
// period means 30.
func (s *Service) Trends(ctx context.Context, actor policy.Actor, period int) (*Trends, error) {
	if _, err := policy.Authorize(actor, policy.OpStatsRead); err != nil {
		return nil, err
	}
	if period == 0 {
		period = defaultTrendPeriod
	}
	if !slices.Contains(TrendPeriods, period) {
		return nil, dErrors.Field("period", "el periodo debe ser 7, 30 o 90 días")
	}
	today := requestcontext.Now(ctx).UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, 1-period)

	counted, err := s.store.CountCreatedByDay(ctx, start)
	if err != nil {
		return nil, internal(err, "failed to count applications by day")
	}
	byDay := make(map[string]models.DayCounts, len(counted))
	for _, c := range counted {
		byDay[c.Day.UTC().Format(time.DateOnly)] = c
	}
	out := &Trends{Period: period, Days: make([]models.DayCounts, 0, period)}
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		c, ok := byDay[day.Format(time.DateOnly)]
		if !ok {
			c = models.DayCounts{Day: day}
		}
		out.Days = append(out.Days, c)
	}
	return out, nil
}

// DepartmentLoad is the open workload of one department.
type DepartmentLoad struct {
	DepartmentID id.DepartmentID
	Name         string
	Pending      int
	InReview     int
}

const departmentLoadConcurrency = 4

// DepartmentLoads counts pending and in-review applications per department.
func (s *Service) DepartmentLoads(ctx context.Context, actor policy.Actor) ([]DepartmentLoad, error) {
	if _, err := policy.Authorize(actor, policy.OpStatsRead); err != nil {
		return nil, err
	}
	depts, err := s.catalog.ListDepartments(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := make([]DepartmentLoad, len(depts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(departmentLoadConcurrency)
	for i, d := range depts {
		g.Go(func() error {
			procs, progs, err := s.catalog.DepartmentOfferingIDs(gctx, d.ID)
			if err != nil {
				return err
			}
			counts, err := s.store.CountByStatus(gctx, models.Visibility{ProcedureIDs: procs, ProgramIDs: progs})
			if err != nil {
				return internal(err, "failed to count applications")
			}
			out[i] = DepartmentLoad{
				DepartmentID: d.ID,
				Name:         d.Name,
				Pending:      counts[id.StatusPending],
				InReview:     counts[id.StatusInReview],
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
