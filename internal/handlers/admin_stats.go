package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"folio/internal/models"
)

// recentActivityLimit is the number of activity entries on the dashboard.
const recentActivityLimit = 10

// Stats is the admin dashboard summary.
type Stats struct {
	Articles       int                    `json:"articles"`
	Categories     int                    `json:"categories"`
	Comments       int                    `json:"comments"`
	Subscribers    int                    `json:"subscribers"`
	RecentActivity []models.ActivityEntry `json:"recent_activity"`
}

// Stats returns entity counts and recent activity. The five reads run
// concurrently; the first failure cancels the rest.
func (a *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	var stats Stats
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() (err error) {
		stats.Articles, err = a.articles.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Categories, err = a.categories.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Comments, err = a.comments.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Subscribers, err = a.subscribers.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentActivity, err = a.activity.Recent(ctx, recentActivityLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		serverError(w, r, "load stats failed", err)
		return
	}
	stats.RecentActivity = nonNil(stats.RecentActivity)
	writeJSON(w, http.StatusOK, stats)
}
