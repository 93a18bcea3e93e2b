package libraries

import (
	"context"
	"fmt"
	"sync"
	"time"

	"improved-initiative/core/account"
	"improved-initiative/core/catalog"
	"improved-initiative/core/library"
	"improved-initiative/core/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SyncStatus is the outcome of one bootstrap step.
type SyncStatus string

const (
	StatusSkipped SyncStatus = "skipped"
	StatusOK      SyncStatus = "ok"
	StatusFailed  SyncStatus = "failed"
)

// SyncState summarizes the bootstrap of one kind.
type SyncState struct {
	Kind     string     `json:"kind"`
	Server   SyncStatus `json:"server"`
	Local    SyncStatus `json:"local"`
	Account  SyncStatus `json:"account"`
	Listings int        `json:"listings"`
	Loaded   struct {
		Server  int `json:"server"`
		Local   int `json:"local"`
		Account int `json:"account"`
	} `json:"loaded"`
	Errors []string `json:"errors,omitempty"`
}

// Report is the result of one Bootstrap run.
type Report struct {
	StartedAt  time.Time            `json:"startedAt"`
	FinishedAt time.Time            `json:"finishedAt"`
	Kinds      []SyncState          `json:"kinds"`
	Unsynced   *account.PlanSummary `json:"unsynced,omitempty"`
	Progress   []account.Progress   `json:"progress,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Kind returns the state of slug.
func (r Report) Kind(slug string) (SyncState, bool) {
	for _, s := range r.Kinds {
		if s.Kind == slug {
			return s, true
		}
	}
	return SyncState{}, false
}

// Bootstrap fills the libraries from the catalog, local storage and the
// account, then pushes local items the account has not seen yet.
type Bootstrap struct {
	libs       *Libraries
	store      store.Store
	catalog    catalog.Source
	account    *account.Client
	reconciler *account.Reconciler
	batchSize  int
	log        *zap.Logger

	mu   sync.RWMutex
	last *Report
}

// NewBootstrap creates a Bootstrap from the same deps the libraries use.
func NewBootstrap(libs *Libraries, deps Deps, batchSize int) *Bootstrap {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	b := &Bootstrap{
		libs:      libs,
		store:     deps.Store,
		catalog:   deps.Catalog,
		account:   deps.Account,
		batchSize: batchSize,
		log:       deps.Logger.Named("bootstrap"),
	}
	if deps.Account != nil {
		b.reconciler = account.NewReconciler(deps.Account, deps.Store, b.log)
	}
	return b
}

// Last returns the report of the most recent run, or nil before the first.
func (b *Bootstrap) Last() *Report {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last
}

// Run loads every kind. Catalog, local and account loads run concurrently;
// the account push starts once every local load has finished. Failures are
// recorded in the report and never abort the other steps.
func (b *Bootstrap) Run(ctx context.Context) *Report {
	collections := b.libs.Collections()
	states := make([]SyncState, len(collections))
	var mu sync.Mutex
	record := func(i int, fn func(s *SyncState)) {
		mu.Lock()
		defer mu.Unlock()
		fn(&states[i])
	}

	report := &Report{StartedAt: time.Now()}
	var remote, local errgroup.Group

	for i, c := range collections {
		kc := c.Kind()
		states[i] = SyncState{Kind: kc.Slug, Server: StatusSkipped, Local: StatusSkipped, Account: StatusSkipped}

		if kc.HasCatalog() && b.catalog != nil {
			remote.Go(func() error {
				metas, err := b.catalog.FetchCatalog(ctx, kc.CatalogPath)
				if err != nil {
					b.log.Warn("Failed to fetch catalog", zap.String("kind", kc.Slug), zap.Error(err))
					record(i, func(s *SyncState) { s.fail(&s.Server, err) })
					return nil
				}
				c.AddListings(metas, library.SourceServer)
				record(i, func(s *SyncState) { s.Server, s.Loaded.Server = StatusOK, len(metas) })
				return nil
			})
		}

		if b.store != nil {
			local.Go(func() error {
				res, err := c.LoadLocal(ctx, b.store)
				if err != nil {
					b.log.Warn("Failed to load local items", zap.String("kind", kc.Slug), zap.Error(err))
					record(i, func(s *SyncState) { s.fail(&s.Local, err) })
					return nil
				}
				record(i, func(s *SyncState) {
					s.Local, s.Loaded.Local = StatusOK, res.Loaded
					if res.Skipped > 0 {
						s.Errors = append(s.Errors, fmt.Sprintf("skipped %d undecodable stored items", res.Skipped))
					}
				})
				return nil
			})
		}

		if b.account != nil {
			remote.Go(func() error {
				metas, err := b.account.Listings(ctx, kc.Slug)
				if err != nil {
					b.log.Warn("Failed to fetch account listings", zap.String("kind", kc.Slug), zap.Error(err))
					record(i, func(s *SyncState) { s.fail(&s.Account, err) })
					return nil
				}
				for j := range metas {
					if metas[j].Link == "" {
						metas[j].Link = kc.AccountPath()
					}
				}
				c.AddListings(metas, library.SourceAccount)
				record(i, func(s *SyncState) { s.Account, s.Loaded.Account = StatusOK, len(metas) })
				return nil
			})
		}
	}

	_ = local.Wait()
	if b.reconciler != nil {
		targets := make([]account.Target, 0, len(collections))
		for _, c := range collections {
			targets = append(targets, c.AccountTarget())
		}
		summary, err := b.reconciler.SaveAllUnsynced(ctx, targets, b.batchSize, func(p account.Progress) {
			b.log.Info("Account sync progress", zap.String("kind", p.Slug), zap.Int("done", p.Done), zap.Int("total", p.Total))
			mu.Lock()
			report.Progress = append(report.Progress, p)
			mu.Unlock()
		})
		if err != nil {
			b.log.Warn("Account sync failed", zap.Error(err))
			report.Error = err.Error()
		} else {
			report.Unsynced = &summary
		}
	}
	_ = remote.Wait()

	for i, c := range collections {
		states[i].Listings = len(c.Listings())
	}
	report.Kinds = states
	report.FinishedAt = time.Now()

	b.log.Info("Library bootstrap finished", zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)))

	b.mu.Lock()
	b.last = report
	b.mu.Unlock()
	return report
}

func (s *SyncState) fail(status *SyncStatus, err error) {
	*status = StatusFailed
	s.Errors = append(s.Errors, err.Error())
}
