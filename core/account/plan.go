package account

import (
	"context"
	"encoding/json"
	"fmt"

	"improved-initiative/core/store"
	"improved-initiative/core/utils"

	"go.uber.org/zap"
)

// LedgerNamespace is the store namespace that records what has been pushed.
const LedgerNamespace = "_account_sync"

// DefaultBatchSize is the number of items sent per batch request.
const DefaultBatchSize = 100

// Candidate is one locally-originated item that may need pushing.
type Candidate struct {
	ID           string
	LastUpdateMs int64
	// Load returns the full item to send.
	Load func(ctx context.Context) (any, error)
}

// Target groups the candidates of one item kind.
type Target struct {
	Slug       string
	Candidates []Candidate
}

// ActionType is the kind of planned account mutation.
type ActionType string

const (
	// ActionPush sends a local item to the account.
	ActionPush ActionType = "push"
)

// Action is one planned account mutation.
type Action struct {
	Type   ActionType `json:"type"`
	Slug   string     `json:"slug"`
	ID     string     `json:"id"`
	Reason string     `json:"reason"`

	candidate Candidate
}

// PlanSummary provides aggregate counts for a sync plan.
type PlanSummary struct {
	// Candidates is the number of local items considered.
	Candidates int `json:"candidates"`
	// AlreadySynced counts items whose current version was pushed before.
	AlreadySynced int `json:"already_synced"`
	// ToPush counts planned push actions.
	ToPush int `json:"to_push"`
	// Pushed counts items the account accepted.
	Pushed int `json:"pushed"`
	// Failed counts items whose batch was rejected or could not be loaded.
	Failed int `json:"failed"`
}

// Plan lists the pushes needed to bring the account up to date.
type Plan struct {
	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`
}

// Options controls plan application.
type Options struct {
	// DryRun prevents any request to the account.
	DryRun bool
	// Confirmed must be set for pushes to run.
	Confirmed bool
	// BatchSize defaults to DefaultBatchSize.
	BatchSize int
}

// Progress reports how far a sync has come for one kind.
type Progress struct {
	Slug  string `json:"slug"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
}

// BatchSaver is the part of the account client a Reconciler needs.
type BatchSaver interface {
	SaveBatch(ctx context.Context, slug string, items []any) error
}

// Reconciler pushes local items the account has not seen yet. What was
// pushed is recorded in a ledger so items are not sent twice.
type Reconciler struct {
	account BatchSaver
	ledger  store.Store
	log     *zap.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(account BatchSaver, ledger store.Store, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{account: account, ledger: ledger, log: log}
}

func ledgerKey(slug, id string) string {
	return slug + ":" + id
}

// synced loads the ledger as key -> pushed LastUpdateMs.
func (r *Reconciler) synced(ctx context.Context) (map[string]int64, error) {
	entries, err := r.ledger.LoadAll(ctx, LedgerNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync ledger: %w", err)
	}
	out := make(map[string]int64, len(entries))
	for _, raw := range entries {
		var e map[string]any
		if err := json.Unmarshal(raw, &e); err != nil {
			r.log.Warn("Skipping corrupt sync ledger entry", zap.Error(err))
			continue
		}
		out[utils.ToString(e["Id"])] = utils.ToInt64(e["LastUpdateMs"])
	}
	return out, nil
}

// BuildPlan compares targets with the ledger. It sends nothing.
func (r *Reconciler) BuildPlan(ctx context.Context, targets []Target) (*Plan, error) {
	synced, err := r.synced(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Actions: []Action{}}
	for _, t := range targets {
		for _, c := range t.Candidates {
			plan.Summary.Candidates++
			pushed, ok := synced[ledgerKey(t.Slug, c.ID)]
			if ok && pushed >= c.LastUpdateMs {
				plan.Summary.AlreadySynced++
				continue
			}
			reason := "never pushed"
			if ok {
				reason = fmt.Sprintf("local version %d newer than pushed %d", c.LastUpdateMs, pushed)
			}
			plan.Actions = append(plan.Actions, Action{
				Type:      ActionPush,
				Slug:      t.Slug,
				ID:        c.ID,
				Reason:    reason,
				candidate: c,
			})
			plan.Summary.ToPush++
		}
	}
	return plan, nil
}

// ApplyPlan pushes the planned items in batches and records each accepted
// batch in the ledger. It requires opts.Confirmed and !opts.DryRun. A failed
// batch is logged and counted; the remaining batches still run.
func (r *Reconciler) ApplyPlan(ctx context.Context, plan *Plan, opts Options, onProgress func(Progress)) (PlanSummary, error) {
	summary := plan.Summary
	if !opts.Confirmed || opts.DryRun {
		return summary, nil
	}
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	bySlug := make(map[string][]Action)
	var order []string
	for _, a := range plan.Actions {
		if _, ok := bySlug[a.Slug]; !ok {
			order = append(order, a.Slug)
		}
		bySlug[a.Slug] = append(bySlug[a.Slug], a)
	}

	for _, slug := range order {
		actions := bySlug[slug]
		done := 0
		for start := 0; start < len(actions); start += size {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			batch := actions[start:min(start+size, len(actions))]
			pushed, failed := r.pushBatch(ctx, slug, batch)
			summary.Pushed += pushed
			summary.Failed += failed
			done += len(batch)
			if onProgress != nil {
				onProgress(Progress{Slug: slug, Done: done, Total: len(actions)})
			}
		}
	}
	return summary, nil
}

func (r *Reconciler) pushBatch(ctx context.Context, slug string, batch []Action) (pushed, failed int) {
	items := make([]any, 0, len(batch))
	sent := make([]Action, 0, len(batch))
	for _, a := range batch {
		item, err := a.candidate.Load(ctx)
		if err != nil {
			r.log.Warn("Failed to load item for account sync", zap.String("kind", slug), zap.String("id", a.ID), zap.Error(err))
			failed++
			continue
		}
		items = append(items, item)
		sent = append(sent, a)
	}
	if len(items) == 0 {
		return 0, failed
	}

	if err := r.account.SaveBatch(ctx, slug, items); err != nil {
		r.log.Warn("Account rejected sync batch", zap.String("kind", slug), zap.Int("size", len(items)), zap.Error(err))
		return 0, failed + len(items)
	}

	for _, a := range sent {
		entry := map[string]any{"Id": ledgerKey(slug, a.ID), "LastUpdateMs": a.candidate.LastUpdateMs}
		if err := r.ledger.Save(ctx, LedgerNamespace, ledgerKey(slug, a.ID), entry); err != nil {
			// Without an entry the item is pushed again on the next sync.
			r.log.Warn("Failed to record account sync", zap.String("kind", slug), zap.String("id", a.ID), zap.Error(err))
		}
	}
	return len(sent), failed
}

// SaveAllUnsynced plans and applies a confirmed push of every unsynced item.
func (r *Reconciler) SaveAllUnsynced(ctx context.Context, targets []Target, batchSize int, onProgress func(Progress)) (PlanSummary, error) {
	plan, err := r.BuildPlan(ctx, targets)
	if err != nil {
		return PlanSummary{}, err
	}
	return r.ApplyPlan(ctx, plan, Options{Confirmed: true, BatchSize: batchSize}, onProgress)
}
