// Package sync drives the per-record pipeline: build a contact, compose its
// identity, match it against the existing vault, merge and write. Records are
// processed strictly in source order; the vault index is built exactly once
// before the loop, so two records resolving to the same new identity in one
// run create separate documents.
package sync

import (
	"context"
	"strings"
	"time"

	"github.com/Bricesodini/orch-csv/pkg/contacts"
	"github.com/Bricesodini/orch-csv/pkg/errors"
	"github.com/Bricesodini/orch-csv/pkg/frontmatter"
	"github.com/Bricesodini/orch-csv/pkg/identity"
	"github.com/Bricesodini/orch-csv/pkg/logging"
	"github.com/Bricesodini/orch-csv/pkg/mapping"
	"github.com/Bricesodini/orch-csv/pkg/merge"
	"github.com/Bricesodini/orch-csv/pkg/vault"
)

// Outcome is the per-record result of one pipeline pass.
type Outcome int

const (
	// Skipped means the record held no required field, or its identity
	// fallback said to drop it. No document was touched.
	Skipped Outcome = iota
	// Created means a new document was written.
	Created
	// Updated means an existing document was rewritten.
	Updated
	// Failed means a matched document could not be processed.
	Failed
)

// String returns the outcome tag.
func (o Outcome) String() string {
	switch o {
	case Created:
		return "CREATED"
	case Updated:
		return "UPDATED"
	case Failed:
		return "FAILED"
	default:
		return "SKIPPED"
	}
}

// Action describes what happened (or, in preview mode, would happen) for one
// record.
type Action struct {
	Outcome Outcome
	ID      string // composed identity, may be empty
	Target  string // document path, empty for skips
	Email   string // primary email, may be empty
}

// Result tallies a full run.
type Result struct {
	Created int
	Updated int
	Skipped int
	Failed  int
	Actions []Action
}

// Syncer runs the sync pipeline against one vault directory.
type Syncer struct {
	store    *vault.Store
	cfg      *mapping.Config
	policy   *merge.Policy
	project  string
	idKey    string
	composer *identity.Composer
	preview  bool
	now      func() time.Time
}

// Option configures a Syncer.
type Option func(*Syncer) error

// WithProject selects a per-project alias override profile.
func WithProject(project string) Option {
	return func(s *Syncer) error {
		s.project = project
		return nil
	}
}

// WithIDKey overrides the canonical field used as the unique identity key.
func WithIDKey(key string) Option {
	return func(s *Syncer) error {
		if key == "" {
			return errors.NewValidationError("id-key", key, "must not be empty")
		}
		s.idKey = key
		return nil
	}
}

// WithIdentity enables composed identities under the given prefix, pad width
// and fallback strategy.
func WithIdentity(prefix string, pad int, fallback identity.Fallback) Option {
	return func(s *Syncer) error {
		s.composer = &identity.Composer{Prefix: prefix, Pad: pad, Fallback: fallback}
		return nil
	}
}

// WithPreview enables preview mode: actions and target names are computed
// and reported, nothing is written.
func WithPreview(enabled bool) Option {
	return func(s *Syncer) error {
		s.preview = enabled
		return nil
	}
}

// WithClock overrides the time source for the update timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) error {
		s.now = now
		return nil
	}
}

// New creates a Syncer for a vault directory and mapping configuration.
func New(storeDir string, cfg *mapping.Config, opts ...Option) (*Syncer, error) {
	if cfg == nil {
		cfg = mapping.Default()
	}
	s := &Syncer{
		store:  vault.New(storeDir),
		cfg:    cfg,
		policy: merge.FromConfig(cfg),
		idKey:  mapping.FieldID,
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Run processes the records in order and returns the run tally. Per-record
// skips and read or write failures never abort the run; only an unreadable
// store or a canceled context does.
func (s *Syncer) Run(ctx context.Context, records []*mapping.Record) (*Result, error) {
	if !s.preview {
		if err := s.store.EnsureDir(); err != nil {
			return nil, err
		}
	}
	ix, err := s.store.BuildIndex(s.idKey)
	if err != nil {
		return nil, err
	}

	counter := identity.NewCounter()
	res := &Result{}
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		action := s.processRecord(record, ix, counter, i+1)
		res.Actions = append(res.Actions, action)
		switch action.Outcome {
		case Created:
			res.Created++
		case Updated:
			res.Updated++
		case Failed:
			res.Failed++
		default:
			res.Skipped++
		}
	}

	logging.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("Run complete")
	return res, nil
}

// processRecord runs one record through the full pipeline.
func (s *Syncer) processRecord(record *mapping.Record, ix *vault.Index, counter *identity.Counter, position int) Action {
	contact := contacts.Build(record, s.cfg, s.project)

	if !contact.HasAny(s.cfg.RequiredFields) {
		logging.Debug().Int("record", position).Msg("Skipped: no required field present")
		return Action{Outcome: Skipped}
	}

	if s.composer != nil {
		rawID := contact.Scalar(mapping.FieldID)
		composed, strategy, err := s.composer.Compose(rawID, record, counter)
		switch {
		case errors.IsSkip(err):
			logging.Debug().Int("record", position).Msg("Skipped: non-numeric source id under skip fallback")
			return Action{Outcome: Skipped}
		case err != nil:
			// raw fallback with an empty source id: the record keeps going
			// without a composed identity and can still match by email.
		default:
			contact.Set(mapping.FieldID, frontmatter.Scalar(composed))
			logging.Debug().
				Int("record", position).
				Str("id", composed).
				Str("strategy", strategy).
				Msg("Composed identity")
		}
	}

	uniqueID := strings.TrimSpace(contact.Scalar(s.idKey))
	email := contact.PrimaryEmail()
	incoming := contacts.Frontmatter(contact, s.cfg, s.now())

	if target, ok := ix.Match(uniqueID, email); ok {
		return s.update(target, incoming, uniqueID, email, position)
	}
	return s.create(contact, incoming, uniqueID, email, position)
}

// update merges incoming metadata into the matched document and rewrites it,
// carrying the body forward unchanged.
func (s *Syncer) update(target string, incoming *frontmatter.Fields, uniqueID, email string, position int) Action {
	existing, err := s.store.Read(target)
	if err != nil {
		if errors.IsNotFound(err) {
			logging.Error().Str("path", target).Msg("Matched note disappeared before update")
		} else {
			logging.Error().Err(err).Str("path", target).Msg("Cannot read matched note")
		}
		return Action{Outcome: Failed, ID: uniqueID, Target: target, Email: email}
	}

	merged, mres := s.policy.Merge(existing.Fields, incoming)
	if len(mres.Overwritten) > 0 {
		logging.Debug().Strs("keys", mres.Overwritten).Msg("Merge overwrote")
	}
	if len(mres.Preserved) > 0 {
		logging.Debug().Strs("keys", mres.Preserved).Msg("Merge preserved")
	}

	action := Action{Outcome: Updated, ID: uniqueID, Target: target, Email: email}
	if s.preview {
		return action
	}
	doc := &vault.Document{Path: target, Fields: merged, Body: existing.Body}
	if err := s.store.Write(doc); err != nil {
		logging.Error().Err(errors.NewSyncError(position, target, err)).Msg("Write failed")
	}
	return action
}

// create writes a new document under a derived, collision-free filename.
func (s *Syncer) create(contact *contacts.Contact, incoming *frontmatter.Fields, uniqueID, email string, position int) Action {
	base := vault.SanitizeFilename(contact.Title())
	target := s.store.UniquePath(base)

	action := Action{Outcome: Created, ID: uniqueID, Target: target, Email: email}
	if s.preview {
		return action
	}
	doc := &vault.Document{Path: target, Fields: incoming}
	if err := s.store.Write(doc); err != nil {
		logging.Error().Err(errors.NewSyncError(position, target, err)).Msg("Write failed")
	}
	return action
}
