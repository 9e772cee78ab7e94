/*
Copyright 2025 MilhasPix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package milhas

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/milhaspix/milhas/model"
	"github.com/milhaspix/milhas/store"
)

// FormSession is one announcer's pass through the four-step wizard. Steps 1-3
// collect data, step 4 is the terminal submitted screen. The step only moves
// forward through validated transitions; it moves backward freely until the
// announcement has been submitted.
//
// Every mutation snapshots the session to the store. Clear advances an epoch
// counter, and a snapshot write captured under an older epoch is discarded
// instead of resurrecting cleared data.
type FormSession struct {
	id    string
	store store.SnapshotStore

	mu          sync.Mutex
	values      model.FormValues
	currentStep int
	submitted   bool
	submitting  bool

	epoch   atomic.Int64
	watcher *RankingWatcher
}

// NewFormSession starts a fresh session at step 1.
func NewFormSession(id string, st store.SnapshotStore) *FormSession {
	return &FormSession{
		id:          id,
		store:       st,
		currentStep: model.StepProgram,
	}
}

// RestoreFormSession rebuilds a session from a persisted snapshot, seeding
// both the field values and the step the announcer had reached.
func RestoreFormSession(id string, st store.SnapshotStore, snap model.FormSnapshot) *FormSession {
	step := snap.CurrentStep
	if step < model.StepProgram || step > model.StepSubmitted {
		step = model.StepProgram
	}
	return &FormSession{
		id:          id,
		store:       st,
		values:      snap.FieldValues,
		currentStep: step,
		submitted:   snap.Submitted,
	}
}

func (s *FormSession) ID() string {
	return s.id
}

// SetRankingWatcher attaches the debounced competitive-ranking refresh that
// reacts to price changes.
func (s *FormSession) SetRankingWatcher(w *RankingWatcher) {
	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
}

func (s *FormSession) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStep
}

func (s *FormSession) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Values returns a copy of the field values. Pointer targets are not copied;
// callers must not write through them.
func (s *FormSession) Values() model.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

// UpdateFields merges a partial set of field values into the session and
// persists the snapshot. A price change kicks the ranking watcher.
func (s *FormSession) UpdateFields(ctx context.Context, partial model.FormValues) {
	s.mu.Lock()
	s.values.Merge(partial)
	watcher := s.watcher
	snap, epoch := s.snapshotLocked()
	s.mu.Unlock()

	if partial.ValuePerThousand != nil && watcher != nil {
		watcher.Observe(partial.ValuePerThousand.InexactFloat64())
	}
	s.flush(ctx, snap, epoch)
}

// Advance moves to the next step if the active step's schema validates
// against the current values. It reports whether the step moved; on an
// invalid step it leaves the session untouched and the caller surfaces the
// field errors from StepErrors.
func (s *FormSession) Advance(ctx context.Context) bool {
	s.mu.Lock()
	if s.submitted || s.currentStep >= model.TotalSteps {
		s.mu.Unlock()
		return false
	}
	if err := s.values.ValidateStep(s.currentStep); err != nil {
		s.mu.Unlock()
		return false
	}
	s.currentStep++
	snap, epoch := s.snapshotLocked()
	s.mu.Unlock()

	s.flush(ctx, snap, epoch)
	return true
}

// Retreat moves one step back. Going backward needs no re-validation, but is
// disallowed once the announcement has been submitted.
func (s *FormSession) Retreat(ctx context.Context) bool {
	s.mu.Lock()
	if s.submitted || s.currentStep <= model.StepProgram {
		s.mu.Unlock()
		return false
	}
	s.currentStep--
	snap, epoch := s.snapshotLocked()
	s.mu.Unlock()

	s.flush(ctx, snap, epoch)
	return true
}

// GoToStep jumps to an arbitrary step. Revisiting the current or a prior
// step is always allowed while not submitted; the next step is reachable
// only when the active step validates; skipping further ahead never is.
func (s *FormSession) GoToStep(ctx context.Context, step int) bool {
	if step < model.StepProgram || step > model.StepSubmitted {
		return false
	}

	s.mu.Lock()
	if s.submitted {
		s.mu.Unlock()
		return step == model.StepSubmitted
	}
	switch {
	case step <= s.currentStep:
		// revisiting is free
	case step == s.currentStep+1:
		if err := s.values.ValidateStep(s.currentStep); err != nil {
			s.mu.Unlock()
			return false
		}
	default:
		s.mu.Unlock()
		return false
	}
	if step == s.currentStep {
		s.mu.Unlock()
		return true
	}
	s.currentStep = step
	snap, epoch := s.snapshotLocked()
	s.mu.Unlock()

	s.flush(ctx, snap, epoch)
	return true
}

// Ranking returns the latest debounced competitive ranking for this
// session's price point, if a watcher is attached.
func (s *FormSession) Ranking() ([]model.RankingItem, error) {
	s.mu.Lock()
	watcher := s.watcher
	s.mu.Unlock()
	if watcher == nil {
		return nil, nil
	}
	return watcher.Latest()
}

// IsStepValid reports step validity the way the step indicator consumes it:
// steps already passed are presumed valid, the active and future steps are
// checked against their schemas.
func (s *FormSession) IsStepValid(step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if step < s.currentStep {
		return true
	}
	return s.values.ValidateStep(step) == nil
}

// StepErrors returns the field errors of one step's schema against the
// current values.
func (s *FormSession) StepErrors(step int) []model.FieldError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.FieldErrors(s.values.ValidateStep(step))
}

// Clear resets the session to an empty step-1 form and erases the persisted
// snapshot. Advancing the epoch invalidates any snapshot write still in
// flight, so cleared data cannot be resurrected by a late persist.
func (s *FormSession) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.epoch.Add(1)
	s.values = model.FormValues{}
	s.currentStep = model.StepProgram
	s.submitted = false
	s.mu.Unlock()

	return s.store.Delete(ctx, s.id)
}

// finalizeSubmission pins the session at the terminal step and wipes the
// sensitive fields (cpf, login, password, phone) from both the session and
// the persisted snapshot. The rest of the record is retained so the
// conclusion screen survives a reload.
func (s *FormSession) finalizeSubmission(ctx context.Context) {
	s.mu.Lock()
	s.submitted = true
	s.currentStep = model.StepSubmitted
	s.values.WipeSensitive()
	snap, epoch := s.snapshotLocked()
	s.mu.Unlock()

	s.flush(ctx, snap, epoch)
}

// beginSubmit guards against two submissions in flight for the same session.
func (s *FormSession) beginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting || s.submitted {
		return false
	}
	s.submitting = true
	return true
}

func (s *FormSession) endSubmit() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

// persist captures and writes the current snapshot.
func (s *FormSession) persist(ctx context.Context) {
	s.mu.Lock()
	snap, epoch := s.snapshotLocked()
	s.mu.Unlock()
	s.flush(ctx, snap, epoch)
}

// snapshotLocked captures the snapshot and the epoch it belongs to. Callers
// must hold s.mu.
func (s *FormSession) snapshotLocked() (model.FormSnapshot, int64) {
	return model.FormSnapshot{
		FieldValues: s.values,
		CurrentStep: s.currentStep,
		Submitted:   s.submitted,
		Timestamp:   time.Now().UTC(),
	}, s.epoch.Load()
}

// flush writes a captured snapshot unless a Clear has advanced the epoch
// since the snapshot was taken.
func (s *FormSession) flush(ctx context.Context, snap model.FormSnapshot, epoch int64) {
	if s.epoch.Load() != epoch {
		return
	}
	if err := s.store.Set(ctx, s.id, snap); err != nil {
		logrus.WithField("session_id", s.id).WithError(err).Error("failed to persist form snapshot")
	}
}
