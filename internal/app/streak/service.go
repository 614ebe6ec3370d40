package streak

import (
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/reward"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/app/season"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/infra/metrics"
)

// comebackGapDays is the minimum presence absence that counts as a
// "comeback" for seasonal COMEBACK rules.
const comebackGapDays = 3

// saveRetries bounds the optimistic-concurrency retry loop.
const saveRetries = 3

// Service records activity events: it advances the affected streak tracks
// under optimistic concurrency, then fans out to the milestone,
// consistency, and seasonal evaluators. Evaluator and ledger failures are
// logged and swallowed — the triggering activity always succeeds once the
// streak state is saved.
type Service struct {
	db          domain.StreakStore
	milestones  *reward.MilestoneEvaluator
	consistency *reward.ConsistencyEvaluator
	seasons     *season.Engine
	clock       domain.Clock
	log         *logrus.Entry
}

// NewService creates the activity-recording service.
func NewService(db domain.StreakStore, milestones *reward.MilestoneEvaluator, consistency *reward.ConsistencyEvaluator, seasons *season.Engine, clock domain.Clock) *Service {
	return &Service{
		db:          db,
		milestones:  milestones,
		consistency: consistency,
		seasons:     seasons,
		clock:       clock,
		log:         logrus.WithField("component", "streak"),
	}
}

// outcome captures what a saved state transition changed, for the
// evaluator fan-out that runs after the save commits.
type outcome struct {
	state          domain.UserStreakState
	advancedTracks []domain.StreakType
	newActiveDay   bool
	comeback       bool
	balancedDay    bool
}

// RecordActivity ingests one activity event dated on the user's local
// calendar day. A zero date is rejected — the engine never defaults to
// server UTC for streak correctness.
func (s *Service) RecordActivity(act domain.Activity) error {
	if act.UserID == "" {
		metrics.ActivitiesRejected.Inc()
		return domain.ErrMissingUserID
	}
	if !act.Type.Valid() {
		metrics.ActivitiesRejected.Inc()
		return fmt.Errorf("%w: %q", domain.ErrUnknownActivity, act.Type)
	}
	if act.Date.IsZero() {
		metrics.ActivitiesRejected.Inc()
		return domain.ErrInvalidDate
	}

	var out outcome
	op := func() error {
		var err error
		out, err = s.applyOnce(act)
		if errors.Is(err, domain.ErrStaleState) {
			metrics.StateConflicts.Inc()
			return err // retryable
		}
		return backoff.Permanent(err)
	}
	// The read-modify-write on a user's streak row is not safe under
	// concurrent execution; re-run the whole transition on a version
	// conflict instead of surfacing it.
	if err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), saveRetries)); err != nil {
		return err
	}

	metrics.ActivitiesRecorded.WithLabelValues(string(act.Type)).Inc()
	s.evaluate(act, out)
	return nil
}

// Status returns a user's streak state, or a zero-valued record when the
// user has no activity yet — never a not-found error.
func (s *Service) Status(userID string) (domain.UserStreakState, error) {
	state, err := s.db.GetStreakState(userID)
	if err != nil {
		return domain.UserStreakState{}, fmt.Errorf("get streak state: %w", err)
	}
	if state == nil {
		return domain.UserStreakState{UserID: userID}, nil
	}
	return *state, nil
}

// applyOnce performs one read-modify-write attempt of the streak record.
func (s *Service) applyOnce(act domain.Activity) (outcome, error) {
	stored, err := s.db.GetStreakState(act.UserID)
	if err != nil {
		return outcome{}, fmt.Errorf("get streak state: %w", err)
	}

	state := domain.UserStreakState{UserID: act.UserID}
	var expectedVersion int64
	if stored != nil {
		state = *stored
		expectedVersion = stored.Version
	}

	out := outcome{}
	now := s.clock.Now()

	switch act.Type {
	case domain.ActivityPresenceOpen:
		prev := state.Presence
		newDay := !prev.ActiveOn(act.Date)
		next, graceConsumed := Advance(prev, act.Date, state.GraceUsedAt, true, now)
		if graceConsumed {
			state.GraceUsedAt = now
			metrics.GraceConsumed.Inc()
		}
		if s.applyTrack(&state, domain.StreakPresence, prev, next, &out) && newDay {
			state.TotalActiveDays++
			out.newActiveDay = true
			if !prev.LastActiveDate.IsZero() && domain.DaysBetween(prev.LastActiveDate, act.Date) >= comebackGapDays {
				out.comeback = true
			}
		}

	case domain.ActivityMessageSent:
		// Only positive messages drive the kindness track.
		if act.Sentiment != domain.SentimentPositive {
			break
		}
		prev := state.Kindness
		next, _ := Advance(prev, act.Date, state.GraceUsedAt, false, now)
		s.applyTrack(&state, domain.StreakKindness, prev, next, &out)

	case domain.ActivityEchoBackSent:
		prev := state.Response
		next, _ := Advance(prev, act.Date, state.GraceUsedAt, false, now)
		s.applyTrack(&state, domain.StreakResponse, prev, next, &out)
	}

	// A balanced day: all three tracks active on the same calendar day.
	if len(out.advancedTracks) > 0 &&
		state.Presence.ActiveOn(act.Date) &&
		state.Kindness.ActiveOn(act.Date) &&
		state.Response.ActiveOn(act.Date) {
		out.balancedDay = true
	}

	if err := s.db.SaveStreakState(state, expectedVersion); err != nil {
		return outcome{}, err
	}
	out.state = state
	return out, nil
}

// applyTrack stores an advanced track back on the state and records the
// transition in the outcome and metrics. Returns true if the track moved.
func (s *Service) applyTrack(state *domain.UserStreakState, st domain.StreakType, prev, next domain.StreakTrack, out *outcome) bool {
	if next == prev {
		return false
	}
	*state.Track(st) = next
	out.advancedTracks = append(out.advancedTracks, st)

	label := string(st)
	switch {
	case next.Count > prev.Count:
		metrics.StreaksExtended.WithLabelValues(label).Inc()
	case prev.Count > 1:
		metrics.StreaksBroken.WithLabelValues(label).Inc()
		s.log.WithFields(logrus.Fields{
			"user":  state.UserID,
			"track": st,
			"was":   prev.Count,
		}).Debug("streak broken")
	}
	return true
}

// evaluate fans out to the reward evaluators after a committed update.
// Failures here never fail the activity call: the primary user action
// already succeeded.
func (s *Service) evaluate(act domain.Activity, out outcome) {
	for _, st := range out.advancedTracks {
		track := out.state.Track(st)
		if err := s.milestones.CheckAndAward(act.UserID, st, track.Count); err != nil {
			s.swallow("milestone", act.UserID, err)
		}
	}

	if out.newActiveDay {
		if err := s.consistency.CheckAndAward(act.UserID, out.state.TotalActiveDays); err != nil {
			s.swallow("consistency", act.UserID, err)
		}
	}

	for _, ev := range s.seasonEvents(act, out) {
		if err := s.seasons.Evaluate(act.UserID, ev, act.Date, act.RelatedID); err != nil {
			s.swallow("season", act.UserID, err)
		}
	}
}

// seasonEvents maps a recorded activity to the seasonal rule events it
// raises.
func (s *Service) seasonEvents(act domain.Activity, out outcome) []domain.SeasonRuleType {
	var events []domain.SeasonRuleType
	switch act.Type {
	case domain.ActivityMessageSent:
		if act.Sentiment == domain.SentimentPositive {
			events = append(events, domain.RuleSendPositive)
		}
	case domain.ActivityEchoBackSent:
		events = append(events, domain.RuleRespond)
	}
	if out.comeback {
		events = append(events, domain.RuleComeback)
	}
	if out.balancedDay {
		events = append(events, domain.RuleBalancedDay)
	}
	return events
}

// swallow logs a non-fatal reward evaluation failure.
func (s *Service) swallow(evaluator, userID string, err error) {
	metrics.EvaluatorFailures.WithLabelValues(evaluator).Inc()
	s.log.WithError(err).WithFields(logrus.Fields{
		"user":      userID,
		"evaluator": evaluator,
	}).Warn("reward evaluation failed")
}
