package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mindpalace/internal/events"
	"mindpalace/internal/storage"
)

// Service owns the progression state. All mutations go through it: load the
// document, apply the reducer functions, persist the whole document once,
// then emit result events on the bus.
type Service struct {
	store *storage.Store
	bus   *events.Bus

	now func() time.Time
}

func NewService(db *sql.DB, bus *events.Bus) *Service {
	return &Service{
		store: storage.NewStore(db, AllSkillKeys()),
		bus:   bus,
		now:   time.Now,
	}
}

func (s *Service) Store() *storage.Store { return s.store }

// publish is fire-and-forget; a nil bus means no listeners.
func (s *Service) publish(e events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(e)
}

func (s *Service) today() string {
	return s.now().UTC().Format(storage.DateLayout)
}

// UpdateSettings replaces the persisted settings. A non-positive time budget
// falls back to the default rather than being rejected.
func (s *Service) UpdateSettings(ctx context.Context, in storage.Settings) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.TimeBudgetSeconds <= 0 {
		in.TimeBudgetSeconds = storage.DefaultTimeBudgetSeconds
	}
	doc.Settings = in
	return s.store.Save(ctx, doc)
}

// GrantBonusXP awards XP outside the completion path (exams, jobs, study
// sessions). Level-ups increment the given stat; an empty stat falls back to
// the default.
func (s *Service) GrantBonusXP(ctx context.Context, amount int, stat Stat) error {
	if amount <= 0 {
		return nil
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	increases := map[string]int{}
	s.grantXP(doc, amount, stat, increases)
	if err := s.store.Save(ctx, doc); err != nil {
		return err
	}

	if len(increases) > 0 {
		s.publish(events.LevelUp{
			NewLevel:      doc.Player.Level,
			TotalXP:       doc.Player.TotalXP,
			StatIncreases: increases,
		})
	}
	return nil
}

// grantXP applies a player XP award with its level-driven stat increments,
// merging the increments into the caller's delta map. Returns levels gained.
func (s *Service) grantXP(doc *storage.Document, amount int, stat Stat, increases map[string]int) int {
	if stat == "" {
		stat = DefaultStat
	}
	gained := applyPlayerXP(&doc.Player, amount)
	for i := 0; i < gained; i++ {
		incStat(&doc.Player.Stats, stat)
		increases[string(stat)]++
	}
	return gained
}

func incStat(st *storage.Stats, stat Stat) {
	switch stat {
	case StatProficiency:
		st.Proficiency++
	case StatGuts:
		st.Guts++
	case StatCharm:
		st.Charm++
	case StatKindness:
		st.Kindness++
	default:
		st.Knowledge++
	}
}

// ExamInput describes one finished exam attempt.
type ExamInput struct {
	ID       string
	Title    string
	Score    int
	MaxScore int
}

// RecordExamResult grades an exam, stores it, and grants passing attempts a
// bonus equal to the score. Exams below half marks fail with an F and earn
// nothing; F exists only on this path, never in the completion grade cascade.
func (s *Service) RecordExamResult(ctx context.Context, in ExamInput) (*storage.ExamResult, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("exam id is required")
	}
	if in.MaxScore <= 0 {
		return nil, fmt.Errorf("exam max score must be positive")
	}
	if in.Score < 0 {
		in.Score = 0
	}
	if in.Score > in.MaxScore {
		in.Score = in.MaxScore
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	grade := examGrade(in.Score, in.MaxScore)
	bonus := 0
	increases := map[string]int{}
	if grade != GradeF {
		bonus = in.Score
		s.grantXP(doc, bonus, StatKnowledge, increases)
	}

	res := storage.ExamResult{
		ID:       in.ID,
		Title:    strings.TrimSpace(in.Title),
		Score:    in.Score,
		MaxScore: in.MaxScore,
		Grade:    string(grade),
		XPBonus:  bonus,
		TakenAt:  s.now().UTC(),
	}
	doc.Exams = append(doc.Exams, res)

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}

	if len(increases) > 0 {
		s.publish(events.LevelUp{
			NewLevel:      doc.Player.Level,
			TotalXP:       doc.Player.TotalXP,
			StatIncreases: increases,
		})
	}
	return &res, nil
}

func examGrade(score, maxScore int) Grade {
	ratio := float64(score) / float64(maxScore)
	switch {
	case ratio >= 0.9:
		return GradeS
	case ratio >= 0.8:
		return GradeA
	case ratio >= 0.65:
		return GradeB
	case ratio >= 0.5:
		return GradeC
	default:
		return GradeF
	}
}

// RecordBossDefeat marks a palace boss as defeated. The flag is owned by the
// combat-resolution collaborator; it is never derived from counts.
func (s *Service) RecordBossDefeat(ctx context.Context, palace PalaceKey) error {
	if _, ok := palaceIndex[palace]; !ok {
		return fmt.Errorf("unknown palace: %s", palace)
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	st := doc.Palaces[string(palace)]
	st.Defeated = true
	st.Unlocked = true
	doc.Palaces[string(palace)] = st

	return s.store.Save(ctx, doc)
}

// Reset wipes all progress and returns to a fresh save.
func (s *Service) Reset(ctx context.Context) error {
	_, err := s.store.Reset(ctx)
	return err
}
