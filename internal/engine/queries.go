package engine

import (
	"context"
	"sort"

	"mindpalace/internal/storage"
)

// Read accessors for the rendering layer. Each returns a snapshot of the
// persisted document; callers must not expect writes to them to stick.

func (s *Service) Profile(ctx context.Context) (*storage.Player, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	p := doc.Player
	return &p, nil
}

func (s *Service) Skill(ctx context.Context, key SkillKey) (*storage.SkillState, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	ss, ok := doc.Skills[string(key)]
	if !ok {
		ss = storage.SkillState{Level: 1}
	}
	return &ss, nil
}

func (s *Service) Skills(ctx context.Context) (map[SkillKey]storage.SkillState, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[SkillKey]storage.SkillState, len(doc.Skills))
	for k, v := range doc.Skills {
		out[SkillKey(k)] = v
	}
	return out, nil
}

// PersonaSnapshot is the derived flavor view of one skill: awakened once the
// skill has any completion, ranked by skill level.
type PersonaSnapshot struct {
	Skill    SkillKey
	Name     string
	Arcana   string
	Rank     int
	Awakened bool
}

func (s *Service) Personas(ctx context.Context) ([]PersonaSnapshot, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	awakened := map[string]bool{}
	for _, rec := range doc.Completions {
		if rec.SkillKey != "" {
			awakened[rec.SkillKey] = true
		}
	}

	out := make([]PersonaSnapshot, 0, len(skillDefs))
	for _, d := range skillDefs {
		ss := doc.Skills[string(d.Key)]
		out = append(out, PersonaSnapshot{
			Skill:    d.Key,
			Name:     d.Persona,
			Arcana:   d.Arcana,
			Rank:     ss.Level,
			Awakened: awakened[string(d.Key)],
		})
	}
	return out, nil
}

func (s *Service) Mastery(ctx context.Context) (map[string]storage.MasteryRecord, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]storage.MasteryRecord, len(doc.Mastery))
	for k, v := range doc.Mastery {
		out[k] = v
	}
	return out, nil
}

func (s *Service) Calendar(ctx context.Context) (map[string]storage.CalendarDay, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]storage.CalendarDay, len(doc.Calendar))
	for k, v := range doc.Calendar {
		out[k] = v
	}
	return out, nil
}

func (s *Service) Streak(ctx context.Context) (*storage.StreakState, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	st := doc.Streak
	return &st, nil
}

func (s *Service) Completions(ctx context.Context) (map[string]storage.CompletionRecord, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]storage.CompletionRecord, len(doc.Completions))
	for k, v := range doc.Completions {
		out[k] = v
	}
	return out, nil
}

func (s *Service) CompletionCount(ctx context.Context) (int, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(doc.Completions), nil
}

func (s *Service) Settings(ctx context.Context) (*storage.Settings, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	st := doc.Settings
	return &st, nil
}

// ExamResults returns recorded exams, most recent last.
func (s *Service) ExamResults(ctx context.Context) ([]storage.ExamResult, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]storage.ExamResult, len(doc.Exams))
	copy(out, doc.Exams)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TakenAt.Before(out[j].TakenAt) })
	return out, nil
}
