package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"mindpalace/internal/storage"
)

const dailyChallengeCount = 3

// challengeTemplate describes one generatable challenge kind. Target is
// rolled in [minTarget, maxTarget]; the reward scales with the target.
type challengeTemplate struct {
	kind         string
	name         string
	minTarget    int
	maxTarget    int
	rewardPerHit int
	perConcept   bool
}

var challengeTemplates = []challengeTemplate{
	{kind: "complete", name: "Clear %d exercises", minTarget: 2, maxTarget: 5, rewardPerHit: 15},
	{kind: "xp", name: "Earn %d XP", minTarget: 100, maxTarget: 300, rewardPerHit: 0},
	{kind: "srank", name: "Earn %d S ranks", minTarget: 1, maxTarget: 3, rewardPerHit: 40},
	{kind: "nohint", name: "Clear %d exercises without hints", minTarget: 1, maxTarget: 3, rewardPerHit: 30},
	{kind: "speedrun", name: "Beat the clock %d times", minTarget: 1, maxTarget: 3, rewardPerHit: 25},
	{kind: "concept", name: "Clear %d %s exercises", minTarget: 1, maxTarget: 2, rewardPerHit: 35, perConcept: true},
}

// GenerateDailyChallenges derives the challenge set for a calendar date.
// Pure function of the date string: the seed is an fnv hash of it, so the
// same date always yields the same set.
func GenerateDailyChallenges(date string) []storage.DailyChallenge {
	h := fnv.New64a()
	_, _ = h.Write([]byte(date))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	picked := rng.Perm(len(challengeTemplates))[:dailyChallengeCount]
	out := make([]storage.DailyChallenge, 0, dailyChallengeCount)
	for i, ti := range picked {
		tpl := challengeTemplates[ti]
		target := tpl.minTarget + rng.Intn(tpl.maxTarget-tpl.minTarget+1)

		ch := storage.DailyChallenge{
			ID:     fmt.Sprintf("%s_%s_%d", date, tpl.kind, i),
			Kind:   tpl.kind,
			Target: target,
		}
		switch {
		case tpl.perConcept:
			def := skillDefs[rng.Intn(len(skillDefs))]
			ch.Concept = string(def.Key)
			ch.Name = fmt.Sprintf(tpl.name, target, def.Name)
			ch.XPReward = target * tpl.rewardPerHit
		case tpl.kind == "xp":
			ch.Name = fmt.Sprintf(tpl.name, target)
			ch.XPReward = target / 2
		default:
			ch.Name = fmt.Sprintf(tpl.name, target)
			ch.XPReward = target * tpl.rewardPerHit
		}
		out = append(out, ch)
	}
	return out
}

// ensureDaily regenerates the challenge set and resets the today-stats
// accumulator, in lockstep, the first time the document is touched on a new
// calendar day. Unfinished previous-day challenges are discarded.
func ensureDaily(doc *storage.Document, today string) {
	if doc.Daily.Date == today {
		return
	}
	doc.Daily = storage.DailyState{
		Date:       today,
		Challenges: GenerateDailyChallenges(today),
		Completed:  map[string]time.Time{},
		Today:      storage.TodayStats{ByConcept: map[string]int{}},
	}
}

// applyDailyProgress folds one completion into the today-stats accumulator,
// then checks challenges; newly met ones are recorded and their reward XP is
// granted through the same level-up path as everything else.
func (s *Service) applyDailyProgress(doc *storage.Document, sig CompletionSignal, grade Grade, xp int, budget float64, today string, increases map[string]int) []storage.DailyChallenge {
	ensureDaily(doc, today)

	t := &doc.Daily.Today
	if t.ByConcept == nil {
		t.ByConcept = map[string]int{}
	}
	t.Completions++
	t.XPEarned += xp
	if grade == GradeS {
		t.SRanks++
	}
	if sig.HintsUsed == 0 {
		t.NoHint++
		t.Combo++
		if t.Combo > t.MaxCombo {
			t.MaxCombo = t.Combo
		}
	} else {
		t.Combo = 0
	}
	if sig.TimeSpent <= budget {
		t.SpeedRuns++
	}
	if key := ResolveSkill(sig.Concept); key != SkillNone {
		t.ByConcept[string(key)]++
	}

	var completed []storage.DailyChallenge
	for _, ch := range doc.Daily.Challenges {
		if _, done := doc.Daily.Completed[ch.ID]; done {
			continue
		}
		if !challengeMet(ch, t) {
			continue
		}
		doc.Daily.Completed[ch.ID] = s.now().UTC()
		s.grantXP(doc, ch.XPReward, DefaultStat, increases)
		completed = append(completed, ch)
	}
	return completed
}

func challengeMet(ch storage.DailyChallenge, t *storage.TodayStats) bool {
	switch ch.Kind {
	case "complete":
		return t.Completions >= ch.Target
	case "xp":
		return t.XPEarned >= ch.Target
	case "srank":
		return t.SRanks >= ch.Target
	case "nohint":
		return t.NoHint >= ch.Target
	case "speedrun":
		return t.SpeedRuns >= ch.Target
	case "concept":
		return t.ByConcept[ch.Concept] >= ch.Target
	default:
		return false
	}
}

type DailySnapshot struct {
	Date       string
	Challenges []storage.DailyChallenge
	Completed  map[string]time.Time
	Today      storage.TodayStats
}

// DailyChallenges returns today's challenge set, regenerating it (and
// resetting the today accumulator) on first access of a new day.
func (s *Service) DailyChallenges(ctx context.Context) (*DailySnapshot, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	if doc.Daily.Date != today {
		ensureDaily(doc, today)
		if err := s.store.Save(ctx, doc); err != nil {
			return nil, err
		}
	}

	return &DailySnapshot{
		Date:       doc.Daily.Date,
		Challenges: doc.Daily.Challenges,
		Completed:  doc.Daily.Completed,
		Today:      doc.Daily.Today,
	}, nil
}
