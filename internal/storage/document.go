package storage

import "time"

// DocumentVersion gates whether a persisted save is trusted. A save written
// with a different version is discarded wholesale on load; there is no
// migration path beyond the additive skill-key backfill in Load.
const DocumentVersion = 3

// DateLayout is the calendar-day key format used throughout the document.
const DateLayout = "2006-01-02"

// Document is the whole persisted state: one JSON document under one save key.
type Document struct {
	Version      int                         `json:"version"`
	Player       Player                      `json:"player"`
	Skills       map[string]SkillState       `json:"skills"`
	Completions  map[string]CompletionRecord `json:"completions"`
	Mastery      map[string]MasteryRecord    `json:"mastery"`
	Streak       StreakState                 `json:"streak"`
	Calendar     map[string]CalendarDay      `json:"calendar"`
	Palaces      map[string]PalaceState      `json:"palaces"`
	Achievements map[string]time.Time        `json:"achievements"`
	Daily        DailyState                  `json:"daily"`
	Exams        []ExamResult                `json:"exams"`
	Settings     Settings                    `json:"settings"`
}

type Player struct {
	Name    string `json:"name"`
	Level   int    `json:"level"`
	TotalXP int    `json:"total_xp"`
	Stats   Stats  `json:"stats"`
}

type Stats struct {
	Knowledge   int `json:"knowledge"`
	Proficiency int `json:"proficiency"`
	Guts        int `json:"guts"`
	Charm       int `json:"charm"`
	Kindness    int `json:"kindness"`
}

type SkillState struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

// CompletionRecord is write-once: the first completion of an exercise variant
// is authoritative and later submissions for the same key are no-ops.
type CompletionRecord struct {
	Grade       string    `json:"grade"`
	XPEarned    int       `json:"xp_earned"`
	HintsUsed   int       `json:"hints_used"`
	TimeSeconds float64   `json:"time_seconds"`
	Difficulty  int       `json:"difficulty"`
	SkillKey    string    `json:"skill_key,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// MasteryRecord accumulates across repeated attempts at the same variant,
// unlike CompletionRecord.
type MasteryRecord struct {
	XP          int    `json:"xp"`
	Completions int    `json:"completions"`
	BestGrade   string `json:"best_grade"`
}

type StreakState struct {
	Current        int    `json:"current"`
	Longest        int    `json:"longest"`
	LastActiveDate string `json:"last_active_date,omitempty"`
}

type CalendarDay struct {
	ExercisesCompleted int `json:"exercises_completed"`
	XPEarned           int `json:"xp_earned"`
}

type PalaceState struct {
	Unlocked bool    `json:"unlocked"`
	Defeated bool    `json:"defeated"`
	Progress float64 `json:"progress"`
}

type DailyState struct {
	Date       string               `json:"date,omitempty"`
	Challenges []DailyChallenge     `json:"challenges,omitempty"`
	Completed  map[string]time.Time `json:"completed,omitempty"`
	Today      TodayStats           `json:"today"`
}

type DailyChallenge struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Target   int    `json:"target"`
	Concept  string `json:"concept,omitempty"`
	XPReward int    `json:"xp_reward"`
}

// TodayStats resets in lockstep with daily-challenge regeneration.
type TodayStats struct {
	Completions int            `json:"completions"`
	SRanks      int            `json:"s_ranks"`
	NoHint      int            `json:"no_hint"`
	SpeedRuns   int            `json:"speed_runs"`
	Combo       int            `json:"combo"`
	MaxCombo    int            `json:"max_combo"`
	XPEarned    int            `json:"xp_earned"`
	ByConcept   map[string]int `json:"by_concept,omitempty"`
}

type ExamResult struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Score    int       `json:"score"`
	MaxScore int       `json:"max_score"`
	Grade    string    `json:"grade"`
	XPBonus  int       `json:"xp_bonus"`
	TakenAt  time.Time `json:"taken_at"`
}

type Settings struct {
	Name              string `json:"name"`
	TimeBudgetSeconds int    `json:"time_budget_seconds"`
}

// DefaultTimeBudgetSeconds is the per-exercise time budget used for grading
// until the player configures one.
const DefaultTimeBudgetSeconds = 45

// DefaultDocument builds a fresh save with every known skill present at
// level 1 with zero XP.
func DefaultDocument(skillKeys []string) *Document {
	skills := make(map[string]SkillState, len(skillKeys))
	for _, k := range skillKeys {
		skills[k] = SkillState{Level: 1, XP: 0}
	}
	return &Document{
		Version:      DocumentVersion,
		Player:       Player{Level: 1},
		Skills:       skills,
		Completions:  map[string]CompletionRecord{},
		Mastery:      map[string]MasteryRecord{},
		Calendar:     map[string]CalendarDay{},
		Palaces:      map[string]PalaceState{},
		Achievements: map[string]time.Time{},
		Daily:        DailyState{Completed: map[string]time.Time{}},
		Settings:     Settings{TimeBudgetSeconds: DefaultTimeBudgetSeconds},
	}
}
