// Package events is the typed in-process message bus between the progression
// engine and its listeners (CLI output, dashboard, future overlays). Dispatch
// is fire-and-forget: a listener can neither block nor fail the emitting call.
package events

type Kind string

const (
	KindGradeCalculated     Kind = "progress.grade_calculated"
	KindLevelUp             Kind = "progress.level_up"
	KindSkillLevelUp        Kind = "progress.skill_level_up"
	KindAchievementUnlocked Kind = "achievement.unlocked"
)

// Event is implemented by every payload carried on the bus.
type Event interface {
	Kind() Kind
}

// GradeCalculated is emitted once per applied completion.
type GradeCalculated struct {
	ExerciseKey string
	Grade       string
	XPEarned    int
	TotalXP     int
	Level       int
	// XPProgress is the XP banked toward the next player level.
	XPProgress int
}

func (GradeCalculated) Kind() Kind { return KindGradeCalculated }

// LevelUp carries the per-call stat increments that came with the level gain.
type LevelUp struct {
	NewLevel      int
	TotalXP       int
	StatIncreases map[string]int
}

func (LevelUp) Kind() Kind { return KindLevelUp }

type SkillLevelUp struct {
	SkillKey  string
	SkillName string
	NewLevel  int
}

func (SkillLevelUp) Kind() Kind { return KindSkillLevelUp }

type AchievementUnlocked struct {
	ID   string
	Name string
}

func (AchievementUnlocked) Kind() Kind { return KindAchievementUnlocked }
