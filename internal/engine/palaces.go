package engine

import (
	"context"

	"mindpalace/internal/storage"
)

// PalaceKey identifies one territory: a themed grouping of skills with
// aggregate progress and a terminal boss flag.
type PalaceKey string

const (
	PalaceFoundations PalaceKey = "foundations"
	PalaceCollections PalaceKey = "collections"
	PalaceStructures  PalaceKey = "structures"
	PalaceResilience  PalaceKey = "resilience"
	PalaceAbstraction PalaceKey = "abstraction"
	PalaceConcurrency PalaceKey = "concurrency"
)

type PalaceDef struct {
	Key    PalaceKey
	Name   string
	Ruler  string
	Skills []SkillKey

	// EstimatedExercises is the denominator for progress: completions whose
	// skill falls in this palace's concept set, over this estimate.
	EstimatedExercises int

	// Objective thresholds.
	ObjectiveExercises  int
	ObjectiveSkillLevel int
	ObjectiveSRanks     int
}

var palaceDefs = []PalaceDef{
	{
		Key: PalaceFoundations, Name: "Castle of Foundations", Ruler: "The Gatekeeper",
		Skills:             []SkillKey{SkillVariables, SkillControlFlow, SkillLoops, SkillFunctions},
		EstimatedExercises: 24, ObjectiveExercises: 12, ObjectiveSkillLevel: 5, ObjectiveSRanks: 4,
	},
	{
		Key: PalaceCollections, Name: "Vault of Collections", Ruler: "The Hoarder",
		Skills:             []SkillKey{SkillArrays, SkillSlices, SkillMaps, SkillStrings},
		EstimatedExercises: 28, ObjectiveExercises: 14, ObjectiveSkillLevel: 6, ObjectiveSRanks: 5,
	},
	{
		Key: PalaceStructures, Name: "Tower of Structures", Ruler: "The Architect",
		Skills:             []SkillKey{SkillStructs, SkillMethods, SkillInterfaces, SkillPointers},
		EstimatedExercises: 26, ObjectiveExercises: 13, ObjectiveSkillLevel: 6, ObjectiveSRanks: 5,
	},
	{
		Key: PalaceResilience, Name: "Bastion of Resilience", Ruler: "The Warden",
		Skills:             []SkillKey{SkillErrors, SkillTesting, SkillPackages, SkillIO},
		EstimatedExercises: 22, ObjectiveExercises: 11, ObjectiveSkillLevel: 5, ObjectiveSRanks: 4,
	},
	{
		Key: PalaceAbstraction, Name: "Gallery of Abstraction", Ruler: "The Curator",
		Skills:             []SkillKey{SkillClosures, SkillRecursion, SkillGenerics, SkillJSON},
		EstimatedExercises: 20, ObjectiveExercises: 10, ObjectiveSkillLevel: 7, ObjectiveSRanks: 4,
	},
	{
		Key: PalaceConcurrency, Name: "Engine of Concurrency", Ruler: "The Conductor",
		Skills:             []SkillKey{SkillGoroutines, SkillChannels},
		EstimatedExercises: 14, ObjectiveExercises: 7, ObjectiveSkillLevel: 8, ObjectiveSRanks: 3,
	},
}

var palaceIndex = func() map[PalaceKey]PalaceDef {
	m := make(map[PalaceKey]PalaceDef, len(palaceDefs))
	for _, d := range palaceDefs {
		m[d.Key] = d
	}
	return m
}()

func PalaceDefs() []PalaceDef {
	out := make([]PalaceDef, len(palaceDefs))
	copy(out, palaceDefs)
	return out
}

type PalaceObjective struct {
	Kind     string
	Label    string
	Target   int
	Current  int
	Complete bool
}

type PalaceSnapshot struct {
	Key      PalaceKey
	Name     string
	Ruler    string
	Unlocked bool
	Defeated bool
	Progress float64

	Objectives []PalaceObjective
}

// palaceCounts scans the full completion set for one palace's concept set.
// No incremental counters are kept anywhere; every caller recomputes.
func palaceCounts(def PalaceDef, completions map[string]storage.CompletionRecord) (completed, sRanks int) {
	in := make(map[SkillKey]bool, len(def.Skills))
	for _, sk := range def.Skills {
		in[sk] = true
	}
	for _, rec := range completions {
		if !in[SkillKey(rec.SkillKey)] {
			continue
		}
		completed++
		if rec.Grade == string(GradeS) {
			sRanks++
		}
	}
	return completed, sRanks
}

func palaceProgress(def PalaceDef, completions map[string]storage.CompletionRecord) float64 {
	completed, _ := palaceCounts(def, completions)
	if def.EstimatedExercises <= 0 {
		return 0
	}
	p := float64(completed) / float64(def.EstimatedExercises)
	if p > 1 {
		p = 1
	}
	return p
}

// recomputePalaces rebuilds every palace state from the full completion set.
// Unlocked is monotone (first completion in the set unlocks, and an unlock is
// never revoked); Defeated belongs to the combat collaborator and is carried
// through untouched.
func recomputePalaces(doc *storage.Document) {
	for _, def := range palaceDefs {
		st := doc.Palaces[string(def.Key)]
		st.Progress = palaceProgress(def, doc.Completions)
		if st.Progress > 0 {
			st.Unlocked = true
		}
		doc.Palaces[string(def.Key)] = st
	}
}

// Palaces returns live snapshots with objective status, recomputed from the
// document on every call.
func (s *Service) Palaces(ctx context.Context) ([]PalaceSnapshot, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	recomputePalaces(doc)

	snaps := make([]PalaceSnapshot, 0, len(palaceDefs))
	for _, def := range palaceDefs {
		st := doc.Palaces[string(def.Key)]
		completed, sRanks := palaceCounts(def, doc.Completions)

		bestSkill := 0
		for _, sk := range def.Skills {
			if ss, ok := doc.Skills[string(sk)]; ok && ss.Level > bestSkill {
				bestSkill = ss.Level
			}
		}

		snaps = append(snaps, PalaceSnapshot{
			Key:      def.Key,
			Name:     def.Name,
			Ruler:    def.Ruler,
			Unlocked: st.Unlocked,
			Defeated: st.Defeated,
			Progress: st.Progress,
			Objectives: []PalaceObjective{
				{
					Kind: "exercises", Label: "Clear exercises",
					Target: def.ObjectiveExercises, Current: completed,
					Complete: completed >= def.ObjectiveExercises,
				},
				{
					Kind: "skill_level", Label: "Raise a skill",
					Target: def.ObjectiveSkillLevel, Current: bestSkill,
					Complete: bestSkill >= def.ObjectiveSkillLevel,
				},
				{
					Kind: "s_ranks", Label: "Earn S ranks",
					Target: def.ObjectiveSRanks, Current: sRanks,
					Complete: sRanks >= def.ObjectiveSRanks,
				},
				{
					Kind: "boss", Label: "Defeat " + def.Ruler,
					Target: 1, Current: boolToInt(st.Defeated),
					Complete: st.Defeated,
				},
			},
		})
	}
	return snaps, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
