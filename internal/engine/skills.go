package engine

import "strings"

// SkillKey identifies one course concept. The canonical set is fixed, but
// ResolveSkill can derive extra keys for concepts the table does not know;
// those are tracked like any other skill with a default category.
type SkillKey string

const (
	SkillVariables   SkillKey = "variables"
	SkillControlFlow SkillKey = "control-flow"
	SkillLoops       SkillKey = "loops"
	SkillFunctions   SkillKey = "functions"
	SkillArrays      SkillKey = "arrays"
	SkillSlices      SkillKey = "slices"
	SkillMaps        SkillKey = "maps"
	SkillStrings     SkillKey = "strings"
	SkillStructs     SkillKey = "structs"
	SkillMethods     SkillKey = "methods"
	SkillInterfaces  SkillKey = "interfaces"
	SkillPointers    SkillKey = "pointers"
	SkillErrors      SkillKey = "errors"
	SkillTesting     SkillKey = "testing"
	SkillPackages    SkillKey = "packages"
	SkillIO          SkillKey = "io"
	SkillClosures    SkillKey = "closures"
	SkillRecursion   SkillKey = "recursion"
	SkillGenerics    SkillKey = "generics"
	SkillJSON        SkillKey = "json"
	SkillGoroutines  SkillKey = "goroutines"
	SkillChannels    SkillKey = "channels"
)

// SkillNone marks a completion that carried no concept.
const SkillNone SkillKey = ""

type Stat string

const (
	StatKnowledge   Stat = "knowledge"
	StatProficiency Stat = "proficiency"
	StatGuts        Stat = "guts"
	StatCharm       Stat = "charm"
	StatKindness    Stat = "kindness"
)

// DefaultStat receives level-up increments for completions without a
// recognized skill category.
const DefaultStat = StatKnowledge

type SkillDef struct {
	Key     SkillKey
	Name    string
	Stat    Stat
	Palace  PalaceKey
	Persona string
	Arcana  string
}

var skillDefs = []SkillDef{
	{SkillVariables, "Variables", StatKnowledge, PalaceFoundations, "Scrivener", "Magician"},
	{SkillControlFlow, "Control Flow", StatKnowledge, PalaceFoundations, "Wayfinder", "Chariot"},
	{SkillLoops, "Loops", StatProficiency, PalaceFoundations, "Ouroboros", "Wheel of Fortune"},
	{SkillFunctions, "Functions", StatCharm, PalaceFoundations, "Conjurer", "Magician"},
	{SkillArrays, "Arrays", StatKindness, PalaceCollections, "Phalanx", "Emperor"},
	{SkillSlices, "Slices", StatProficiency, PalaceCollections, "Sever", "Death"},
	{SkillMaps, "Maps", StatKindness, PalaceCollections, "Cartograph", "Hermit"},
	{SkillStrings, "Strings", StatCharm, PalaceCollections, "Weaver", "Empress"},
	{SkillStructs, "Structs", StatKnowledge, PalaceStructures, "Mason", "Tower"},
	{SkillMethods, "Methods", StatProficiency, PalaceStructures, "Artisan", "Hierophant"},
	{SkillInterfaces, "Interfaces", StatCharm, PalaceStructures, "Mirage", "Moon"},
	{SkillPointers, "Pointers", StatGuts, PalaceStructures, "Lodestar", "Star"},
	{SkillErrors, "Error Handling", StatKindness, PalaceResilience, "Penitent", "Judgement"},
	{SkillTesting, "Testing", StatProficiency, PalaceResilience, "Inquisitor", "Justice"},
	{SkillPackages, "Packages", StatKnowledge, PalaceResilience, "Archivist", "Hierophant"},
	{SkillIO, "Input/Output", StatProficiency, PalaceResilience, "Ferryman", "Temperance"},
	{SkillClosures, "Closures", StatKindness, PalaceAbstraction, "Keeper", "Hermit"},
	{SkillRecursion, "Recursion", StatGuts, PalaceAbstraction, "Echo", "Hanged Man"},
	{SkillGenerics, "Generics", StatGuts, PalaceAbstraction, "Proteus", "World"},
	{SkillJSON, "JSON", StatKnowledge, PalaceAbstraction, "Envoy", "Lovers"},
	{SkillGoroutines, "Goroutines", StatGuts, PalaceConcurrency, "Legion", "Sun"},
	{SkillChannels, "Channels", StatGuts, PalaceConcurrency, "Conduit", "Priestess"},
}

var skillIndex = func() map[SkillKey]SkillDef {
	m := make(map[SkillKey]SkillDef, len(skillDefs))
	for _, d := range skillDefs {
		m[d.Key] = d
	}
	return m
}()

// SkillDefs returns the canonical skill definition table.
func SkillDefs() []SkillDef {
	out := make([]SkillDef, len(skillDefs))
	copy(out, skillDefs)
	return out
}

// AllSkillKeys returns the canonical keys as strings, for the store backfill.
func AllSkillKeys() []string {
	keys := make([]string, 0, len(skillDefs))
	for _, d := range skillDefs {
		keys = append(keys, string(d.Key))
	}
	return keys
}

func SkillName(key SkillKey) string {
	if d, ok := skillIndex[key]; ok {
		return d.Name
	}
	return string(key)
}

func StatForSkill(key SkillKey) Stat {
	if d, ok := skillIndex[key]; ok {
		return d.Stat
	}
	return DefaultStat
}

// conceptAliases maps free-text exercise concept labels to canonical keys.
var conceptAliases = map[string]SkillKey{
	"vars":                  SkillVariables,
	"variables & constants": SkillVariables,
	"if/else":               SkillControlFlow,
	"conditionals":          SkillControlFlow,
	"switch":                SkillControlFlow,
	"for loops":             SkillLoops,
	"iteration":             SkillLoops,
	"funcs":                 SkillFunctions,
	"hash maps":             SkillMaps,
	"dictionaries":          SkillMaps,
	"text":                  SkillStrings,
	"runes":                 SkillStrings,
	"receiver methods":      SkillMethods,
	"error handling":        SkillErrors,
	"errs":                  SkillErrors,
	"unit testing":          SkillTesting,
	"modules":               SkillPackages,
	"input/output":          SkillIO,
	"files":                 SkillIO,
	"anonymous functions":   SkillClosures,
	"type parameters":       SkillGenerics,
	"marshalling":           SkillJSON,
	"encoding":              SkillJSON,
	"concurrency":           SkillGoroutines,
	"go routines":           SkillGoroutines,
	"select":                SkillChannels,
}

// ResolveSkill maps a free-text concept label to a skill key. The lookup is
// total for non-empty input: aliases and canonical keys match directly, and
// anything else falls through to a normalization that lowercases the label
// and collapses runs of whitespace, slashes, and ampersands into hyphens.
// Only an empty label yields SkillNone.
func ResolveSkill(concept string) SkillKey {
	c := strings.ToLower(strings.TrimSpace(concept))
	if c == "" {
		return SkillNone
	}
	if key, ok := conceptAliases[c]; ok {
		return key
	}
	if _, ok := skillIndex[SkillKey(c)]; ok {
		return SkillKey(c)
	}
	return SkillKey(normalizeConcept(c))
}

func normalizeConcept(c string) string {
	fields := strings.FieldsFunc(c, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '/', '&':
			return true
		}
		return false
	})
	return strings.Join(fields, "-")
}

// KnownSkill reports whether key is part of the canonical concept set.
func KnownSkill(key SkillKey) bool {
	_, ok := skillIndex[key]
	return ok
}
