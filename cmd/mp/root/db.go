package root

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"mindpalace/internal/engine"
	"mindpalace/internal/events"
	"mindpalace/internal/storage"
	"mindpalace/internal/ui"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// openService wires the engine to a bus with the standard CLI notifiers:
// level-ups, skill-ups, and achievement unlocks print to out as they happen.
func openService(ctx context.Context, out io.Writer) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}

	bus := events.NewBus(slog.Default())
	subscribeNotifiers(bus, out)
	return engine.NewService(db, bus), cleanup, nil
}

func subscribeNotifiers(bus *events.Bus, out io.Writer) {
	bus.Subscribe(events.KindLevelUp, func(env events.Envelope) {
		e, ok := env.Event.(events.LevelUp)
		if !ok {
			return
		}
		fmt.Fprintf(out, "%s %s You are now level %d!\n", ui.IconSparkle, ui.BadgeLevelUp, e.NewLevel)
		for stat, n := range e.StatIncreases {
			fmt.Fprintf(out, "  %s\n", ui.Muted.Render(fmt.Sprintf("%s +%d", stat, n)))
		}
	})

	bus.Subscribe(events.KindSkillLevelUp, func(env events.Envelope) {
		e, ok := env.Event.(events.SkillLevelUp)
		if !ok {
			return
		}
		fmt.Fprintf(out, "%s %s reached level %d\n", ui.IconBook, ui.H2.Render(e.SkillName), e.NewLevel)
	})

	bus.Subscribe(events.KindAchievementUnlocked, func(env events.Envelope) {
		e, ok := env.Event.(events.AchievementUnlocked)
		if !ok {
			return
		}
		fmt.Fprintf(out, "%s %s %s\n", ui.IconTrophy, ui.Gold.Render("Achievement unlocked:"), e.Name)
	})
}
