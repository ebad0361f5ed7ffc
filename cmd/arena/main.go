package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/anim"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/config"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/constants"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/logging"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/resolver"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/session"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/storage"

	"github.com/jonboulle/clockwork"
)

func main() {
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{"config_path": configPath})
	}

	db, err := storage.OpenAndMigrate(cfg.ArchivePath)
	if err != nil {
		logging.Fatal("Failed to initialize battle archive", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)
	client := resolver.NewClient(cfg.ResolverBaseURL, cfg.ResolverTimeout)

	ctx := context.Background()
	if summary, err := client.FetchSessionSummary(ctx, cfg.ParticipantID); err != nil {
		logging.Error("failed to fetch session summary", err, logging.Fields{constants.LogFieldParticipant: cfg.ParticipantID})
	} else {
		fmt.Printf("Record: %d wins / %d losses, %d battles remaining\n",
			summary.Wins, summary.Losses, summary.BattlesRemaining)
	}
	if tally, err := repo.GetTally(cfg.ParticipantID); err == nil {
		fmt.Printf("Local archive: %d wins / %d losses\n", tally.Wins, tally.Losses)
	}

	animator := anim.New(clockwork.NewRealClock(), consoleObserver{})
	ctrl := session.New(session.Options{
		ParticipantID: cfg.ParticipantID,
		Resolver:      client,
		Animator:      animator,
		Recorder:      repo,
		PollInterval:  cfg.PollInterval,
	})
	defer ctrl.Close()

	if err := ctrl.Refresh(ctx); err != nil {
		logging.Fatal("Failed to reach the resolver", err, nil)
	}

	reader := bufio.NewScanner(os.Stdin)
	for {
		st := ctrl.State()
		if st.Redirect || st.Session == nil {
			fmt.Println("No active battle. Goodbye.")
			return
		}
		render(st)
		if st.Session.Status == battle.StatusEnded {
			if err := ctrl.ExitEndedSession(ctx); err != nil {
				logging.Error("failed to exit ended session", err, nil)
			}
			fmt.Println("Battle concluded.")
			return
		}

		fmt.Print("move> ")
		if !reader.Scan() {
			return
		}
		move := strings.TrimSpace(reader.Text())
		switch move {
		case "":
			continue
		case "quit":
			return
		}
		if err := ctrl.SubmitAction(ctx, move); err != nil {
			fmt.Printf("  ! %v\n", err)
		}
	}
}

func render(st session.State) {
	s := st.Session
	fmt.Printf("\n[%s] moves left this round: %d\n", s.ID, s.MovesLeft)
	printCombatant("you", s.Challenger)
	printCombatant("foe", s.Accepter)
}

func printCombatant(label string, c battle.CombatantSnapshot) {
	fmt.Printf("  %-3s hp=%d shield=%d atk=%d def=%d spd=%d moves:", label,
		c.HealthPoints, c.Shield, c.Attack, c.Defense, c.Speed)
	for name, m := range c.Moves {
		fmt.Printf(" %s(x%d)", name, m.Count)
	}
	fmt.Println()
}

// consoleObserver narrates playback on stdout. Callbacks arrive strictly
// in sequence on the animator's goroutine.
type consoleObserver struct{}

func (consoleObserver) PhaseStarted(t battle.Turn, p anim.Phase) {
	fmt.Printf("  %s %s [%s]\n", t.Attacker, t.Move, p)
}

func (consoleObserver) TurnFinished(t battle.Turn) {
	switch {
	case t.Missed:
		fmt.Printf("  %s missed!\n", t.Attacker)
	case t.HealthDamage > 0 || t.ShieldDamage > 0:
		fmt.Printf("  %s hit for %d (shield %d)", t.Attacker, t.HealthDamage, t.ShieldDamage)
		if t.SuperEffective {
			fmt.Print(" - super effective")
		}
		if t.NotEffective {
			fmt.Print(" - not very effective")
		}
		fmt.Println()
	case t.StatsChanged != nil:
		fmt.Printf("  %s boosted (atk %+d def %+d spd %+d hp %+d)\n", t.Attacker,
			t.StatsChanged.Attack, t.StatsChanged.Defense, t.StatsChanged.Speed, t.StatsChanged.Health)
	}
}

func (consoleObserver) OverlayShown(o anim.Overlay)   { fmt.Printf("  === %s ===\n", o) }
func (consoleObserver) OverlayCleared(o anim.Overlay) {}
