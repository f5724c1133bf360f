// Command simulate plays bots against each other and prints the game log.
// It exits non-zero if any action breaks card conservation.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"shanghai/internal/app"
	"shanghai/internal/bot"
	"shanghai/internal/domain"

	"github.com/fatih/color"
)

var (
	heading = color.New(color.FgHiCyan, color.Bold).SprintfFunc()
	redCard = color.New(color.FgHiRed).SprintFunc()
	inkCard = color.New(color.FgHiWhite).SprintFunc()
	joker   = color.New(color.FgHiMagenta).SprintFunc()
	muted   = color.New(color.FgHiBlack).SprintfFunc()
	good    = color.New(color.FgHiGreen).SprintfFunc()
	bad     = color.New(color.FgHiRed, color.Bold).SprintfFunc()
)

var errStalled = errors.New("game stalled")

type options struct {
	players  int
	seed     int64
	mode     domain.BuyMode
	maxSteps int
	quiet    bool
}

func main() {
	var opts options
	var mode string
	flag.IntVar(&opts.players, "players", 4, "number of bots, 2 to 6")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.StringVar(&mode, "mode", string(domain.BuySequential), "buy mode: sequential or simultaneous")
	flag.IntVar(&opts.maxSteps, "max-steps", 20000, "give up after this many commands")
	flag.BoolVar(&opts.quiet, "quiet", false, "only print round results")
	noColor := flag.Bool("no-color", false, "disable colour output")
	flag.Parse()

	opts.mode = domain.BuyMode(mode)
	if *noColor {
		color.NoColor = true
	}
	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, bad("simulation failed: %v", err))
		os.Exit(1)
	}
}

func run(out io.Writer, opts options) error {
	if opts.players < domain.MinPlayers || opts.players > domain.MaxPlayers {
		return fmt.Errorf("players must be between %d and %d", domain.MinPlayers, domain.MaxPlayers)
	}
	svc := app.NewService(rand.New(rand.NewSource(opts.seed)))

	agents := make(map[string]*bot.Agent, opts.players)
	parts := make([]app.Participant, opts.players)
	for i := 0; i < opts.players; i++ {
		id := fmt.Sprintf("bot-%d", i+1)
		level := bot.BotLevelGood
		if i%2 == 1 {
			level = bot.BotLevelEasy
		}
		brain, err := bot.NewBrain(level, id, rand.New(rand.NewSource(opts.seed+int64(i)+1)))
		if err != nil {
			return err
		}
		agents[id] = &bot.Agent{ID: id, Name: id, Strategy: brain}
		parts[i] = app.Participant{ID: id, Name: id}
	}

	fmt.Fprintln(out, heading("Shanghai simulation: %d bots, seed %d, %s buys", opts.players, opts.seed, opts.mode))
	game, events, err := svc.StartGame("SIM001", parts[0].ID, parts[0].ID, parts, domain.GameSettings{BuyMode: opts.mode})
	if err != nil {
		return err
	}
	deliver := func(events []app.Event) {
		for _, ev := range events {
			for _, a := range agents {
				a.OnGameEvent(ev)
			}
			logEvent(out, ev, opts.quiet)
		}
	}
	deliver(events)

	for step := 0; game.Phase != domain.PhaseFinished; step++ {
		if step >= opts.maxSteps {
			return fmt.Errorf("%w: no result after %d steps in round %d", errStalled, step, game.Round)
		}
		if game.Phase == domain.PhaseRoundEnd {
			events, err = svc.NextRound(game, parts[0].ID)
			if err != nil {
				return err
			}
			deliver(events)
			continue
		}

		actor := nextActor(game, agents, step)
		if actor == nil {
			return fmt.Errorf("round %d step %d: nobody can act", game.Round, step)
		}
		act, err := actor.Act(game)
		if err != nil || act.Kind == bot.ActionWait {
			act = bot.Fallback(game, actor.ID)
		}
		events, err = bot.Execute(svc, game, actor.ID, act)
		if err != nil {
			return fmt.Errorf("round %d: %s %s rejected: %w", game.Round, actor.ID, act.Kind, err)
		}
		deliver(events)

		if game.Phase == domain.PhasePlaying {
			if n := game.CardCount(); n != domain.TotalCards {
				return fmt.Errorf("round %d: card count %d after %s %s, want %d", game.Round, n, actor.ID, act.Kind, domain.TotalCards)
			}
		}
	}
	fmt.Fprintln(out, good("Game complete."))
	return nil
}

func nextActor(game *domain.GameState, agents map[string]*bot.Agent, step int) *bot.Agent {
	for _, a := range agents {
		if d := game.Dealer(); d != nil && d.ID == a.ID && game.RoundConfig.DealersChoice && game.DealersChoice == "" {
			return a
		}
	}
	actors := app.Actors(game)
	if len(actors) == 0 {
		return nil
	}
	return agents[actors[step%len(actors)]]
}

func logEvent(out io.Writer, ev app.Event, quiet bool) {
	switch p := ev.Payload.(type) {
	case app.RoundEndedPayload:
		fmt.Fprintln(out, heading("Round %d won by %s", p.Round, p.WinnerID))
		for _, s := range p.Scores {
			fmt.Fprintf(out, "  %-8s %4d  total %4d\n", s.PlayerID, s.RoundScore, s.TotalScore)
		}
	case app.GameEndedPayload:
		fmt.Fprintln(out, heading("Final standings"))
		for _, s := range p.FinalScores {
			fmt.Fprintf(out, "  %d. %-8s %4d\n", s.Position, s.PlayerID, s.TotalScore)
		}
	}
	if quiet {
		return
	}

	switch p := ev.Payload.(type) {
	case app.NextRoundStartingPayload:
		fmt.Fprintln(out, heading("Round %d, dealer %s", p.Round, p.DealerID))
	case app.BuyPhaseStartedPayload:
		fmt.Fprintf(out, "  buy window on %s, %s asked first\n", paint(p.Card), p.FirstRefusalID)
	case app.DiscardTakenPayload:
		fmt.Fprintf(out, "  %s takes %s\n", p.PlayerID, paint(p.Card))
	case app.BuyCompletedPayload:
		fmt.Fprintf(out, "  %s buys %s plus %d (buy %d)\n", p.BuyerID, paint(p.Card), p.ExtraCards, p.BuysUsed)
	case app.BuyPhaseEndedPayload:
		fmt.Fprintln(out, muted("  buy window closed: %s %s", p.Reason, p.BuyerID))
	case app.CardDrawnPayload:
		if p.FromDeck {
			fmt.Fprintln(out, muted("  %s draws from the deck", p.PlayerID))
		} else if p.Card != nil {
			fmt.Fprintf(out, "  %s takes %s\n", p.PlayerID, paint(*p.Card))
		}
	case app.ContractPlacedPayload:
		groups := make([]string, len(p.Groups))
		for i, g := range p.Groups {
			groups[i] = paintAll(g)
		}
		fmt.Fprintln(out, good("  %s goes down:", p.PlayerID), strings.Join(groups, " | "))
	case app.CardAddedToMeldPayload:
		fmt.Fprintf(out, "  %s lays %s on %s's meld %d\n", p.PlayerID, paint(p.Card), p.TargetPlayerID, p.MeldIndex)
	case app.CardDiscardedPayload:
		fmt.Fprintf(out, "  %s discards %s\n", p.PlayerID, paint(p.Card))
	case app.DealersChoiceSetPayload:
		fmt.Fprintf(out, "  %s picks %s\n", p.DealerID, p.Choice)
	}
}

func paint(c domain.Card) string {
	switch {
	case c.IsJoker():
		return joker(c.String())
	case c.Suit == domain.SuitHearts || c.Suit == domain.SuitDiamonds:
		return redCard(c.String())
	default:
		return inkCard(c.String())
	}
}

func paintAll(cards []domain.Card) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = paint(c)
	}
	return strings.Join(out, " ")
}
