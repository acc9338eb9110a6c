// README: Console demo; drives one booking conversation against live upstreams.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"ferrychat/internal/ai"
	"ferrychat/internal/config"
	"ferrychat/internal/modules/agentcfg"
	"ferrychat/internal/modules/aiusage"
	"ferrychat/internal/modules/availability"
	"ferrychat/internal/modules/catalog"
	"ferrychat/internal/modules/dialogue"
	"ferrychat/internal/modules/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	logger := zap.NewNop()

	provider, err := ai.NewGeminiProvider(ctx, cfg.Assistant.GeminiKey)
	if err != nil {
		log.Fatalf("assistant init: %v", err)
	}
	defer provider.Close()

	svc := dialogue.New(
		dialogue.NewManager(),
		catalog.NewService(catalog.NewClient(cfg.RoutesAPIURL), nil, 0, logger),
		availability.NewService(availability.NewClient(cfg.TripsAPIURL), logger),
		search.NewService(search.NewClient(cfg.TripsAPIURL), logger),
		agentcfg.NewService(cfg.ConfigAPIURL, logger),
		dialogue.NewFallback(provider, aiusage.NewService(nil), logger),
		logger,
	)

	snap, err := svc.StartSession(ctx, 1)
	if err != nil {
		log.Fatalf("start session: %v", err)
	}
	render(snap, 0)
	seen := len(snap.Turns)

	// Type a message, or "pick N" to take the Nth option of the last turn.
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		if opt, ok := pickedOption(line, snap); ok {
			snap, err = svc.SelectQuickReply(ctx, snap.ID, opt.Value, opt.Label)
		} else {
			snap, err = svc.SubmitText(ctx, snap.ID, line)
		}
		if err != nil {
			fmt.Println("!", err)
			continue
		}
		render(snap, seen)
		seen = len(snap.Turns)
	}
}

func pickedOption(line string, snap dialogue.Snapshot) (dialogue.QuickReply, bool) {
	var n int
	if _, err := fmt.Sscanf(line, "pick %d", &n); err != nil {
		return dialogue.QuickReply{}, false
	}
	if len(snap.Turns) == 0 {
		return dialogue.QuickReply{}, false
	}
	opts := snap.Turns[len(snap.Turns)-1].Options
	if n < 1 || n > len(opts) {
		return dialogue.QuickReply{}, false
	}
	return opts[n-1], true
}

func render(snap dialogue.Snapshot, from int) {
	for _, turn := range snap.Turns[from:] {
		who := snap.DisplayName
		if turn.Role == dialogue.RoleUser {
			who = "You"
		}
		fmt.Printf("%s: %s\n", who, turn.Content)
		for _, trip := range turn.Trips {
			fmt.Printf("   ⛴  %s %s→%s %s (%s) ₱%.2f, %d seats\n",
				trip.VesselName, trip.SrcPort, trip.DestPort,
				trip.DepartureTime, trip.Duration, trip.Price, trip.AvailableSeats)
		}
		for i, opt := range turn.Options {
			fmt.Printf("   [%d] %s\n", i+1, opt.Label)
		}
	}
}
