package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/wfunc/blackjack/config"
	"github.com/wfunc/blackjack/console"
	"github.com/wfunc/blackjack/engine"
	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/monitor"
	"github.com/wfunc/blackjack/network"
	"github.com/wfunc/blackjack/session"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Acquire the local endpoint; failing here is fatal, the engine never starts.
	transport, err := network.NewUDPTransport(cfg.Player.ListenAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to bind %s: %v (is another player using this port?)", cfg.Player.ListenAddress, err)
	}

	playerID := uuid.New().String()
	nickname := cfg.Player.Nickname
	if nickname == "" {
		nickname = fmt.Sprintf("player-%s", playerID[:4])
	}

	sess := session.New(playerID, nickname, cfg.Player.InitialCapital)

	var mon *monitor.Monitor
	if cfg.Monitor.Enabled {
		mon = monitor.NewMonitor("blackjack_player")
		mon.SetCapital(cfg.Player.InitialCapital)
		mon.StartServer(cfg.Monitor.Address)
	}

	cons := console.New(nickname)
	cons.Infof("Player %s (%s) at the table with capital %d", nickname, playerID, cfg.Player.InitialCapital)
	cons.Infof("Listening on %s | croupier %s | card counter %s",
		transport.LocalAddr(), cfg.Peers.ArbiterAddress, cfg.Peers.AdvisorAddress)

	eng, err := engine.New(sess, transport, cons, mon, cfg.Peers.ArbiterAddress, cfg.Peers.AdvisorAddress, os.Stdin)
	if err != nil {
		logger.Log.Fatalf("Failed to start engine: %v", err)
	}

	if err := eng.Run(); err != nil {
		logger.Log.Fatalf("Engine terminated: %v", err)
	}
}
