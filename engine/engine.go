// engine/engine.go
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wfunc/blackjack/actions"
	"github.com/wfunc/blackjack/console"
	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/monitor"
	"github.com/wfunc/blackjack/network"
	"github.com/wfunc/blackjack/session"
	"github.com/wfunc/blackjack/state"
)

// readPollTimeout bounds the receiver's blocking read so shutdown stays
// responsive.
const readPollTimeout = 1 * time.Second

// Engine runs the two concurrent tasks of the player process: a receiver
// draining inbound datagrams through the router, and a command loop
// feeding operator input to the dispatcher. The session is the only
// shared state and both sides reach it through its mutex.
type Engine struct {
	sess        *session.Session
	transport   network.Transport
	router      *state.Router
	dispatcher  *actions.Dispatcher
	console     *console.Console
	mon         *monitor.Monitor
	arbiterAddr *net.UDPAddr
	advisorAddr *net.UDPAddr
	input       io.Reader

	shutdownChan chan struct{}
	wg           sync.WaitGroup
}

func New(sess *session.Session, transport network.Transport, cons *console.Console,
	mon *monitor.Monitor, arbiterAddr, advisorAddr string, input io.Reader) (*Engine, error) {

	arbiter, err := net.ResolveUDPAddr("udp", arbiterAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve arbiter address: %w", err)
	}
	advisor, err := net.ResolveUDPAddr("udp", advisorAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve advisor address: %w", err)
	}

	e := &Engine{
		sess:         sess,
		transport:    transport,
		console:      cons,
		mon:          mon,
		arbiterAddr:  arbiter,
		advisorAddr:  advisor,
		input:        input,
		shutdownChan: make(chan struct{}),
	}
	e.router = state.NewRouter(sess, transport.LocalAddr(), cons)
	e.dispatcher = actions.NewDispatcher(sess, e, transport.LocalAddr())
	return e, nil
}

// Run starts the receiver and blocks in the command loop until the
// operator quits or input ends, then tears the receiver down.
func (e *Engine) Run() error {
	e.wg.Add(1)
	go e.receiveLoop()

	e.commandLoop()

	close(e.shutdownChan)
	e.transport.Close()
	e.wg.Wait()
	return nil
}

// --- actions.Sender ---

func (e *Engine) SendToArbiter(msgType string, payload interface{}) error {
	return e.send(e.arbiterAddr, msgType, payload)
}

func (e *Engine) SendToAdvisor(msgType string, payload interface{}) error {
	return e.send(e.advisorAddr, msgType, payload)
}

func (e *Engine) send(addr *net.UDPAddr, msgType string, payload interface{}) error {
	if err := e.transport.Send(addr, msgType, payload); err != nil {
		return err
	}
	if e.mon != nil {
		e.mon.IncDatagramsSent()
	}
	logger.Log.Debugf("-> %s to %s", msgType, addr)
	return nil
}

// --- receiver task ---

func (e *Engine) receiveLoop() {
	defer e.wg.Done()

	for {
		select {
		case <-e.shutdownChan:
			return
		default:
		}

		data, addr, err := e.transport.Read(readPollTimeout)
		if err != nil {
			if network.IsTimeout(err) {
				continue
			}
			if network.IsClosed(err) {
				return
			}
			logger.Log.Warnf("Receive error: %v", err)
			continue
		}
		if e.mon != nil {
			e.mon.IncDatagramsReceived()
		}

		env, err := network.Decode(data)
		if err != nil {
			if e.mon != nil {
				e.mon.IncDecodeFailures()
			}
			logger.Log.Warnf("Dropping datagram from %s: %v", addr, err)
			continue
		}
		logger.Log.Debugf("<- %s from %s", env.Type, addr)

		for _, out := range e.router.Apply(env) {
			e.dispatch(out)
		}

		if e.mon != nil {
			if env.Type == network.MsgTypeGameResult {
				e.mon.IncRoundsSettled()
			}
			e.mon.SetCapital(e.sess.Snapshot().Capital)
		}
	}
}

// dispatch sends a router-produced message. Fire and forget: a send
// failure is logged and the message dropped, never retried.
func (e *Engine) dispatch(out state.Outbound) {
	var err error
	switch out.Dest {
	case state.DestAdvisor:
		err = e.SendToAdvisor(out.Type, out.Payload)
	default:
		err = e.SendToArbiter(out.Type, out.Payload)
	}
	if err != nil {
		logger.Log.Warnf("Failed to send %s: %v", out.Type, err)
	}
}

// --- command task ---

func (e *Engine) commandLoop() {
	e.console.Help()
	scanner := bufio.NewScanner(e.input)

	for {
		e.console.Prompt(e.sess.Snapshot())
		if !scanner.Scan() {
			logger.Log.Info("Input closed, shutting down")
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if quit := e.handleCommand(line); quit {
			return
		}
	}
}

// handleCommand executes one operator command and reports whether the
// loop should stop. All validation failures surface here and the loop
// simply re-prompts.
func (e *Engine) handleCommand(line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "quit", "q", "exit":
		e.console.Infof("Leaving the table. Final capital: %d", e.sess.Snapshot().Capital)
		return true

	case "stats":
		if err := e.dispatcher.RequestStatistics(); err != nil {
			e.console.Error(fmt.Errorf("statistics request failed: %w", err))
		}

	case "bet":
		if len(fields) != 2 {
			e.console.Error(errors.New("usage: bet <amount>"))
			return false
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil {
			e.console.Error(fmt.Errorf("invalid bet amount %q", fields[1]))
			return false
		}
		if err := e.dispatcher.PlaceBet(amount); err != nil {
			e.console.Error(err)
			return false
		}
		e.console.Infof("Bet of %d placed, waiting for the round to start", amount)

	case "auto":
		action, err := e.dispatcher.ExecuteRecommendation()
		if err != nil {
			e.console.Error(err)
			return false
		}
		e.console.Infof("Played recommended action %s", action)

	default:
		action, err := actions.ParseAction(cmd)
		if err != nil {
			e.console.Error(fmt.Errorf("unknown command %q", cmd))
			return false
		}
		if err := e.dispatcher.SendTurnAction(action); err != nil {
			e.console.Error(err)
			return false
		}
		e.console.Infof("Sent %s", action)
	}
	return false
}
