// Package sh provides the interactive trajectory shell.
package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/trackdrive/pkg/belief"
	"github.com/robotalks/trackdrive/pkg/trackd"
	"github.com/robotalks/trackdrive/pkg/transport/mqtt"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *trackd.Config
	Conn   *Conn
}

// Conn is a broker connection watching robot poses.
type Conn struct {
	Queue  *mqtt.Queue
	Board  *belief.Board
	Bridge *mqtt.Bridge
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "trajcli > "
	connectTimeout    = 5 * time.Second
)

// ErrNotConnected indicates a command requiring a broker connection.
var ErrNotConnected = errors.New("not connected")

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *trackd.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(ErrNotConnected)
			return
		}
		fn(c)
	}
}

// Print prints a result as JSON or using its String method.
func Print(c *ishell.Context, res fmt.Stringer) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(res)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(res.String())
}

// Connect connects the broker in the config, watching poses of all robots
// and bridging robot id.
func (s *Shell) Connect(robotID string) error {
	queue, err := mqtt.NewQueueFromURL(s.Config.MQTTBrokerURL)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := queue.Connect(ctx); err != nil {
		return fmt.Errorf("connect %s: %w", s.Config.MQTTBrokerURL, err)
	}
	conn := &Conn{Queue: queue, Board: belief.NewBoard()}
	conn.Bridge = &mqtt.Bridge{Queue: queue, RobotID: robotID, Board: conn.Board}
	conn.Bridge.Start()
	s.Disconnect()
	s.Conn = conn
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", robotID))
	return nil
}

// Disconnect disconnects the broker.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Bridge.Close()
		s.Conn.Queue.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Disconnect()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd connects the broker.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[ROBOT-ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			id := s.Config.RobotID
			if len(c.Args) > 0 {
				id = c.Args[0]
			}
			if err := s.Connect(id); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects the broker.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(trackd.NewConfig()).Run(flag.Args()...)
}
