// Package sh provides the ground station shell.
package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/icarus.go/pkg/ground"
	"github.com/robotalks/icarus.go/pkg/relay/msgs"
	"github.com/robotalks/icarus.go/pkg/wire"
)

// Config is the connection config of the shell.
type Config struct {
	URL     string
	Framing string
}

var defaultConfig = Config{
	Framing: "cobs",
}

func init() {
	if val := os.Getenv("ICARUS_LINK"); val != "" {
		defaultConfig.URL = val
	}
	if val := os.Getenv("ICARUS_FRAMING"); val != "" {
		defaultConfig.Framing = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.URL, "link", defaultConfig.URL, "Flight core link URL to connect on start.")
	flag.StringVar(&defaultConfig.Framing, "framing", defaultConfig.Framing, "Frame encoding: cobs or header.")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *Config
	Conn   *Conn
}

// Conn is a running link.
type Conn struct {
	URL    string
	Link   *ground.Link
	Cancel func()
	Done   <-chan struct{}
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// ErrNotConnected indicates a command requiring a link.
var ErrNotConnected = errors.New("not connected")

var (
	evalOnly   bool
	outputJSON bool

	// MonitorIdleTimeout stops monitor and record when nothing arrives.
	MonitorIdleTimeout = 5 * time.Second

	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&LedCmd,
		&ThrottleCmd,
		&MonitorCmd,
		&RecordCmd,
		&RecordAttitudeCmd,
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
func New(conf *Config) *Shell {
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

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the link at url, replacing the current one.
func (s *Shell) Connect(url string) error {
	ctx, cancel := context.WithCancel(context.Background())
	link, err := ground.Dial(ctx, url, s.Config.Framing)
	if err != nil {
		cancel()
		return err
	}
	s.Disconnect()
	done := make(chan struct{})
	s.Conn = &Conn{URL: url, Link: link, Cancel: cancel, Done: done}
	go func() {
		defer close(done)
		if err := link.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("link %s stopped: %v", url, err)
		}
		link.Close()
	}()
	s.setPrompt(fmt.Sprintf("[%s] > ", url))
	return nil
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

// Disconnect disconnects the current link.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		<-s.Conn.Done
		s.Conn = nil
		s.setPrompt(unconnectedPrompt)
	}
}

// Send sends a command over the current link.
func (s *Shell) Send(msg wire.Message) error {
	if s.Conn == nil {
		return ErrNotConnected
	}
	return s.Conn.Link.Send(msg)
}

// Format renders msg for output.
func (s *Shell) Format(msg wire.Message) string {
	if !s.OutputJSON {
		return ground.Format(msg)
	}
	m, err := msgs.FromWire(msg)
	if err != nil {
		return ground.Format(msg)
	}
	out, err := json.Marshal(map[string]interface{}{"type": msg.Tag().String(), "msg": m})
	if err != nil {
		return ground.Format(msg)
	}
	return string(out)
}

// Watch calls fn with received messages until fn returns false or no
// message arrives within MonitorIdleTimeout.
func (s *Shell) Watch(fn func(wire.Message) bool) error {
	if s.Conn == nil {
		return ErrNotConnected
	}
	ch := make(chan wire.Message, 16)
	unsub := s.Conn.Link.Subscribe(func(msg wire.Message) {
		select {
		case ch <- msg:
		default:
		}
	})
	defer unsub()
	for {
		select {
		case msg := <-ch:
			if !fn(msg) {
				return nil
			}
		case <-s.Conn.Done:
			return fmt.Errorf("link closed")
		case <-time.After(MonitorIdleTimeout):
			return context.DeadlineExceeded
		}
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.URL != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.URL)
		}
		if err := s.Connect(s.Config.URL); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.URL, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		s.Disconnect()
		return
	}
	if s.Interactive {
		s.Shell.Run()
		s.Disconnect()
		return
	}
	log.Fatalln("command expected")
}

func countArg(c *ishell.Context, index, def int) (int, error) {
	if len(c.Args) <= index {
		return def, nil
	}
	n, err := strconv.Atoi(c.Args[index])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid count %q", c.Args[index])
	}
	return n, nil
}

var (
	// ConnectCmd connects a flight core.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "URL, e.g. serial:///dev/ttyUSB0?baud=115200 or tcp://host:7777",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			url := s.Config.URL
			if len(c.Args) > 0 {
				url = c.Args[0]
			}
			if url == "" {
				c.Err(fmt.Errorf("URL required"))
				return
			}
			if err := s.Connect(url); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current link.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// MonitorCmd prints received telemetry.
	MonitorCmd = ishell.Cmd{
		Name:    "monitor",
		Aliases: []string{"m"},
		Help:    "[N] print N messages, default 10",
		Func: MustBeConnected(func(c *ishell.Context) {
			n, err := countArg(c, 0, 10)
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			err = s.Watch(func(msg wire.Message) bool {
				c.Println(s.Format(msg))
				n--
				return n > 0
			})
			if err != nil {
				c.Err(err)
			}
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
