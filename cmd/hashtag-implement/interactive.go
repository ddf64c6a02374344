package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/hashtag-agritech/hashtag-go/pkg/config"
	"github.com/hashtag-agritech/hashtag-go/pkg/ddi"
	"github.com/hashtag-agritech/hashtag-go/pkg/ddop"
	"github.com/hashtag-agritech/hashtag-go/pkg/implement"
	"github.com/hashtag-agritech/hashtag-go/pkg/nmea"
)

// console handles interactive mode for hashtag-implement. Section
// switch writes go through the console, matching the single-writer
// rule for the switch array.
type console struct {
	logger   *zap.Logger
	sim      *implement.SectionControlSimulator
	state    *implement.State
	dispatch *implement.Dispatch
	pool     *ddop.Pool
	handler  *nmea.Handler
	cfg      *config.Config
	rl       *readline.Instance
}

func newConsole(
	logger *zap.Logger,
	sim *implement.SectionControlSimulator,
	state *implement.State,
	dispatch *implement.Dispatch,
	pool *ddop.Pool,
	handler *nmea.Handler,
	cfg *config.Config,
) *console {
	return &console{
		logger:   logger,
		sim:      sim,
		state:    state,
		dispatch: dispatch,
		pool:     pool,
		handler:  handler,
		cfg:      cfg,
	}
}

// Run starts the interactive command loop.
func (c *console) Run(ctx context.Context, cancel context.CancelFunc) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "implement> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		c.logger.Warn("console unavailable", zap.Error(err))
		return
	}
	c.rl = rl
	defer rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "status":
			c.cmdStatus()

		case "sections", "s":
			c.cmdSections()

		case "switch", "sw":
			c.cmdSwitch(args)

		case "mode", "m":
			c.cmdMode(args)

		case "rate":
			c.cmdRate(args)

		case "work":
			c.cmdWork(args)

		case "read", "r":
			c.cmdRead(args)

		case "write", "w":
			c.cmdWrite(args)

		case "feed":
			c.cmdFeed(args)

		case "last":
			c.cmdLast()

		case "export":
			c.cmdExport(args)

		case "quit", "exit", "q":
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Implement Commands:
  Sections:
    sections             - Show per-section setpoint, switch and actual state
    switch <i> on|off    - Set the local switch for section i (1-based)
    mode auto|manual     - Select who drives the sections
    rate <mm3/m2>        - Set the target application rate
    work on|off          - Set the master work state

  Process Data:
    read <elem> <ddi>    - Resolve a process variable read
    write <elem> <ddi> <val> - Apply a process variable write

  Positioning Feed:
    feed <sentence>      - Inject a raw positioning sentence
    last                 - Show the last accepted sentence

  General:
    status               - Show implement status
    export [path]        - Write the descriptor as ISOXML task data
    help                 - Show this help
    quit                 - Exit`)
}

func (c *console) cmdStatus() {
	out := c.rl.Stdout()

	mode := "manual"
	if c.sim.IsAutoMode() {
		mode = "auto"
	}
	work := "off"
	if c.sim.ActualWorkState() == 1 {
		work = "on"
	}

	fmt.Fprintln(out, "\nImplement Status")
	fmt.Fprintln(out, "-------------------------------------------")
	fmt.Fprintf(out, "  Designator:     %s\n", c.cfg.Designator)
	fmt.Fprintf(out, "  Serial:         %s\n", c.cfg.SerialNumber)
	fmt.Fprintf(out, "  Sections:       %d (%d on)\n", c.sim.NumberOfSections(), c.sim.ActualSectionsOn())
	fmt.Fprintf(out, "  Mode:           %s\n", mode)
	fmt.Fprintf(out, "  Work State:     %s\n", work)
	fmt.Fprintf(out, "  Target Rate:    %d mm3/m2\n", c.sim.TargetRate())
	fmt.Fprintf(out, "  Actual Rate:    %d mm3/m2\n", c.sim.ActualRate())
	fmt.Fprintf(out, "  Auth Result:    %d\n", c.state.AuthResult.Load())
	fmt.Fprintf(out, "  Warning:        %d\n", c.state.Warning.Load())
	fmt.Fprintf(out, "  Pool Objects:   %d\n", c.pool.Size())
	fmt.Fprintln(out)
}

func (c *console) cmdSections() {
	out := c.rl.Stdout()

	fmt.Fprintln(out, "\n  #   setpoint  switch  actual")
	fmt.Fprintln(out, "  ---------------------------------")
	for i := 0; i < c.sim.NumberOfSections(); i++ {
		fmt.Fprintf(out, "  %-3d %-9s %-7s %s\n", i+1,
			onOff(c.sim.SectionSetpointState(i)),
			onOff(c.sim.SectionSwitchState(i)),
			onOff(c.sim.SectionActualState(i)))
	}
	fmt.Fprintln(out)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (c *console) cmdSwitch(args []string) {
	out := c.rl.Stdout()
	if len(args) < 2 {
		fmt.Fprintln(out, "Usage: switch <section> on|off")
		return
	}

	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > c.sim.NumberOfSections() {
		fmt.Fprintf(out, "Invalid section: %s (1-%d)\n", args[0], c.sim.NumberOfSections())
		return
	}

	on := strings.EqualFold(args[1], "on")
	c.sim.SetSectionSwitchState(i-1, on)
	fmt.Fprintf(out, "Section %d switch %s\n", i, onOff(on))

	if c.sim.IsAutoMode() {
		fmt.Fprintln(out, "Note: switches take effect in manual mode only")
	}
}

func (c *console) cmdMode(args []string) {
	out := c.rl.Stdout()
	if len(args) < 1 {
		fmt.Fprintln(out, "Usage: mode auto|manual")
		return
	}

	// Drive the mode change through the command path so it behaves
	// exactly like a Task Controller write.
	var value int32
	switch strings.ToLower(args[0]) {
	case "auto":
		value = 1
	case "manual":
		value = 0
	default:
		fmt.Fprintln(out, "Usage: mode auto|manual")
		return
	}

	c.dispatch.CommandValue(0, ddi.SectionControlState, value)
	fmt.Fprintf(out, "Mode set to %s\n", strings.ToLower(args[0]))
}

func (c *console) cmdRate(args []string) {
	out := c.rl.Stdout()
	if len(args) < 1 {
		fmt.Fprintln(out, "Usage: rate <mm3/m2>")
		return
	}

	rate, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(out, "Invalid rate: %v\n", err)
		return
	}

	c.dispatch.CommandValue(0, ddi.SetpointVolumePerAreaApplicationRate, int32(rate))
	fmt.Fprintf(out, "Target rate set to %d mm3/m2\n", rate)
}

func (c *console) cmdWork(args []string) {
	out := c.rl.Stdout()
	if len(args) < 1 {
		fmt.Fprintln(out, "Usage: work on|off")
		return
	}

	var value int32
	if strings.EqualFold(args[0], "on") {
		value = 1
	}
	c.dispatch.CommandValue(0, ddi.SetpointWorkState, value)
	fmt.Fprintf(out, "Setpoint work state %s\n", onOff(value == 1))
}

func (c *console) cmdRead(args []string) {
	out := c.rl.Stdout()
	if len(args) < 2 {
		fmt.Fprintln(out, "Usage: read <element> <ddi>")
		fmt.Fprintln(out, "  Example: read 2 161")
		return
	}

	element, index, ok := c.parseAddress(args[0], args[1])
	if !ok {
		return
	}

	value, _ := c.dispatch.RequestValue(element, index)
	fmt.Fprintf(out, "%s (element %d) = %d\n", index, element, value)
}

func (c *console) cmdWrite(args []string) {
	out := c.rl.Stdout()
	if len(args) < 3 {
		fmt.Fprintln(out, "Usage: write <element> <ddi> <value>")
		fmt.Fprintln(out, "  Example: write 2 290 65535")
		return
	}

	element, index, ok := c.parseAddress(args[0], args[1])
	if !ok {
		return
	}

	value, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "Invalid value: %v\n", err)
		return
	}

	c.dispatch.CommandValue(element, index, int32(value))
	fmt.Fprintln(out, "OK")
}

func (c *console) parseAddress(elementArg, ddiArg string) (uint16, ddi.DDI, bool) {
	out := c.rl.Stdout()

	element, err := strconv.ParseUint(elementArg, 10, 16)
	if err != nil {
		fmt.Fprintf(out, "Invalid element: %v\n", err)
		return 0, 0, false
	}

	index, err := strconv.ParseUint(ddiArg, 10, 16)
	if err != nil {
		fmt.Fprintf(out, "Invalid DDI: %v\n", err)
		return 0, 0, false
	}

	return uint16(element), ddi.DDI(index), true
}

func (c *console) cmdFeed(args []string) {
	out := c.rl.Stdout()
	if len(args) < 1 {
		fmt.Fprintln(out, "Usage: feed <sentence>")
		fmt.Fprintln(out, "  Example: feed $PHTG,230101,120000,GAL,RTK,1,0*0F")
		return
	}

	line := strings.Join(args, " ")
	if c.handler.HandleLine(line) {
		fmt.Fprintf(out, "Accepted (auth=%d warning=%d)\n",
			c.state.AuthResult.Load(), c.state.Warning.Load())
	} else {
		fmt.Fprintln(out, "Dropped")
	}
}

func (c *console) cmdLast() {
	out := c.rl.Stdout()

	sentence, ok := c.handler.Last()
	if !ok {
		fmt.Fprintln(out, "No sentence accepted yet")
		return
	}

	fmt.Fprintf(out, "  Date:        %s\n", sentence.Date)
	fmt.Fprintf(out, "  Time:        %s\n", sentence.Time)
	fmt.Fprintf(out, "  System:      %s\n", sentence.System)
	fmt.Fprintf(out, "  Service:     %s\n", sentence.Service)
	fmt.Fprintf(out, "  Auth Result: %d\n", sentence.AuthResult)
	fmt.Fprintf(out, "  Warning:     %d\n", sentence.Warning)
}

func (c *console) cmdExport(args []string) {
	out := c.rl.Stdout()

	path := c.cfg.ExportPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		fmt.Fprintln(out, "Usage: export <path> (or set export_path in the config)")
		return
	}

	if err := ddop.WriteFile(c.pool, path); err != nil {
		fmt.Fprintf(out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Task data written to %s\n", path)
}
