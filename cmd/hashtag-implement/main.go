// Command hashtag-implement is a reference ISOBUS implement simulator.
//
// This command demonstrates a complete section-controlled sprayer with:
//   - CLI argument parsing with optional YAML configuration
//   - Deterministic device descriptor pool construction
//   - Process-variable dispatch for Task Controller callbacks
//   - TCP listener for the proprietary GNSS positioning feed
//   - ISOXML task-data export
//   - Runtime state persistence across restarts
//   - Operation logging to sqlite
//
// Usage:
//
//	hashtag-implement [flags]
//
// Flags:
//
//	-config string       Configuration file path (YAML)
//	-sections int        Number of boom sections (1-256)
//	-width int           Working width in millimeters
//	-nmea-listen string  TCP listen address for the positioning feed
//	-log-level string    Log level: debug, info, warn, error
//	-log-format string   Log format: json, console
//	-state string        Runtime state file path
//	-oplog string        Operation log sqlite path
//	-export string       ISOXML export path (written once at startup)
//	-serial string       Device serial number (auto-generated if empty)
//	-name string         Device designator
//
// Examples:
//
//	# Start a 16-section sprayer with defaults
//	hashtag-implement
//
//	# Start from a config file with debug logging
//	hashtag-implement -config /etc/hashtag/sprayer.yaml -log-level debug
//
//	# Export the descriptor as ISOXML and keep an operation log
//	hashtag-implement -export TASKDATA.XML -oplog ops.db
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hashtag-agritech/hashtag-go/pkg/config"
	"github.com/hashtag-agritech/hashtag-go/pkg/ddi"
	"github.com/hashtag-agritech/hashtag-go/pkg/ddop"
	"github.com/hashtag-agritech/hashtag-go/pkg/implement"
	"github.com/hashtag-agritech/hashtag-go/pkg/logging"
	"github.com/hashtag-agritech/hashtag-go/pkg/monitor"
	"github.com/hashtag-agritech/hashtag-go/pkg/nmea"
	"github.com/hashtag-agritech/hashtag-go/pkg/oplog"
	"github.com/hashtag-agritech/hashtag-go/pkg/persistence"
)

// connectorTypeDrawbar is the reported ISO connector type code.
const connectorTypeDrawbar = 1

// culturalPracticeCropProtection is the reported operation code.
const culturalPracticeCropProtection = 4

func main() {
	var (
		configPath string
		sections   int
		widthMM    int
		nmeaListen string
		logLevel   string
		logFormat  string
		statePath  string
		oplogPath  string
		exportPath string
		serial     string
		designator string
	)

	flag.StringVar(&configPath, "config", "", "Configuration file path (YAML)")
	flag.IntVar(&sections, "sections", 0, "Number of boom sections (1-256)")
	flag.IntVar(&widthMM, "width", 0, "Working width in millimeters")
	flag.StringVar(&nmeaListen, "nmea-listen", "", "TCP listen address for the positioning feed")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&logFormat, "log-format", "", "Log format: json, console")
	flag.StringVar(&statePath, "state", "", "Runtime state file path")
	flag.StringVar(&oplogPath, "oplog", "", "Operation log sqlite path")
	flag.StringVar(&exportPath, "export", "", "ISOXML export path")
	flag.StringVar(&serial, "serial", "", "Device serial number (auto-generated if empty)")
	flag.StringVar(&designator, "name", "", "Device designator")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags set on the command line override the file.
	if sections != 0 {
		cfg.Sections = sections
	}
	if widthMM != 0 {
		cfg.WorkingWidthMM = int32(widthMM)
	}
	if nmeaListen != "" {
		cfg.NMEAListen = nmeaListen
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}
	if oplogPath != "" {
		cfg.OplogPath = oplogPath
	}
	if exportPath != "" {
		cfg.ExportPath = exportPath
	}
	if serial != "" {
		cfg.SerialNumber = serial
	}
	if designator != "" {
		cfg.Designator = designator
	}
	if cfg.SerialNumber == "" {
		cfg.SerialNumber = uuid.NewString()[:8]
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "hashtag-implement")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting implement",
		zap.String("designator", cfg.Designator),
		zap.String("serial", cfg.SerialNumber),
		zap.Int("sections", cfg.Sections),
		zap.Int32("working_width_mm", cfg.WorkingWidthMM))

	sim, err := implement.NewSectionControlSimulator(cfg.Sections)
	if err != nil {
		logger.Fatal("failed to create simulator", zap.Error(err))
	}
	state := implement.NewState()

	caps := implement.Capabilities{
		WorkingWidthMM:   cfg.WorkingWidthMM,
		TankCapacity:     cfg.TankCapacity,
		TankVolume:       cfg.TankVolume,
		ConnectorType:    connectorTypeDrawbar,
		CulturalPractice: culturalPracticeCropProtection,
	}
	dispatch := implement.NewDispatch(sim, state, caps)

	// Descriptor pool. The client NAME is derived from the serial so a
	// given identity always produces the same pool.
	clientNAME := uuid.NewSHA1(uuid.NameSpaceOID, []byte(cfg.SerialNumber))
	pool := ddop.NewPool()
	builder := ddop.NewBuilder(ddop.BuildConfig{
		Identity: ddop.Identity{
			Designator:      cfg.Designator,
			SoftwareVersion: cfg.SoftwareVersion,
			SerialNumber:    cfg.SerialNumber,
			StructureLabel:  cfg.StructureLabel,
			Localization:    [7]byte{'e', 'n', 0x00, 0x00, 0x00, 0x00, 0xFF},
		},
		SectionCount:   cfg.Sections,
		WorkingWidthMM: cfg.WorkingWidthMM,
		ConnectorType:  connectorTypeDrawbar,
		ClientNAME:     clientNAME[:8],
	})
	if !builder.Build(pool) {
		for _, failure := range builder.Failures() {
			logger.Error("descriptor build step failed", zap.Error(failure))
		}
		logger.Fatal("failed to build device descriptor")
	}
	if err := pool.Validate(); err != nil {
		logger.Fatal("device descriptor invalid", zap.Error(err))
	}
	logger.Info("device descriptor built", zap.Int("objects", pool.Size()))

	if cfg.ExportPath != "" {
		if err := ddop.WriteFile(pool, cfg.ExportPath); err != nil {
			logger.Error("failed to export task data", zap.Error(err))
		} else {
			logger.Info("task data exported", zap.String("path", cfg.ExportPath))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore persisted runtime state.
	var stateStore *persistence.StateStore
	if cfg.StatePath != "" {
		stateStore = persistence.NewStateStore(cfg.StatePath)
		saved, err := stateStore.Load()
		if err != nil {
			logger.Warn("failed to load runtime state", zap.Error(err))
		} else if saved != nil {
			restoreState(sim, saved)
			logger.Info("runtime state restored",
				zap.Time("saved_at", saved.SavedAt),
				zap.Bool("auto_mode", saved.AutoMode))
		}
	}

	// Operation log. The tap must not block, so it records into a
	// bounded buffer that a drain goroutine flushes to sqlite.
	if cfg.OplogPath != "" {
		store, err := oplog.NewStore(cfg.OplogPath)
		if err != nil {
			logger.Fatal("failed to open operation log", zap.Error(err))
		}
		defer store.Close()

		recorder := oplog.NewRecorder(1024)
		dispatch.SetTap(func(write bool, element uint16, index ddi.DDI, value int32) {
			direction := oplog.DirectionRead
			if write {
				direction = oplog.DirectionWrite
			}
			recorder.Record(oplog.Event{
				Timestamp:     time.Now(),
				Direction:     direction,
				ElementNumber: element,
				DDI:           uint16(index),
				Value:         value,
			})
		})
		go func() {
			if err := store.Drain(ctx, recorder); err != nil && ctx.Err() == nil {
				logger.Error("operation log drain stopped", zap.Error(err))
			}
		}()
		logger.Info("operation log enabled", zap.String("path", cfg.OplogPath))
	}

	// GNSS feed handler shared by the TCP listener.
	handler := nmea.NewHandler(
		func(v int32) { state.AuthResult.Store(v) },
		func(v int32) { state.Warning.Store(v) },
	)

	if cfg.NMEAListen != "" {
		go runNMEAListener(ctx, logger, handler, cfg.NMEAListen)
	}

	// Watchers fire once per transition, not per poll.
	authWatcher := monitor.NewWatcher(
		state.AuthResult.Load,
		func(v int32) {
			logger.Info("authentication result changed",
				zap.Int32("auth_result", v),
				zap.Int32("warning", state.Warning.Load()))
		},
	)
	go authWatcher.Run(ctx, time.Second)

	workWatcher := monitor.NewWatcher(
		sim.ActualWorkState,
		func(v int32) {
			logger.Info("work state changed",
				zap.Int32("work_state", v),
				zap.Int("sections_on", sim.ActualSectionsOn()),
				zap.Uint32("actual_rate", sim.ActualRate()))
		},
	)
	go workWatcher.Run(ctx, 500*time.Millisecond)

	console := newConsole(logger, sim, state, dispatch, pool, handler, cfg)
	go console.Run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received signal", zap.Stringer("signal", sig))
	case <-ctx.Done():
	}
	cancel()

	if stateStore != nil {
		if err := stateStore.Save(&persistence.ImplementState{
			AutoMode:          sim.IsAutoMode(),
			TargetRate:        sim.TargetRate(),
			SetpointWorkState: sim.SetpointWorkState(),
			SwitchStates:      sim.SwitchStates(),
		}); err != nil {
			logger.Error("failed to save runtime state", zap.Error(err))
		} else {
			logger.Info("runtime state saved", zap.String("path", cfg.StatePath))
		}
	}

	logger.Info("shutdown complete")
}

// restoreState pushes a persisted snapshot into the simulator.
func restoreState(sim *implement.SectionControlSimulator, saved *persistence.ImplementState) {
	sim.SetAutoMode(saved.AutoMode)
	if saved.TargetRate > 0 {
		sim.SetTargetRate(saved.TargetRate)
	}
	sim.SetSetpointWorkState(saved.SetpointWorkState)
	for i, on := range saved.SwitchStates {
		if i >= sim.NumberOfSections() {
			break
		}
		sim.SetSectionSwitchState(i, on)
	}
}

// runNMEAListener accepts TCP connections and feeds each line to the
// sentence handler. Malformed lines are dropped by the handler itself.
func runNMEAListener(ctx context.Context, logger *zap.Logger, handler *nmea.Handler, addr string) {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		logger.Error("failed to start positioning feed listener", zap.Error(err))
		return
	}
	logger.Info("positioning feed listening", zap.String("addr", addr))

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("accept failed", zap.Error(err))
			continue
		}
		logger.Debug("feed connected", zap.Stringer("remote", conn.RemoteAddr()))
		go serveFeed(ctx, logger, handler, conn)
	}
}

func serveFeed(ctx context.Context, logger *zap.Logger, handler *nmea.Handler, conn net.Conn) {
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if handler.HandleLine(line) {
			logger.Debug("sentence accepted", zap.String("line", line))
		} else {
			logger.Debug("sentence dropped", zap.String("line", line))
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		logger.Warn("feed read failed", zap.Stringer("remote", conn.RemoteAddr()), zap.Error(err))
		return
	}
	logger.Debug("feed disconnected", zap.Stringer("remote", conn.RemoteAddr()))
}
