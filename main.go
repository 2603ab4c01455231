package main

import (
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/osinstall/kbdsetup/pkg/journallog"
	"github.com/osinstall/kbdsetup/pkg/keyboard"
	"github.com/osinstall/kbdsetup/pkg/localed"
	"github.com/osinstall/kbdsetup/pkg/xkbregistry"
	"github.com/osinstall/kbdsetup/pkg/xkbset"
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the keyboard configuration file")
	root := flag.String("root", "/", "root of the system to write the configuration to")
	weight := flag.Int("weight", 0, "two-digit prefix of the written xorg.conf file")
	evdevXMLPath := flag.String("evdev-xml-path", xkbregistry.DefaultPath, "path to evdev.xml")
	vcKeymap := flag.String("vc-keymap", "", "console keymap, overrides the configuration file")
	xLayouts := flag.String("x-layouts", "", "comma-separated X layouts, override the configuration file")
	switchOptions := flag.String("switch-options", "", "comma-separated layout switching options, override the configuration file")
	legacy := flag.String("keyboard", "", "deprecated single-value keyboard setting")
	debug := flag.Bool("debug", false, "enable debug logging")
	toJournal := flag.Bool("journal", false, "log to the systemd journal instead of stdout")
	flag.Parse()

	logger, err := newLogger(*debug, *toJournal)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	cfg, err := loadConfig(*configPath, logger)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyFlags(cfg, *vcKeymap, *xLayouts, *switchOptions, *legacy)

	// a missing layout catalog degrades validation, it does not abort the
	// installation
	registry, err := xkbregistry.Load(*evdevXMLPath)
	if err != nil {
		logger.Warnf("cannot load XKB registry, skipping layout validation: %v", err)
	} else {
		cfg.XLayouts = validLayouts(cfg.XLayouts, registry, logger)
	}

	converter, err := localed.Connect()
	if err != nil {
		return fmt.Errorf("connect to localed: %w", err)
	}
	defer converter.Close()

	// without a reachable X server (text mode install) the layouts are only
	// written out, not pushed to a live engine
	var layoutSet keyboard.LayoutSet
	manager, err := xkbset.NewManager(&xkbset.SetxkbmapEngine{}, registry, logger)
	if err != nil {
		logger.Infof("no live X keyboard engine: %v", err)
	} else {
		layoutSet = manager
	}

	activator := keyboard.NewActivator(converter, layoutSet, &keyboard.LoadkeysProber{}, logger)
	if err := activator.Activate(cfg, *root, *weight); err != nil {
		return fmt.Errorf("activate keyboard configuration: %w", err)
	}

	logger.Infow("keyboard configuration applied",
		"vc_keymap", cfg.VCKeymap,
		"x_layouts", cfg.XLayouts,
	)

	return nil
}

func validLayouts(layouts []string, registry *xkbregistry.Registry, logger *zap.SugaredLogger) []string {
	valid := make([]string, 0, len(layouts))
	for _, layout := range layouts {
		if !registry.KnownName(layout) {
			logger.Errorf("%q is not a known X layout, dropping it", layout)
			continue
		}
		valid = append(valid, layout)
	}
	return valid
}

func newLogger(debug, toJournal bool) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	if toJournal && journallog.Available() {
		return zap.New(journallog.NewCore(level)).Sugar(), nil
	}

	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.Level = zap.NewAtomicLevelAt(level)
	loggerConfig.OutputPaths = []string{"stdout"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}
