// saturn edits character color palettes and converts them to and from
// GameShark memory-patch codes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/saturn-colors/internal/clipboard"
	"github.com/Faultbox/saturn-colors/internal/config"
	"github.com/Faultbox/saturn-colors/internal/editor"
	"github.com/Faultbox/saturn-colors/internal/logger"
	"github.com/Faultbox/saturn-colors/internal/preview"
	"github.com/Faultbox/saturn-colors/internal/server"
	"github.com/Faultbox/saturn-colors/internal/skin"
	"github.com/Faultbox/saturn-colors/internal/tui"
	"github.com/Faultbox/saturn-colors/pkg/model"
	"github.com/Faultbox/saturn-colors/pkg/palette"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "encode", "enc":
		cmdEncode(args)
	case "decode", "dec":
		cmdDecode(args)
	case "random", "rand":
		cmdRandom(args)
	case "tables":
		cmdTables()
	case "config":
		cmdConfig(args)
	case "materials", "mat":
		cmdMaterials(args)
	case "skin":
		cmdSkin(args)
	case "tui":
		cmdTUI(args)
	case "preview":
		cmdPreview(args)
	case "serve":
		cmdServe(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`saturn - character palette editor and GameShark code converter

Usage:
  saturn <command> [options]

Commands:
  encode [palette.yaml]              Print the code for a palette
  decode [code.txt|-]                Print a code as a YAML palette
  random [-mode hsv] [-lucky]        Print a randomized palette's code
  tables                             List known address tables
  config [-init]                     Print the effective config, or save it
  materials <model.glb>              List model materials and their slots
  skin <model.glb> <out.glb>         Recolor a model with a palette
  tui                                Edit in the terminal
  preview                            Edit in a swatch window
  serve                              Run the HTTP/WebSocket API

Common options:
  -config <file>   Config file
  -palette <file>  Starting palette
  -table <name>    Address table
  -debug           Debug logging
  -log <file>      Log file

Examples:
  saturn encode mario.yaml
  saturn decode code.txt > mario.yaml
  saturn random -mode hsv -seed 64
  saturn skin -palette mario.yaml mario.glb mario-red.glb`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// setup parses the common flags and loads configuration. Console logging
// goes to stderr unless the command owns the terminal.
func setup(fs *flag.FlagSet, args []string, console bool) *config.Config {
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fatal(err)
	}

	opts := logger.Options{Level: cfg.Logging.Level}
	if console {
		opts.Console = os.Stderr
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		fatal(err)
	}
	return cfg
}

func codecFor(cfg *config.Config) *palette.Codec {
	table, err := palette.LookupTable(cfg.Palette.Table)
	if err != nil {
		fatal(err)
	}
	return palette.NewCodec(table)
}

// startPalette returns the palette named by path, falling back to the
// configured palette file and then the stock colors.
func startPalette(cfg *config.Config, path string) palette.Palette {
	if path == "" {
		path = cfg.Palette.File
	}
	if path == "" {
		return palette.Default()
	}
	p, err := editor.LoadPalette(path)
	if err != nil {
		fatal(err)
	}
	logger.Debug("loaded palette", zap.String("path", path))
	return p
}

// newSession creates the editing session for the interactive commands. The
// palette file is loaded when it exists and is where the save key writes.
func newSession(cfg *config.Config, clip clipboard.Clipboard, log *zap.Logger) *editor.Session {
	mode, err := palette.ParseRandomMode(cfg.Editor.RandomMode)
	if err != nil {
		fatal(err)
	}
	file := cfg.Palette.File
	if file == "" {
		file = filepath.Join(config.ConfigDir(), "palette.yaml")
	}
	session := editor.New(editor.Options{
		Codec:          codecFor(cfg),
		Clipboard:      clip,
		RandomMode:     mode,
		LuckyMaxRounds: cfg.Editor.LuckyMaxRounds,
		Logger:         log,
		File:           file,
	})
	if err := session.Load(file); err != nil {
		// Only an explicitly configured palette has to exist.
		if cfg.Palette.File != "" || !errors.Is(err, os.ErrNotExist) {
			fatal(err)
		}
	}
	return session
}

func cmdEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	cfg := setup(fs, args, true)

	p := startPalette(cfg, fs.Arg(0))
	fmt.Println(codecFor(cfg).Encode(p))
}

func cmdDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	output := fs.String("o", "", "Write the palette to this file instead of stdout")
	cfg := setup(fs, args, true)

	var (
		data []byte
		err  error
	)
	if path := fs.Arg(0); path != "" && path != "-" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fatal(err)
	}

	p, err := codecFor(cfg).Decode(string(data))
	if err != nil {
		fatal(err)
	}

	if *output != "" {
		if err := editor.SavePalette(*output, p); err != nil {
			fatal(err)
		}
		return
	}
	out, err := yaml.Marshal(p)
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(out)
}

func cmdRandom(args []string) {
	fs := flag.NewFlagSet("random", flag.ExitOnError)
	modeName := fs.String("mode", "", "Random mode: uniform or hsv (default from config)")
	seed := fs.Uint64("seed", 0, "Random seed (0 = random)")
	lucky := fs.Bool("lucky", false, "Re-roll a random number of times")
	asYAML := fs.Bool("yaml", false, "Print the palette as YAML instead of a code")
	cfg := setup(fs, args, true)

	if *modeName != "" {
		cfg.Editor.RandomMode = *modeName
	}
	mode, err := palette.ParseRandomMode(cfg.Editor.RandomMode)
	if err != nil {
		fatal(err)
	}

	s := *seed
	if s == 0 {
		s = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(s, s))

	p := startPalette(cfg, "")
	session := editor.New(editor.Options{
		Initial:        &p,
		Codec:          codecFor(cfg),
		Rand:           rng,
		RandomMode:     mode,
		LuckyMaxRounds: cfg.Editor.LuckyMaxRounds,
		Logger:         logger.Named("editor"),
	})
	if *lucky {
		n := session.Lucky()
		logger.Debug("lucky", zap.Int("rounds", n), zap.Uint64("seed", s))
	} else {
		session.Randomize()
	}

	if *asYAML {
		out, err := yaml.Marshal(session.Snapshot())
		if err != nil {
			fatal(err)
		}
		os.Stdout.Write(out)
		return
	}
	fmt.Println(session.Code())
}

func cmdTables() {
	for _, name := range palette.TableNames() {
		fmt.Println(name)
	}
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	initFile := fs.Bool("init", false, "Write the effective config to the user config directory")
	cfg := setup(fs, args, true)

	if *initFile {
		if err := cfg.Save(); err != nil {
			fatal(err)
		}
		fmt.Println(filepath.Join(config.ConfigDir(), "config.yaml"))
		return
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(out)
}

func cmdMaterials(args []string) {
	fs := flag.NewFlagSet("materials", flag.ExitOnError)
	setup(fs, args, true)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: saturn materials <model.glb>")
		os.Exit(1)
	}

	doc, err := model.Open(fs.Arg(0))
	if err != nil {
		fatal(err)
	}

	for _, name := range doc.MaterialNames() {
		slot, err := palette.ParseSlot(name)
		if err != nil {
			fmt.Printf("  %-20s -\n", name)
			continue
		}
		fmt.Printf("  %-20s %s\n", name, slot.Label())
	}
	if names := skin.Unmatched(skin.Model(doc)); len(names) > 0 {
		fmt.Printf("\n%d material(s) in the scene will keep their colors\n", len(names))
	}
}

func cmdSkin(args []string) {
	fs := flag.NewFlagSet("skin", flag.ExitOnError)
	cfg := setup(fs, args, true)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: saturn skin [-palette file] <model.glb> <out.glb>")
		os.Exit(1)
	}

	doc, err := model.Open(fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	p := startPalette(cfg, "")
	n := skin.Apply(skin.Model(doc), p)
	if n == 0 {
		fatal(fmt.Errorf("%s has no materials named after palette slots", fs.Arg(0)))
	}
	if err := doc.Save(fs.Arg(1)); err != nil {
		fatal(err)
	}
	fmt.Printf("Recolored %d material(s) -> %s\n", n, fs.Arg(1))
}

func cmdTUI(args []string) {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	cfg := setup(fs, args, false)
	defer logger.Sync()

	// The terminal may have no display to borrow a clipboard from.
	var clip clipboard.Clipboard = clipboard.NewMemory()
	if sdlClip, err := clipboard.OpenSDL(); err == nil {
		defer sdlClip.Close()
		clip = sdlClip
	} else {
		logger.Warn("system clipboard unavailable", zap.Error(err))
	}

	session := newSession(cfg, clip, logger.Named("editor"))

	screen, err := tcell.NewScreen()
	if err != nil {
		fatal(err)
	}
	app := tui.New(session, palette.RandomMode(cfg.Editor.RandomMode), cfg.Editor.LuckyInterval, logger.Named("tui"))
	if err := app.Run(screen); err != nil {
		fatal(err)
	}
	fmt.Println(session.Code())
}

func cmdPreview(args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	cfg := setup(fs, args, true)
	defer logger.Sync()

	// The window initializes SDL, so the clipboard can borrow it.
	session := newSession(cfg, clipboard.AttachSDL(), logger.Named("editor"))
	ctrl := preview.NewController(session, palette.RandomMode(cfg.Editor.RandomMode), cfg.Editor.LuckyInterval)

	err := preview.Run(preview.Config{
		Title:  "Saturn Colors",
		Width:  cfg.Preview.Width,
		Height: cfg.Preview.Height,
		VSync:  cfg.Preview.VSync,
	}, session, ctrl, logger.Named("preview"))
	if err != nil {
		fatal(err)
	}
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg := setup(fs, args, true)
	defer logger.Sync()

	codec := codecFor(cfg)
	session := newSession(cfg, clipboard.NewMemory(), logger.Named("editor"))
	srv := server.New(session, codec, cfg.Server.AllowedOrigins, logger.Named("server"))
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server",
		zap.String("addr", cfg.Server.Listen),
		zap.String("table", codec.Table().Name()),
		zap.String("origins", strings.Join(cfg.Server.AllowedOrigins, ",")))
	if err := srv.ListenAndServe(ctx, cfg.Server.Listen); err != nil {
		fatal(err)
	}
}
