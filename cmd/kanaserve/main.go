// Copyright 2025 The kanaserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the kana-kanji conversion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

kanaserve converts typed kana or romaji into ranked kanji candidates. Every
request reuses the lattice of the previous one wherever the input only
changed at its tail, so typing, deleting and committing clause by clause
stay cheap. It can operate as a MessagePack IPC server for input method
frontends, or as a CLI application for testing and debugging.

# Usage

Start the server with the configured dictionary:

	kanaserve

Use another dictionary and enable debug mode:

	kanaserve -dict /path/to/dict.tsv -d

Run in CLI mode for interactive testing:

	kanaserve -c -limit 10

# Configuration

Runtime configuration lives in a TOML file, created with defaults on first
start:

	[dict]
	path = "data/dict.tsv"
	english_dir = "data/en"
	max_words = 50000

	[convert]
	n_best = 10
	japanese_prediction = true
	keyboard_language = "ja_JP"

The dictionary is a TSV file of `reading word class mid value` rows. Foreign
word lists are directories of dict_*.bin chunks and are only loaded once
their keyboard language is first used.

# Command Line Flags

	-version      Show current version
	-d            Enable debug mode with detailed logging
	-c            Run in CLI mode instead of server mode
	-config path  Config file to load
	-dict path    Japanese dictionary (default from config)
	-words int    Maximum foreign words to load per language (default from config)
	-limit int    Number of candidates printed in CLI mode (default from config)
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bastiangx/kanaserve/internal/cli"
	"github.com/bastiangx/kanaserve/internal/utils"
	"github.com/bastiangx/kanaserve/pkg/config"
	"github.com/bastiangx/kanaserve/pkg/convert"
	"github.com/bastiangx/kanaserve/pkg/dictionary"
	"github.com/bastiangx/kanaserve/pkg/lattice"
	"github.com/bastiangx/kanaserve/pkg/server"
	"github.com/bastiangx/kanaserve/pkg/spell"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "kanaserve"
	gh      = "https://github.com/bastiangx/kanaserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the dictionary, completion backend and converter together
// and hands them to the server or the CLI.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPath := flag.String("config", "", "Path to a config.toml")
	dictPath := flag.String("dict", "", "Japanese dictionary TSV (default from config)")
	wordLimit := flag.Int("words", -1, "Maximum foreign words to load per language (0 for all, default from config)")
	limit := flag.Int("limit", 0, "Number of candidates to print in CLI mode (default from config)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, loadedFrom, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(loadedFrom))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	if *dictPath != "" {
		appConfig.Dict.Path = *dictPath
	}
	if *wordLimit >= 0 {
		appConfig.Dict.MaxWords = *wordLimit
	}
	if *limit > 0 {
		appConfig.CLI.DefaultLimit = *limit
	}

	resolvedDict := resolveDictPath(pathResolver, appConfig.Dict.Path)
	store := dictionary.NewStore()
	entries, err := store.LoadTSVFile(resolvedDict)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	log.Debugf("Loaded %d entries from %s", entries, resolvedDict)

	chunkDirs := appConfig.Dict.ChunkDirs()
	for lang, dir := range chunkDirs {
		chunkDirs[lang] = resolveDir(pathResolver, dir)
	}
	checker := spell.NewChecker(chunkDirs, appConfig.Dict.SpellOptions())

	conv := convert.New(lattice.NewBuilder(store),
		convert.WithCompleter(checker),
		convert.WithLearner(store),
	)
	defer conv.Close()

	opts := appConfig.Convert.Options()
	opts.AppName = AppName
	if opts.AppVersion == "" {
		opts.AppVersion = Version
	}
	conv.PrepareLanguage(opts.KeyboardLanguage)

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "limit", appConfig.CLI.DefaultLimit, "nbest", opts.NBest)

		inputHandler := cli.NewInputHandler(conv, opts, cli.Settings{
			Limit:           appConfig.CLI.DefaultLimit,
			ShowValues:      appConfig.CLI.ShowValues,
			ShowFirstClause: appConfig.CLI.ShowFirstClause,
		}, os.Stdout)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(conv, server.Config{
		MaxCandidates:  appConfig.Server.MaxCandidates,
		MaxInputLength: appConfig.Server.MaxInputLength,
		Defaults:       opts,
	}, os.Stdin, os.Stdout)

	showStartupInfo(resolvedDict, entries)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// resolveDictPath looks for the dictionary file next to the binary, in the
// working directory and in the data dirs when the path is relative.
func resolveDictPath(pr *utils.PathResolver, path string) string {
	if filepath.IsAbs(path) || utils.FileExists(path) {
		return path
	}
	return filepath.Join(pr.GetDataDir(filepath.Dir(path)), filepath.Base(path))
}

// resolveDir makes a relative chunk directory relative to the binary when
// it does not exist relative to the working directory.
func resolveDir(pr *utils.PathResolver, dir string) string {
	if filepath.IsAbs(dir) || utils.FileExists(dir) {
		return dir
	}
	return filepath.Join(pr.GetExecutableDir(), dir)
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ kanaserve ] incremental kana-kanji conversion")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dictPath string, entries int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" kanaserve ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dictionary: ( %s, %d entries )", dictPath, entries)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
