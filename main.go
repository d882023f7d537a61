// Package main provides the entry point for the System Settings application.
// System Settings is a terminal control panel for Linux desktops: user and
// group accounts, sound, date & time, language & region, network, bluetooth
// and icon themes, each behind its own page.
//
// Usage:
//
//	system-settings [options]
//
// Environment:
//
//	Settings are applied to the live system through getent/useradd/pactl/
//	timedatectl/localectl/gsettings and the system D-Bus (NetworkManager,
//	BlueZ). Mutations that need privileges go through pkexec; polkit prompts
//	on the first elevated command of the session.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/system-settings/common"
	"github.com/yllada/system-settings/config"
	"github.com/yllada/system-settings/system"
	"github.com/yllada/system-settings/ui"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

var (
	showVersion = flag.Bool("version", false, "Show version and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	showHelp    = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("%s v%s\n", common.AppName, appVersion)
		if buildTime != "unknown" {
			fmt.Printf("  Build:  %s\n", buildTime)
			fmt.Printf("  Commit: %s\n", commitSHA)
		}
		os.Exit(0)
	}

	// Initialize logger with structured logging and file output
	logLevel := common.LevelInfo
	if *verbose {
		logLevel = common.LevelDebug
	}

	if err := common.InitLogger(common.LogConfig{
		Level:       logLevel,
		EnableFile:  true,
		MaxFileSize: 5 * 1024 * 1024, // 5MB
		MaxBackups:  5,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}
	defer common.CloseLogger()

	cfg, err := config.Load()
	if err != nil {
		common.LogWarn("Using default configuration: %v", err)
		cfg = config.DefaultConfig()
	}

	runner := system.NewRunner()
	svcs, reachable := buildServices(runner)
	if reachable == 0 {
		common.LogError("No system backend is reachable")
		fmt.Fprintln(os.Stderr, "Error: no system backend is reachable (getent, pactl and the system bus are all unavailable).")
		os.Exit(1)
	}

	uid := uint32(os.Getuid())
	admin := resolveAdmin(svcs, uid)

	common.LogInfo("Starting %s v%s", common.AppName, appVersion)
	app := ui.NewApp(cfg, svcs, runner.Elevated, uid, admin)
	program := tea.NewProgram(app, tea.WithAltScreen())

	// Handle shutdown signals (SIGINT, SIGTERM)
	setupSignalHandler(program)

	if _, err := program.Run(); err != nil {
		common.LogError("Host terminated: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildServices assembles the domain adapters and counts how many
// backends answered the preflight probe. A missing backend degrades
// its pages to an error banner; zero reachable backends is fatal.
func buildServices(run *system.ExecRunner) (ui.Services, int) {
	reachable := 0

	if system.CommandExists("getent") {
		reachable++
	} else {
		common.LogWarn("getent not found; the users page will show an error")
	}
	if system.CommandExists("pactl") {
		reachable++
	} else {
		common.LogWarn("pactl not found; the sound page will show an error")
	}

	bus, err := system.ConnectSystemBus()
	if err != nil {
		common.LogWarn("System bus unavailable; network and bluetooth pages will show an error: %v", err)
		bus = system.OfflineBus(err)
	} else {
		reachable++
	}

	return ui.Services{
		Accounts:   system.NewAccountsService(run),
		Sound:      system.NewPulseService(run),
		Locale:     system.NewLocaleAdapter(run),
		Network:    system.NewNetworkAdapter(bus),
		Bluetooth:  system.NewBluetoothAdapter(bus),
		Appearance: system.NewAppearanceAdapter(run),
	}, reachable
}

// resolveAdmin reports whether the logged-in user belongs to an
// administrator group. Resolution failures fall back to non-admin,
// which only means the change-password form asks for the old password.
func resolveAdmin(svcs ui.Services, uid uint32) bool {
	acc, ok := svcs.Accounts.(*system.AccountsService)
	if !ok {
		return false
	}
	admin, err := acc.IsAdmin(uid)
	if err != nil {
		common.LogWarn("Could not resolve admin membership for uid %d: %v", uid, err)
		return false
	}
	return admin
}

// setupSignalHandler quits the host on SIGINT/SIGTERM so the terminal
// is restored before the process exits.
func setupSignalHandler(program *tea.Program) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		common.LogInfo("Received signal %v, shutting down", sig)
		program.Quit()
	}()
}

// printHelp prints usage help.
func printHelp() {
	fmt.Println(`System Settings - Desktop configuration panel

Usage:
  system-settings [OPTIONS]

Options:
  --version         Show version and exit
  --verbose         Enable verbose logging
  --help            Show this help message

Keys:
  ctrl+n / ctrl+p   Next / previous page
  arrows, enter     Navigate and confirm within a page
  ctrl+c            Quit

Notes:
  - Privileged changes prompt through polkit (pkexec)
  - UI preferences persist to ~/.config/system-settings/config.yaml`)
}
