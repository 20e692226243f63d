/*
 * qodem: terminal emulator and connection manager
 * Copyright 2026
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"qodem/internal/capture"
	"qodem/internal/config"
	"qodem/internal/logging"
	"qodem/internal/session"
)

// Exit codes, per the documented CLI surface: distinct codes for each
// category of startup failure so a calling script can tell them apart.
const (
	exitOK                 = 0
	exitHelpShown          = 1
	exitCommandLineError   = 2
	exitSelectFailed       = 3
	exitSerialFailed       = 4
	exitSetlocaleFailed    = 5
)

type cliOptions struct {
	dial           string
	connect        string
	connectMethod  string
	username       string
	capfile        string
	logfile        string
	play           string
	playExit       bool
	exitOnComplete bool
	doorway        string
	codepage       string
	emulation      string
	statusLine     string
	geometry       string
	configPath     string
	createConfig   string
	downloadDir    string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "qodem",
		Short:         "qodem is a terminal emulator and connection manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVar(&opts.dial, "dial", "", "dial a target address (phonebook entries are not implemented; use the same form as --connect)")
	root.Flags().StringVar(&opts.connect, "connect", "", "connect to HOST[:PORT]")
	root.Flags().StringVar(&opts.connectMethod, "connect-method", "ssh", "connection method: ssh, rlogin, telnet, socket, shell")
	root.Flags().StringVar(&opts.username, "username", "", "username for the remote session")
	root.Flags().StringVar(&opts.capfile, "capfile", "", "capture session output to this file")
	root.Flags().StringVar(&opts.logfile, "logfile", "", "write structured session logs to this file instead of stderr")
	root.Flags().StringVar(&opts.play, "play", "", "play back a recorded sequence file instead of dialing")
	root.Flags().BoolVar(&opts.playExit, "play-exit", false, "exit once playback finishes")
	root.Flags().BoolVar(&opts.exitOnComplete, "exit-on-completion", false, "exit the process once the connection closes")
	root.Flags().StringVar(&opts.doorway, "doorway", "off", "doorway mode: doorway, mixed, off")
	root.Flags().StringVar(&opts.codepage, "codepage", "cp437", "codepage/character-set translation to use")
	root.Flags().StringVar(&opts.emulation, "emulation", "ansi", "terminal emulation to use")
	root.Flags().StringVar(&opts.statusLine, "status-line", "on", "status line: on, off")
	root.Flags().StringVar(&opts.geometry, "geometry", "80x24", "screen geometry as COLSxROWS")
	root.Flags().StringVar(&opts.configPath, "config", "", "load configuration from this YAML file")
	root.Flags().StringVar(&opts.createConfig, "create-config", "", "write the default configuration to this file and exit")
	root.Flags().StringVar(&opts.downloadDir, "download-dir", "", "directory autostart and explicit downloads write into (default: config's download-dir)")

	root.RunE = func(cmd *cobra.Command, args []string) error {
		return mainRun(opts)
	}

	if err := root.Execute(); err != nil {
		if err == errCommandLine {
			return lastExitCode
		}
		fmt.Fprintln(os.Stderr, "qodem:", err)
		return exitCommandLineError
	}
	if h := root.Flags().Lookup("help"); h != nil && h.Changed {
		return exitHelpShown
	}
	return lastExitCode
}

// errCommandLine is a sentinel marking a validation failure that has
// already been reported to stderr, so run() doesn't print it twice.
var errCommandLine = fmt.Errorf("command line error")

// lastExitCode lets mainRun hand back a specific exit code without
// plumbing it through cobra's RunE error, which only distinguishes
// success from failure.
var lastExitCode = exitOK

func mainRun(opts *cliOptions) error {
	if opts.createConfig != "" {
		if err := config.Save(opts.createConfig, config.Defaults()); err != nil {
			fmt.Fprintln(os.Stderr, "qodem:", err)
			lastExitCode = exitCommandLineError
			return errCommandLine
		}
		return nil
	}

	var log *logging.Logger
	if opts.logfile != "" {
		f, err := os.Create(opts.logfile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "qodem: cannot open logfile:", err)
			lastExitCode = exitCommandLineError
			return errCommandLine
		}
		defer f.Close()
		log = logging.New(f, false, zerolog.InfoLevel)
	} else {
		log = logging.New(os.Stderr, true, zerolog.InfoLevel)
	}

	cfg := config.Load(opts.configPath, log)
	if opts.downloadDir != "" {
		cfg.DownloadDir = opts.downloadDir
	}

	cols, rows, err := config.ParseGeometry(opts.geometry)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qodem:", err)
		lastExitCode = exitCommandLineError
		return errCommandLine
	}

	target := opts.connect
	if target == "" {
		target = opts.dial
	}
	if target == "" {
		fmt.Fprintln(os.Stderr, "qodem: one of --connect or --dial is required")
		lastExitCode = exitCommandLineError
		return errCommandLine
	}

	method := connectMethodName(opts.connectMethod)

	sess := session.New(cfg, log)
	connErr := sess.Connect(session.ConnectOptions{
		Method:    method,
		Address:   target,
		Username:  opts.username,
		Emulation: opts.emulation,
		Codepage:  opts.codepage,
		Cols:      cols,
		Rows:      rows,
	})
	if connErr != nil {
		log.Error().Err(connErr).Msg("connect failed")
		lastExitCode = exitSelectFailed
		return errCommandLine
	}
	defer sess.Hangup()

	if opts.capfile != "" {
		format := capture.FormatByName(string(cfg.CaptureType))
		if err := sess.BeginCapture(opts.capfile, format); err != nil {
			log.Warn().Err(err).Msg("could not open capture file")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()

	sess.Run(ctx)
	return nil
}

// connectMethodName maps the documented --connect-method values onto the
// transport package's method identifiers; "socket" and "shell" are the
// spec's names for qodem's raw-TCP and local-process transports.
func connectMethodName(m string) string {
	switch m {
	case "socket":
		return "raw"
	case "shell":
		return "local"
	default:
		return m
	}
}
