// Copyright (C) 2026 Pradyun Gedam
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"
	"os"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vendoring",
	Short: "A command line tool, to simplify vendoring pure Python dependencies.",
	Long: `vendoring copies pinned third-party libraries into a project's own
source tree, rewriting their imports to live under a private namespace
so the project avoids runtime dependency conflicts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Show all log output as it happens")
}

// setupLogging configures the log backend. In verbose mode records go
// straight to stderr; otherwise they are buffered in memory and only
// surfaced by flushLogs when a task fails, giving a quiet happy path
// and a detailed failure path without re-running anything.
func setupLogging() *logging.MemoryBackend {
	if verbose {
		backend := logging.AddModuleLevel(logging.NewLogBackend(os.Stderr, "", 0))
		backend.SetLevel(logging.DEBUG, "")
		logging.SetBackend(backend)
		return nil
	}

	memory := logging.NewMemoryBackend(8192)
	leveled := logging.AddModuleLevel(memory)
	leveled.SetLevel(logging.DEBUG, "")
	logging.SetBackend(leveled)
	return memory
}

// flushLogs writes the buffered records to stderr.
func flushLogs(memory *logging.MemoryBackend) {
	if memory == nil {
		return
	}
	for node := memory.Head(); node != nil; node = node.Next() {
		fmt.Fprintln(os.Stderr, node.Record.Formatted(0))
	}
}

// locationArg returns the project directory argument, defaulting to
// the current directory.
func locationArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
