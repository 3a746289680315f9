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

package vendoring

import (
	"bufio"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// execCommand creates external commands. Tests replace it to avoid
// running real processes.
var execCommand = exec.Command

// runCommand runs an external command, streaming its combined output
// to the log a line at a time, and waits for it to exit. A non-zero
// exit status is reported as a CommandError.
func runCommand(workdir string, name string, args ...string) error {
	display := strings.Join(append([]string{name}, args...), " ")
	log.Infof("running %s", display)

	cmd := execCommand(name, args...)
	cmd.Dir = workdir
	out, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrapf(err, "running %s", name)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "running %s", name)
	}

	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line != "" {
			log.Infof("  %s", line)
		}
	}

	if err := cmd.Wait(); err != nil {
		if exit, ok := err.(*exec.ExitError); ok {
			return &CommandError{Cmd: display, ExitCode: exit.ExitCode()}
		}
		return errors.Wrapf(err, "running %s", name)
	}
	return nil
}

// git runs a git command in workdir.
func git(workdir string, args ...string) error {
	return runCommand(workdir, "git", args...)
}
