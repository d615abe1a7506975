// Package scheduler manages the elevated scheduled task that lets the
// agent query power requests without a UAC prompt on every start, plus
// the optional logon-trigger autostart.
package scheduler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// TaskName is the scheduled-task identifier registered with the OS.
const TaskName = "WakeGuard"

// ErrUnsupported is returned on platforms without a task scheduler.
var ErrUnsupported = fmt.Errorf("scheduled tasks are only supported on windows")

// runSchtasks executes the task-scheduler CLI. Function variable so
// tests can script its behavior.
var runSchtasks = func(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command("schtasks", args...)
	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	return out.String(), errOut.String(), err
}

// IsSupported reports whether the platform has a task scheduler.
func IsSupported() bool {
	return runtime.GOOS == "windows"
}

// IsElevated reports whether the current process can administer tasks.
func IsElevated() bool {
	if runtime.GOOS == "windows" {
		// "net session" succeeds only from an elevated context.
		return exec.Command("net", "session").Run() == nil
	}
	return os.Geteuid() == 0
}

// IsTaskInstalled reports whether the scheduled task exists.
func IsTaskInstalled() bool {
	if !IsSupported() {
		return false
	}
	_, _, err := runSchtasks("/Query", "/TN", TaskName)
	return err == nil
}

// InstallTask registers the scheduled task with highest available run
// level. With enableAutostart the task also triggers at user logon.
func InstallTask(enableAutostart bool) error {
	if !IsSupported() {
		return ErrUnsupported
	}
	if !IsElevated() {
		return fmt.Errorf("installing the task requires administrator privileges")
	}

	xml := buildTaskXML(executablePath(), enableAutostart)

	// schtasks expects the XML file in UTF-16.
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(xml))
	if err != nil {
		return fmt.Errorf("encode task xml: %w", err)
	}

	tmpXML := filepath.Join(os.TempDir(), "wakeguard_task.xml")
	if err := os.WriteFile(tmpXML, encoded, 0600); err != nil {
		return fmt.Errorf("write task xml: %w", err)
	}
	defer os.Remove(tmpXML)

	_, stderr, err := runSchtasks("/Create", "/TN", TaskName, "/XML", tmpXML, "/F")
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("create task: %s", strings.TrimSpace(stderr))
		}
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// UninstallTask deletes the scheduled task.
func UninstallTask() error {
	if !IsSupported() {
		return ErrUnsupported
	}
	if !IsElevated() {
		return fmt.Errorf("uninstalling the task requires administrator privileges")
	}

	_, stderr, err := runSchtasks("/Delete", "/TN", TaskName, "/F")
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("delete task: %s", strings.TrimSpace(stderr))
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// RunTask starts the scheduled task, launching the agent elevated
// without a UAC prompt.
func RunTask() error {
	if !IsSupported() {
		return ErrUnsupported
	}
	_, stderr, err := runSchtasks("/Run", "/TN", TaskName)
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("run task: %s", strings.TrimSpace(stderr))
		}
		return fmt.Errorf("run task: %w", err)
	}
	return nil
}

// IsAutostartEnabled reports whether the installed task carries a logon
// trigger.
func IsAutostartEnabled() bool {
	if !IsTaskInstalled() {
		return false
	}
	stdout, _, err := runSchtasks("/Query", "/TN", TaskName, "/XML")
	if err != nil {
		return false
	}
	// schtasks may emit UTF-16 with stray NULs.
	xml := strings.ReplaceAll(stdout, "\x00", "")
	return strings.Contains(xml, "<LogonTrigger")
}

// ToggleAutostart reinstalls the task with the opposite logon-trigger
// setting and returns the new state.
func ToggleAutostart() (bool, error) {
	current := IsAutostartEnabled()
	if err := InstallTask(!current); err != nil {
		return current, err
	}
	return !current, nil
}

// executablePath resolves the command the task should launch.
func executablePath() string {
	exe, err := os.Executable()
	if err != nil {
		return os.Args[0]
	}
	if abs, err := filepath.Abs(exe); err == nil {
		return abs
	}
	return exe
}

// buildTaskXML renders the task definition: interactive token, highest
// available run level, optional logon trigger, no battery restrictions.
func buildTaskXML(command string, enableAutostart bool) string {
	triggers := ""
	if enableAutostart {
		triggers = `
  <Triggers>
    <LogonTrigger>
      <Enabled>true</Enabled>
    </LogonTrigger>
  </Triggers>`
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-16"?>
<Task version="1.2" xmlns="http://schemas.microsoft.com/windows/2004/02/mit/task">
  <RegistrationInfo>
    <Description>WakeGuard - sleep blocker monitor</Description>
  </RegistrationInfo>
  <Principals>
    <Principal id="Author">
      <LogonType>InteractiveToken</LogonType>
      <RunLevel>HighestAvailable</RunLevel>
    </Principal>
  </Principals>%s
  <Settings>
    <MultipleInstancesPolicy>IgnoreNew</MultipleInstancesPolicy>
    <DisallowStartIfOnBatteries>false</DisallowStartIfOnBatteries>
    <StopIfGoingOnBatteries>false</StopIfGoingOnBatteries>
    <AllowHardTerminate>true</AllowHardTerminate>
    <StartWhenAvailable>false</StartWhenAvailable>
    <RunOnlyIfNetworkAvailable>false</RunOnlyIfNetworkAvailable>
    <AllowStartOnDemand>true</AllowStartOnDemand>
    <Enabled>true</Enabled>
    <Hidden>false</Hidden>
    <RunOnlyIfIdle>false</RunOnlyIfIdle>
    <WakeToRun>false</WakeToRun>
    <ExecutionTimeLimit>PT0S</ExecutionTimeLimit>
    <Priority>7</Priority>
  </Settings>
  <Actions Context="Author">
    <Exec>
      <Command>%s</Command>
      <Arguments>serve</Arguments>
    </Exec>
  </Actions>
</Task>`, triggers, command)
}
