package scheduler

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestBuildTaskXML(t *testing.T) {
	xml := buildTaskXML(`C:\Tools\wakeguard.exe`, false)

	for _, want := range []string{
		"<LogonType>InteractiveToken</LogonType>",
		"<RunLevel>HighestAvailable</RunLevel>",
		"<MultipleInstancesPolicy>IgnoreNew</MultipleInstancesPolicy>",
		"<DisallowStartIfOnBatteries>false</DisallowStartIfOnBatteries>",
		`<Command>C:\Tools\wakeguard.exe</Command>`,
		"<Arguments>serve</Arguments>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("task XML missing %q", want)
		}
	}
	if strings.Contains(xml, "<LogonTrigger") {
		t.Error("task XML has a logon trigger without autostart")
	}
}

func TestBuildTaskXMLWithAutostart(t *testing.T) {
	xml := buildTaskXML(`C:\Tools\wakeguard.exe`, true)
	if !strings.Contains(xml, "<LogonTrigger") {
		t.Error("task XML missing logon trigger with autostart")
	}
	if !strings.Contains(xml, "<Triggers>") {
		t.Error("task XML missing triggers block with autostart")
	}
}

func TestUnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows has a task scheduler")
	}

	if IsSupported() {
		t.Error("IsSupported() true off windows")
	}
	if IsTaskInstalled() {
		t.Error("IsTaskInstalled() true off windows")
	}
	if err := InstallTask(false); !errors.Is(err, ErrUnsupported) {
		t.Errorf("InstallTask() error = %v, want ErrUnsupported", err)
	}
	if err := UninstallTask(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("UninstallTask() error = %v, want ErrUnsupported", err)
	}
	if err := RunTask(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("RunTask() error = %v, want ErrUnsupported", err)
	}
}

func TestIsAutostartEnabledStripsUTF16NULs(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("schtasks query path is windows-only")
	}

	orig := runSchtasks
	t.Cleanup(func() { runSchtasks = orig })

	// schtasks /Query /XML often comes back with interleaved NULs when the
	// console encoding is UTF-16.
	withNULs := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteByte(0)
		}
		return b.String()
	}

	runSchtasks = func(args ...string) (string, string, error) {
		for _, a := range args {
			if a == "/XML" {
				return withNULs("<Task><Triggers><LogonTrigger><Enabled>true</Enabled></LogonTrigger></Triggers></Task>"), "", nil
			}
		}
		return "", "", nil
	}
	if !IsAutostartEnabled() {
		t.Error("IsAutostartEnabled() missed the logon trigger in NUL-padded XML")
	}

	runSchtasks = func(args ...string) (string, string, error) {
		for _, a := range args {
			if a == "/XML" {
				return withNULs("<Task><Triggers/></Task>"), "", nil
			}
		}
		return "", "", nil
	}
	if IsAutostartEnabled() {
		t.Error("IsAutostartEnabled() true without a logon trigger")
	}
}
