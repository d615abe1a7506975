package services

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"wakeguard/internal/models"
)

// Scan failure sentinels. ErrPermissionDenied is the normal outcome of a
// non-elevated run, not an exceptional one; ErrQueryUnavailable covers
// everything else and is retried at the regular poll cadence.
var (
	ErrPermissionDenied = errors.New("power request query requires administrator privileges")
	ErrQueryUnavailable = errors.New("power request query unavailable")
)

// runPowercfg executes the OS power-request query. Function variable so
// tests can feed canned transcripts.
var runPowercfg = func() (stdout, stderr string, err error) {
	cmd := exec.Command("powercfg", "/requests")
	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	return out.String(), errOut.String(), err
}

// Scan performs one synchronous query of the OS power-request state and
// returns the raw request records. It holds no state and mutates nothing
// shared; safe to call from any goroutine.
func Scan() ([]models.RawPowerRequest, error) {
	stdout, stderr, err := runPowercfg()

	// powercfg reports the privilege problem on stderr; check it before
	// the exit code so a denial is never folded into QueryUnavailable.
	if strings.Contains(strings.ToLower(stderr), "administrator") {
		return nil, ErrPermissionDenied
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryUnavailable, err)
	}

	return parsePowerRequests(stdout), nil
}

// requestSections maps the powercfg section headers that hold sleep to a
// request kind. PERFBOOST and ACTIVELOCKSCREEN sections exist in the
// output but do not prevent sleep, so they are not listed here.
var requestSections = map[string]models.RequestKind{
	"DISPLAY":   models.RequestDisplay,
	"SYSTEM":    models.RequestSystem,
	"AWAYMODE":  models.RequestAwayMode,
	"EXECUTION": models.RequestExecution,
}

// requestLinePattern matches a request line: "[PROCESS] \Device\...\app.exe".
var requestLinePattern = regexp.MustCompile(`^\[(\w+)\]\s*(.+)$`)

// parsePowerRequests walks the powercfg /requests transcript. A section
// header ("SYSTEM:") sets the current request kind, "None." means the
// section is empty, a bracketed line opens a request, and the following
// line is its reason unless it starts a new section or request. A blank
// line closes the section.
func parsePowerRequests(output string) []models.RawPowerRequest {
	requests := []models.RawPowerRequest{}
	currentKind := models.RequestUnknown
	inSection := false

	lines := strings.Split(output, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if kind, ok := sectionHeader(line); ok {
			currentKind = kind
			inSection = true
			continue
		}

		// Unrecognized section header (PERFBOOST, ACTIVELOCKSCREEN):
		// stop attributing lines until the next known section.
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			inSection = false
			continue
		}

		if line == "" {
			inSection = false
			continue
		}

		if !inSection || line == "None." {
			continue
		}

		if requestLinePattern.MatchString(line) {
			req := models.RawPowerRequest{
				Kind:      currentKind,
				SourceTag: line,
			}
			if i+1 < len(lines) {
				next := strings.TrimSpace(lines[i+1])
				if next != "" && !strings.HasSuffix(next, ":") && !strings.HasPrefix(next, "[") {
					req.Reason = next
					i++
				}
			}
			requests = append(requests, req)
		}
	}

	return requests
}

// sectionHeader reports whether the line is a sleep-relevant section
// header and returns the corresponding request kind.
func sectionHeader(line string) (models.RequestKind, bool) {
	if !strings.HasSuffix(line, ":") {
		return models.RequestUnknown, false
	}
	kind, ok := requestSections[strings.TrimSuffix(line, ":")]
	return kind, ok
}
