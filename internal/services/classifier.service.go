package services

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"wakeguard/internal/models"
)

// findProcessByName resolves a live PID for an image name. Function
// variable so tests can substitute a fixed process table.
var findProcessByName = func(image string) (int32, string, bool) {
	procs, err := process.Processes()
	if err != nil {
		return 0, "", false
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(name, image) {
			return p.Pid, name, true
		}
	}
	return 0, "", false
}

// Classify maps raw power requests to blocker entries. It is total:
// every input yields exactly one entry, in input order, and entries that
// cannot be resolved degrade to SourceUnrecognized instead of being
// dropped. Duplicate PIDs across request kinds are kept as separate
// entries; merging is a presentation concern.
func Classify(raw []models.RawPowerRequest) []models.BlockerEntry {
	entries := make([]models.BlockerEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, classifyOne(r))
	}
	return entries
}

func classifyOne(r models.RawPowerRequest) models.BlockerEntry {
	entry := models.BlockerEntry{
		SourceKind:  models.SourceUnrecognized,
		DisplayName: truncateTag(r.SourceTag),
		RequestKind: r.Kind,
		Reason:      r.Reason,
	}

	if m := requestLinePattern.FindStringSubmatch(r.SourceTag); m != nil {
		tag, source := m[1], strings.TrimSpace(m[2])

		switch strings.ToUpper(tag) {
		case "PROCESS":
			image := lastPathComponent(source)
			if pid, name, ok := findProcessByName(image); ok {
				entry.SourceKind = models.SourceProcess
				entry.PID = pid
				entry.DisplayName = name
			} else {
				// Image no longer running; keep the readable name but
				// without a PID there is nothing to act on.
				entry.DisplayName = image
			}
		case "DRIVER":
			entry.SourceKind = models.SourceDriver
			entry.DisplayName = friendlyDeviceName(source)
		case "SERVICE":
			entry.SourceKind = models.SourceService
			entry.DisplayName = friendlyDeviceName(source)
		default:
			entry.DisplayName = truncateTag(source)
		}
	}

	entry.SafeToIgnore = entry.SourceKind != models.SourceProcess
	return entry
}

// knownDeviceNames maps substrings of well-known driver and device paths
// to readable names. Checked in order.
var knownDeviceNames = []struct{ key, name string }{
	{"srvnet", "SMB Network Share"},
	{"hdaudio", "Audio Device"},
	{"usbhub", "USB Hub"},
	{"usbxhci", "USB Controller"},
	{"intelppm", "Intel Power Management"},
	{"amdppm", "AMD Power Management"},
	{"acpi", "ACPI Power"},
	{"ntfs", "NTFS File System"},
}

// friendlyDeviceName converts a driver or device path into something a
// user can recognize. Always returns a non-empty string; the raw tag
// (truncated) is the last resort.
func friendlyDeviceName(source string) string {
	lower := strings.ToLower(source)

	for _, kn := range knownDeviceNames {
		if strings.Contains(lower, kn.key) {
			return kn.name
		}
	}

	// Hardware IDs look like "PCI\VEN_8086&DEV_9D71&..."; pick a generic
	// name from the bus type instead of showing the ID.
	if strings.Contains(source, "&") && strings.ContainsAny(source, "0123456789") {
		switch {
		case strings.Contains(lower, "audio"):
			return "Audio Device"
		case strings.Contains(lower, "usb"):
			return "USB Device"
		case strings.Contains(lower, "pci"):
			return "PCI Device"
		case strings.Contains(lower, "hid"):
			return "Input Device"
		}
		return "Hardware Device"
	}

	if strings.Contains(source, `\`) {
		name := lastPathComponent(source)
		if name != "" && !hasDigitPrefix(name) {
			return name
		}
	}

	if strings.Contains(lower, "legacy kernel caller") {
		return "Legacy Kernel Caller"
	}

	return truncateTag(source)
}

// lastPathComponent returns the final element of a backslash path.
func lastPathComponent(path string) string {
	if i := strings.LastIndex(path, `\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// hasDigitPrefix reports whether any of the first three characters is a
// digit, which marks leftover hardware-ID fragments.
func hasDigitPrefix(s string) bool {
	for i, c := range s {
		if i >= 3 {
			break
		}
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}

func truncateTag(s string) string {
	if len(s) < 30 {
		return s
	}
	return s[:27] + "..."
}
