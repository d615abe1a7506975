package models

import "time"

// RequestKind identifies which power condition a request asserts.
type RequestKind string

const (
	RequestSystem    RequestKind = "system"
	RequestDisplay   RequestKind = "display"
	RequestExecution RequestKind = "execution"
	RequestAwayMode  RequestKind = "away_mode"
	RequestUnknown   RequestKind = "unknown"
)

// SourceKind identifies what issued a power request. Only SourceProcess
// entries carry a PID and can be terminated.
type SourceKind string

const (
	SourceProcess      SourceKind = "process"
	SourceDriver       SourceKind = "driver"
	SourceService      SourceKind = "service"
	SourceUnrecognized SourceKind = "unrecognized"
)

// RawPowerRequest is one entry as reported by the OS power-request
// registry, before classification. SourceTag is opaque: it may name a
// process image, a kernel driver, or an unparseable device path.
type RawPowerRequest struct {
	Kind      RequestKind `json:"kind"`
	SourceTag string      `json:"source_tag"`
	Reason    string      `json:"reason,omitempty"`
}

// BlockerEntry is a classified, display-ready power request.
type BlockerEntry struct {
	SourceKind   SourceKind  `json:"source_kind"`
	PID          int32       `json:"pid,omitempty"` // set only for SourceProcess
	DisplayName  string      `json:"display_name"`
	RequestKind  RequestKind `json:"request_kind"`
	Reason       string      `json:"reason,omitempty"`
	SafeToIgnore bool        `json:"safe_to_ignore"`
}

// Snapshot is an immutable capture of the blockers found by one scan,
// plus the scan outcome. A snapshot is never modified after it has been
// published; a refresh always produces a new one.
type Snapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	Entries   []BlockerEntry `json:"entries"`

	// Scanned is false only for the initial value published before the
	// first scan completes, so "loading" is distinguishable from
	// "scanned, found nothing".
	Scanned bool `json:"scanned"`

	// PermissionDenied is true when the query itself was refused at the
	// current privilege level. Entries is then empty and must not be
	// read as "no blockers".
	PermissionDenied bool `json:"permission_denied"`

	// ScanError holds the description of a non-permission scan failure.
	// Entries is then empty and prior data should be treated as stale.
	ScanError string `json:"scan_error,omitempty"`
}
