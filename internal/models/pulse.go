package models

import (
	"fmt"
	"time"
)

// PulseKind names what produced a pulse.
type PulseKind string

const (
	PulseUpdate      PulseKind = "update"
	PulseCorrelation PulseKind = "correlation"
	PulseOutbreak    PulseKind = "outbreak"
	PulseBurst       PulseKind = "burst"
	PulseClick       PulseKind = "click"
)

// Pulse is a transient animation travelling from a feed to a region.
type Pulse struct {
	ID       string        `json:"id"`
	From     FeedType      `json:"from"`
	To       string        `json:"to"`
	Kind     PulseKind     `json:"kind"`
	StartsAt time.Time     `json:"starts_at"`
	Lifetime time.Duration `json:"lifetime"`
}

// Progress returns how far along its path the pulse is at now, clamped to [0,1].
func (p Pulse) Progress(now time.Time) float64 {
	if p.Lifetime <= 0 || now.Before(p.StartsAt) {
		return 0
	}
	f := float64(now.Sub(p.StartsAt)) / float64(p.Lifetime)
	if f > 1 {
		return 1
	}
	return f
}

// Done reports whether the pulse has finished travelling.
func (p Pulse) Done(now time.Time) bool {
	return !now.Before(p.StartsAt.Add(p.Lifetime))
}

// StatusUpdate is one entry in the activity stream.
type StatusUpdate struct {
	Feed    FeedType  `json:"feed,omitempty"`
	Title   string    `json:"title"`
	Status  Status    `json:"status"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// ClickKind distinguishes what the user clicked.
type ClickKind string

const (
	ClickRegion    ClickKind = "region"
	ClickSatellite ClickKind = "satellite"
)

// ClickEvent is a user interaction forwarded to the host page.
type ClickEvent struct {
	Kind ClickKind `json:"kind"`
	Name string    `json:"name"`
}

// Message renders the event in the host bridge format, e.g. "region_clicked:Kayanza".
func (e ClickEvent) Message() string {
	return fmt.Sprintf("%s_clicked:%s", e.Kind, e.Name)
}
