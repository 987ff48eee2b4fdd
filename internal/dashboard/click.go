package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/agripulse/internal/models"
)

// Click handles a user click on a region or satellite. A region click sends
// a pulse from every satellite to the region; a satellite click sends one
// pulse to a random region. Both add a stream entry and notify the host
// bridge. The returned event carries the canonical name.
func (d *Dashboard) Click(ctx context.Context, ev models.ClickEvent) (models.ClickEvent, error) {
	d.mu.Lock()
	switch ev.Kind {
	case models.ClickRegion:
		i := d.regionIndexLocked(ev.Name)
		if i < 0 {
			d.mu.Unlock()
			return ev, fmt.Errorf("%w: region %q", ErrUnknownTarget, ev.Name)
		}
		region := d.regions[i]
		ev.Name = region.Name

		d.appendStreamLocked(models.StatusUpdate{
			Title:   region.Name + " Region",
			Status:  region.Status,
			Message: pickMessage(d.rng, kindRegion),
			At:      d.now(),
		})
		for _, s := range d.satellites {
			d.addPulseLocked(s.Type, region.Name, models.PulseClick, 0)
		}

	case models.ClickSatellite:
		i := d.satelliteByNameLocked(ev.Name)
		if i < 0 {
			d.mu.Unlock()
			return ev, fmt.Errorf("%w: satellite %q", ErrUnknownTarget, ev.Name)
		}
		s := d.satellites[i]
		ev.Name = string(s.Type)

		d.appendStreamLocked(models.StatusUpdate{
			Feed:    s.Type,
			Title:   s.Name,
			Status:  s.Status,
			Message: pickMessage(d.rng, string(s.Type)),
			At:      d.now(),
		})
		d.addPulseLocked(s.Type, d.randomRegionLocked(), models.PulseClick, 0)

	default:
		d.mu.Unlock()
		return ev, fmt.Errorf("%w: kind %q", ErrUnknownTarget, ev.Kind)
	}
	d.mu.Unlock()

	d.bridge.Notify(ctx, ev)
	d.logger.Debug().Str("kind", string(ev.Kind)).Str("name", ev.Name).Msg("click handled")
	return ev, nil
}

// satelliteByNameLocked matches a feed type or a display name.
func (d *Dashboard) satelliteByNameLocked(name string) int {
	for i, s := range d.satellites {
		if string(s.Type) == strings.ToLower(name) || strings.EqualFold(s.Name, name) {
			return i
		}
	}
	return -1
}
