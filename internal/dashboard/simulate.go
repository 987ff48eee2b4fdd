package dashboard

import (
	"context"
	"time"

	"github.com/bobmcallan/agripulse/internal/classify"
	"github.com/bobmcallan/agripulse/internal/models"
)

// Simulation probabilities and spacing.
const (
	correlationProbability = 0.4
	outbreakProbability    = 0.2
	statusDriftProbability = 0.15
	burstProbability       = 0.3

	correlationDelay = time.Second
	outbreakStagger  = 500 * time.Millisecond
	burstSpacing     = 300 * time.Millisecond
)

// SimulateTick runs one simulation step: a possible weather/price
// correlation, a possible disease outbreak, a market step and random status
// drift on each satellite.
func (d *Dashboard) SimulateTick() {
	d.mu.Lock()
	var changes []statusChange
	now := d.now()

	if d.rng.Float64() < correlationProbability {
		first := d.regions[0].Name
		d.addPulseLocked(models.FeedWeather, first, models.PulseCorrelation, 0)
		d.addPulseLocked(models.FeedPrices, first, models.PulseCorrelation, correlationDelay)
		d.appendStreamLocked(models.StatusUpdate{
			Title:   "Correlation Detected",
			Status:  models.StatusWatch,
			Message: pickMessage(d.rng, kindCorrelation),
			At:      now,
		})
	}

	if d.rng.Float64() < outbreakProbability {
		for i := range d.regions {
			d.addPulseLocked(models.FeedDisease, d.regions[i].Name, models.PulseOutbreak, time.Duration(i)*outbreakStagger)
			d.regions[i].Status = models.StatusThreat
		}
		d.appendStreamLocked(models.StatusUpdate{
			Feed:    models.FeedDisease,
			Title:   "Disease Alert",
			Status:  models.StatusThreat,
			Message: pickMessage(d.rng, string(models.FeedDisease)),
			At:      now,
		})
	}

	if ev := d.market.Step(d.rng); ev != nil {
		changes = append(changes, d.applyStatusLocked(models.FeedMarket, classify.MarketEvent(ev.Impact), ev.Description, nil)...)
	}

	for i := range d.satellites {
		if d.rng.Float64() >= statusDriftProbability {
			continue
		}
		changes = append(changes, d.setStatusLocked(i, d.driftStatus(d.satellites[i].Type)))
	}

	sinks := d.sinksLocked()
	d.mu.Unlock()

	d.notify(sinks, changes)
}

// driftStatus picks a random status biased by feed type.
func (d *Dashboard) driftStatus(feed models.FeedType) models.Status {
	switch feed {
	case models.FeedPrices:
		if d.rng.Float64() < 0.6 {
			return models.StatusThreat
		}
		return models.StatusWatch
	case models.FeedWeather:
		if d.rng.Float64() < 0.4 {
			return models.StatusThreat
		}
		return models.StatusOpportunity
	case models.FeedDisease:
		if d.rng.Float64() < 0.7 {
			return models.StatusThreat
		}
		return models.StatusWatch
	default:
		return models.Statuses[d.rng.Intn(len(models.Statuses))]
	}
}

// BurstTick possibly fires an intelligence burst of 3 to 5 pulses from random
// satellites to random regions. It returns the number of pulses emitted.
func (d *Dashboard) BurstTick() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rng.Float64() >= burstProbability {
		return 0
	}

	n := 3 + d.rng.Intn(3)
	for i := 0; i < n; i++ {
		from := d.satellites[d.rng.Intn(len(d.satellites))].Type
		to := d.randomRegionLocked()
		d.addPulseLocked(from, to, models.PulseBurst, time.Duration(i)*burstSpacing)
	}
	d.appendStreamLocked(models.StatusUpdate{
		Title:   "AI Analysis",
		Status:  models.StatusOpportunity,
		Message: pickMessage(d.rng, kindAI),
		At:      d.now(),
	})
	return n
}

// Run performs an initial refresh and then drives the simulation, burst and
// refresh cycles until ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) {
	d.logger.Info().
		Dur("simulation_interval", d.cfg.SimulationInterval).
		Dur("refresh_interval", d.cfg.RefreshInterval).
		Dur("burst_interval", d.cfg.BurstInterval).
		Msg("dashboard cycles started")

	d.refreshCycle(ctx)

	sim := time.NewTicker(d.cfg.SimulationInterval)
	defer sim.Stop()
	burst := time.NewTicker(d.cfg.BurstInterval)
	defer burst.Stop()
	refresh := time.NewTicker(d.cfg.RefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("dashboard cycles stopped")
			return
		case <-sim.C:
			d.SimulateTick()
		case <-burst.C:
			d.BurstTick()
		case <-refresh.C:
			d.refreshCycle(ctx)
		}
	}
}

// refreshCycle runs one scheduled refresh and logs a single summary of any
// feed failures. Cancellation is not reported.
func (d *Dashboard) refreshCycle(ctx context.Context) {
	if err := d.RefreshRealData(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		d.logger.Warn().Err(err).Msg("feed refresh cycle completed with errors")
	}
}
