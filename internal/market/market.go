// Package market simulates the local coffee market that drives the market
// satellite: a base price in BIF/kg shifted by random supply and demand events.
package market

import (
	"sync"
	"time"

	"github.com/bobmcallan/agripulse/internal/common"
)

const (
	// BasePrice is the opening price in BIF per kg.
	BasePrice = 4800.0
	// EventProbability is the chance of an event on each Step.
	EventProbability = 0.1
	// BIFPerUSDPound converts BIF/kg to USD/lb.
	BIFPerUSDPound = 1960.0

	maxEvents    = 50
	recentEvents = 3
	// maxHistory bounds the in-memory quote history behind Trends.
	maxHistory = 100
)

// Trends.
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"
)

// EventKind identifies a market event.
type EventKind string

const (
	EventFrost   EventKind = "frost"
	EventHarvest EventKind = "harvest"
	EventDemand  EventKind = "demand"
	EventWeather EventKind = "weather"
	EventQuality EventKind = "quality"
)

// EventTemplate describes an event that may occur.
type EventTemplate struct {
	Kind        EventKind
	Impact      int
	Description string
}

// Events is the catalogue Step draws from.
var Events = []EventTemplate{
	{Kind: EventFrost, Impact: 150, Description: "Brazilian frost detected"},
	{Kind: EventHarvest, Impact: -80, Description: "Bumper harvest in Vietnam"},
	{Kind: EventDemand, Impact: 120, Description: "Strong demand from Europe"},
	{Kind: EventWeather, Impact: 50, Description: "Drought concerns in Colombia"},
	{Kind: EventQuality, Impact: 30, Description: "Burundi coffee wins quality award"},
}

// Event is an occurred market event.
type Event struct {
	Kind        EventKind `json:"type"`
	Impact      int       `json:"impact"`
	Description string    `json:"description"`
	At          time.Time `json:"timestamp"`
}

// Quote is a point-in-time price derived from the base price.
type Quote struct {
	PriceBIFPerKg float64   `json:"price_bif_per_kg"`
	PriceUSDPerLb float64   `json:"price_usd_per_lb"`
	ChangePercent float64   `json:"change_percent"`
	At            time.Time `json:"timestamp"`
}

// Snapshot is the market state exposed to clients.
type Snapshot struct {
	BasePrice    float64 `json:"base_price"`
	Trend        string  `json:"trend"`
	RecentEvents []Event `json:"recent_events"`
	Quote        Quote   `json:"quote"`
}

// Simulator is safe for concurrent use.
type Simulator struct {
	mu           sync.Mutex
	base         float64
	lastPrice    float64
	trend        string
	events       []Event
	quote        Quote
	history      []PricePoint
	regionPrices map[string]float64
	spread       common.Random
	now          func() time.Time
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSpreadRandom sets the source for per-region price offsets. It is kept
// apart from the Step source so regional spreads do not disturb the event
// sequence.
func WithSpreadRandom(r common.Random) Option {
	return func(s *Simulator) {
		if r != nil {
			s.spread = r
		}
	}
}

// NewSimulator creates a simulator at BasePrice. A nil clock uses time.Now.
func NewSimulator(now func() time.Time, opts ...Option) *Simulator {
	if now == nil {
		now = time.Now
	}
	s := &Simulator{
		base:      BasePrice,
		lastPrice: BasePrice,
		trend:     TrendStable,
		now:       now,
		quote:     Quote{PriceBIFPerKg: BasePrice, PriceUSDPerLb: BasePrice / BIFPerUSDPound},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.spread == nil {
		s.spread = common.NewRandom(0)
	}
	s.spreadLocked(BasePrice)
	return s
}

// Step advances the market by one tick. It returns the event that occurred,
// or nil when none did. Each step also moves the quoted price around the base.
func (s *Simulator) Step(r common.Random) *Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var ev *Event
	if r.Float64() < EventProbability {
		tpl := Events[r.Intn(len(Events))]
		e := Event{Kind: tpl.Kind, Impact: tpl.Impact, Description: tpl.Description, At: now}
		s.events = append(s.events, e)
		if len(s.events) > maxEvents {
			s.events = s.events[len(s.events)-maxEvents:]
		}
		s.base += float64(tpl.Impact)
		s.trend = trendOf(s.recentLocked())
		ev = &e
	}

	price := s.base + (r.Float64()*70 - 30)
	s.quote = Quote{
		PriceBIFPerKg: price,
		PriceUSDPerLb: price / BIFPerUSDPound,
		ChangePercent: (price - s.lastPrice) / s.lastPrice * 100,
		At:            now,
	}
	s.lastPrice = price
	s.history = append(s.history, PricePoint{Price: price, At: now})
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
	s.spreadLocked(price)
	return ev
}

// Snapshot returns the current market state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := s.recentLocked()
	out := make([]Event, len(recent))
	copy(out, recent)
	return Snapshot{
		BasePrice:    s.base,
		Trend:        s.trend,
		RecentEvents: out,
		Quote:        s.quote,
	}
}

func (s *Simulator) recentLocked() []Event {
	if len(s.events) <= recentEvents {
		return s.events
	}
	return s.events[len(s.events)-recentEvents:]
}

// trendOf sums the impacts of the given events.
func trendOf(events []Event) string {
	sum := 0
	for _, e := range events {
		sum += e.Impact
	}
	switch {
	case sum > 0:
		return TrendRising
	case sum < 0:
		return TrendFalling
	default:
		return TrendStable
	}
}
