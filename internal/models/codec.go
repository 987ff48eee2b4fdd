package models

import (
	"encoding/json"
	"fmt"
)

// feedEnvelope tags an encoded FeedData with its variant.
type feedEnvelope struct {
	Feed FeedType        `json:"feed"`
	Data json.RawMessage `json:"data"`
}

// FeedCodec encodes FeedData values as tagged JSON so the variant survives a round trip
// through an external store.
type FeedCodec struct{}

// Encode marshals v with its feed tag.
func (FeedCodec) Encode(v FeedData) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("encode feed data: nil value")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", v.Feed(), err)
	}
	return json.Marshal(feedEnvelope{Feed: v.Feed(), Data: data})
}

// Decode restores the concrete FeedData variant named by the envelope tag.
func (FeedCodec) Decode(b []byte) (FeedData, error) {
	var env feedEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode feed envelope: %w", err)
	}

	var v FeedData
	switch env.Feed {
	case FeedWeather:
		v = &WeatherData{}
	case FeedPrices:
		v = &PriceData{}
	case FeedCurrency:
		v = &CurrencyData{}
	case FeedNews:
		v = &NewsData{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeed, env.Feed)
	}

	if err := json.Unmarshal(env.Data, v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Feed, err)
	}
	return v, nil
}
