// Package plugins holds the extension skills shipped with skillbox. Each
// skill wraps one third-party HTTP API or a small local computation.
package plugins

import (
	"time"

	"github.com/skillbox/skillbox/internal/skills"
)

// Endpoints are the upstream API addresses. Tests point them at httptest
// servers.
type Endpoints struct {
	KFC         string
	Zaobao      string
	Bing        string
	Motou       string
	Meimei      string
	GeoLookup   string
	WeatherNow  string
	Weather3Day string
}

// DefaultEndpoints returns the production API addresses.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		KFC:         "https://api.ahfi.cn/api/kfcv50",
		Zaobao:      "https://zaobao.wpush.cn/api/zaobao/today",
		Bing:        "https://uapis.cn/api/bing",
		Motou:       "https://uapis.cn/api/mt",
		Meimei:      "https://3650000.xyz/api/",
		GeoLookup:   "https://geoapi.qweather.com/v2/city/lookup",
		WeatherNow:  "https://api.qweather.com/v7/weather/now",
		Weather3Day: "https://api.qweather.com/v7/weather/3d",
	}
}

// Settings configures the extension skills.
type Settings struct {
	WeatherKey  string
	DefaultCity string
	Timeout     time.Duration
	Retries     int
	RetryDelay  time.Duration
	MaxImages   int
	SampleImage string // local image used by the 测试 demo; empty omits it
	Endpoints   Endpoints
}

// DefaultSettings returns settings matching the public APIs.
func DefaultSettings() Settings {
	return Settings{
		DefaultCity: "贵阳",
		Timeout:     10 * time.Second,
		Retries:     3,
		RetryDelay:  time.Second,
		MaxImages:   10,
		Endpoints:   DefaultEndpoints(),
	}
}

// All returns the factories of every extension skill in registration order.
func All(s Settings) []skills.Factory {
	c := newClient(s)
	return []skills.Factory{
		Echo(),
		Calc(),
		KFC(c, s.Endpoints.KFC),
		Zaobao(c, s.Endpoints.Zaobao),
		Weather(c, s),
		Bing(c, s.Endpoints.Bing),
		Motou(c, s.Endpoints.Motou),
		Meimei(c, s.Endpoints.Meimei, s.MaxImages),
		RequestDemo(),
		Demo(s.SampleImage),
		WebRead(c),
	}
}
