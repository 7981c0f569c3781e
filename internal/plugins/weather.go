package plugins

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

type qweatherStatus struct {
	Code string `json:"code"`
}

type geoLookup struct {
	qweatherStatus
	Location []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"location"`
}

type weatherNow struct {
	qweatherStatus
	Now struct {
		Text      string `json:"text"`
		Temp      string `json:"temp"`
		WindDir   string `json:"windDir"`
		WindScale string `json:"windScale"`
		Humidity  string `json:"humidity"`
	} `json:"now"`
}

type weatherDaily struct {
	qweatherStatus
	Daily []struct {
		FxDate    string `json:"fxDate"`
		TextDay   string `json:"textDay"`
		TextNight string `json:"textNight"`
		TempMax   string `json:"tempMax"`
		TempMin   string `json:"tempMin"`
	} `json:"daily"`
}

type weather struct {
	c   *client
	key string
	ep  Endpoints
}

// Weather reports current conditions and a three-day forecast from QWeather.
func Weather(c *client, s Settings) skills.Factory {
	w := &weather{c: c, key: s.WeatherKey, ep: s.Endpoints}
	city := s.DefaultCity
	if city == "" {
		city = "贵阳"
	}
	return skills.Static(schema.NewRequestSkill(schema.Descriptor{
		Keyword:     "天气",
		Description: "获取指定城市的实时天气和未来三天天气预报",
		Usage:       "天气 <城市名称>",
		Example:     "天气\n天气 北京",
		Extra:       map[string]string{"defaultCity": city},
	}, func(ctx context.Context, req schema.Request) (string, error) {
		if w.key == "" {
			return "未配置天气API密钥，请在配置文件中填写 skills.weatherKey", nil
		}
		name := city
		if len(req.Args) > 0 {
			name = req.Args[0]
		}
		return w.report(ctx, name)
	}))
}

func (w *weather) report(ctx context.Context, city string) (string, error) {
	var geo geoLookup
	if err := w.call(ctx, w.ep.GeoLookup, city, &geo); err != nil {
		return "", err
	}
	if geo.Code != "200" || len(geo.Location) == 0 {
		return fmt.Sprintf("无法获取城市'%s'的位置信息，请检查城市名称是否正确", city), nil
	}
	id := geo.Location[0].ID

	var now weatherNow
	var daily weatherDaily
	if err := w.call(ctx, w.ep.WeatherNow, id, &now); err != nil {
		return "", err
	}
	if err := w.call(ctx, w.ep.Weather3Day, id, &daily); err != nil {
		return "", err
	}
	if now.Code != "200" || daily.Code != "200" {
		return "获取天气数据失败，请检查网络或API配置", nil
	}
	return formatWeather(city, now, daily), nil
}

func (w *weather) call(ctx context.Context, endpoint, location string, out any) error {
	q := url.Values{"key": {w.key}, "location": {location}}
	if err := w.c.getJSON(ctx, endpoint, q, out); err != nil {
		return fmt.Errorf("获取天气信息时发生错误: %w", err)
	}
	return nil
}

func formatWeather(city string, now weatherNow, daily weatherDaily) string {
	lines := []string{
		"📍位置：" + city,
		strings.Repeat("-", 15),
		"实时天气：" + now.Now.Text,
		"当前温度：" + now.Now.Temp + "℃",
	}

	var wind []string
	if now.Now.WindDir != "" {
		wind = append(wind, now.Now.WindDir)
	}
	if now.Now.WindScale != "" {
		wind = append(wind, now.Now.WindScale+"级")
	}
	if len(wind) > 0 {
		lines = append(lines, "风力："+strings.Join(wind, " "))
	}
	if now.Now.Humidity != "" {
		lines = append(lines, "湿度："+now.Now.Humidity+"%")
	}

	lines = append(lines, "\n📅未来三天天气预报：")
	for i, d := range daily.Daily {
		if i == 3 {
			break
		}
		lines = append(lines,
			"日期："+d.FxDate,
			fmt.Sprintf("白天：%s，夜间：%s", d.TextDay, d.TextNight),
			fmt.Sprintf("最高温度：%s℃，最低温度：%s℃", d.TempMax, d.TempMin),
			"-",
		)
	}
	return strings.Join(lines, "\n")
}
