package plugins

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

func testClient() *client {
	s := DefaultSettings()
	s.RetryDelay = time.Millisecond
	s.Timeout = 2 * time.Second
	return newClient(s)
}

func build(t *testing.T, f skills.Factory) schema.Skill {
	t.Helper()
	s, err := f(nil)
	require.NoError(t, err)
	require.True(t, s.Info().Complete(), "descriptor %+v", s.Info())
	return s
}

func exec(t *testing.T, s schema.Skill, sender string, args ...string) (string, error) {
	t.Helper()
	return s.Execute(context.Background(), schema.Request{
		SenderID: sender,
		Args:     args,
		ArgsText: strings.Join(args, " "),
		Message:  s.Info().Keyword + " " + strings.Join(args, " "),
	})
}

func TestAllRegistersEveryKeyword(t *testing.T) {
	reg := skills.NewRegistryBuilder().WithExtension(All(DefaultSettings())...).Build()
	assert.ElementsMatch(t,
		[]string{"echo", "calc", "kfc", "早报", "天气", "bing", "摸头", "看妹妹", "req_demo", "测试", "网页"},
		reg.ListKeywords())

	kfc, err := reg.Describe("kfc")
	require.NoError(t, err)
	assert.True(t, kfc.ArgumentLess())
	zb, err := reg.Describe("早报")
	require.NoError(t, err)
	assert.True(t, zb.ArgumentLess())
}

func TestEcho(t *testing.T) {
	s := build(t, Echo())
	out, err := exec(t, s, "u1", "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)

	out, _ = exec(t, s, "u1")
	assert.Equal(t, "请在echo后面输入要回显的内容", out)
}

func TestCalc(t *testing.T) {
	s := build(t, Calc())
	tests := map[string]string{
		"1+2*3":       "计算结果: 1+2*3 = 7",
		"(1+2)*3":     "计算结果: (1+2)*3 = 9",
		"1/2":         "计算结果: 1/2 = 0.5",
		"-3 - -2":     "计算结果: -3 - -2 = -1",
		"2 * (3 + 4)": "计算结果: 2 * (3 + 4) = 14",
		"1/0":         "计算错误: division by zero",
		"1+":          "计算错误: invalid syntax: unexpected end of expression",
		"(1+2":        "计算错误: unbalanced parentheses",
		"1+2)":        "计算错误: unbalanced parentheses",
	}
	for in, want := range tests {
		out, err := exec(t, s, "u1", strings.Fields(in)...)
		require.NoError(t, err, in)
		assert.Equal(t, want, out, in)
	}

	out, _ := exec(t, s, "u1", "2^3")
	assert.Contains(t, out, "表达式包含不允许的字符")
	out, _ = exec(t, s, "u1")
	assert.Contains(t, out, "请输入要计算的表达式")
}

func TestKFC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("type"))
		fmt.Fprint(w, `{"code":200,"data":{"copywriting":"v我50"}}`)
	}))
	defer srv.Close()

	out, err := exec(t, build(t, KFC(testClient(), srv.URL)), "u1")
	require.NoError(t, err)
	assert.Equal(t, "v我50", out)
}

func TestKFCUpstreamFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := exec(t, build(t, KFC(testClient(), srv.URL)), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, errStatus)
	assert.Equal(t, int32(3), hits.Load())
}

func TestZaobao(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":{"image":"https://img.test/today.png"}}`)
	}))
	defer srv.Close()

	out, err := exec(t, build(t, Zaobao(testClient(), srv.URL)), "u1")
	require.NoError(t, err)
	assert.Equal(t, "![早报图片](https://img.test/today.png)", out)
}

func TestBingFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/bing", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("rand"))
		assert.Equal(t, "7", r.URL.Query().Get("day"))
		assert.Equal(t, "1920x1080", r.URL.Query().Get("size"))
		http.Redirect(w, r, "/img/today.jpg", http.StatusFound)
	})
	mux.HandleFunc("/img/today.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := exec(t, build(t, Bing(testClient(), srv.URL+"/api/bing")), "u1", "12", "1920x1080")
	require.NoError(t, err)
	assert.Equal(t, "今日Bing图片：\n![Bing Image]("+srv.URL+"/img/today.jpg)", out)
}

func TestMotouTarget(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.URL.Query().Get("qq"))
	}))
	defer srv.Close()
	s := build(t, Motou(testClient(), srv.URL))

	out, err := s.Execute(context.Background(), schema.Request{SenderID: "555", ArgsText: "@1234"})
	require.NoError(t, err)
	assert.Equal(t, "1234", got.Load())
	assert.Equal(t, "![摸头]("+srv.URL+"?qq=1234)", out)

	_, err = s.Execute(context.Background(), schema.Request{SenderID: "555"})
	require.NoError(t, err)
	assert.Equal(t, "555", got.Load())
}

func TestMeimeiCapsAndReportsFailures(t *testing.T) {
	var n atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1,3,5,8", r.URL.Query().Get("mode"))
		i := n.Add(1)
		fmt.Fprintf(w, `{"code":200,"url":"https://img.test/%d.jpg"}`, i)
	}))
	defer srv.Close()

	out, err := exec(t, build(t, Meimei(testClient(), srv.URL, 3)), "u1", "看5张")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "大人您看了5下，但是不行哦，只能看3下", lines[0])
	assert.Equal(t, 3, strings.Count(out, "![随机图片"))
	assert.Equal(t, 2, strings.Count(out, "---"))
	assert.Equal(t, int32(3), n.Load())
}

func TestMeimeiRetriesBusinessErrors(t *testing.T) {
	var n atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) < 3 {
			fmt.Fprint(w, `{"code":500}`)
			return
		}
		fmt.Fprint(w, `{"code":200,"url":"https://img.test/ok.jpg"}`)
	}))
	defer srv.Close()

	out, err := exec(t, build(t, Meimei(testClient(), srv.URL, 10)), "u1")
	require.NoError(t, err)
	assert.Equal(t, "![随机图片1](https://img.test/ok.jpg)", out)
}

func TestMeimeiAllAttemptsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":403}`)
	}))
	defer srv.Close()

	out, err := exec(t, build(t, Meimei(testClient(), srv.URL, 10)), "u1", "2")
	require.NoError(t, err)
	assert.Equal(t, "[失败] 第1次获取图片: API异常 code=403\n---\n[失败] 第2次获取图片: API异常 code=403", out)
}

func TestRequestedCount(t *testing.T) {
	assert.Equal(t, 1, requestedCount(nil))
	assert.Equal(t, 1, requestedCount([]string{"abc"}))
	assert.Equal(t, 3, requestedCount([]string{"3"}))
	assert.Equal(t, 12, requestedCount([]string{"1张2张"}))
}

func weatherServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		if r.URL.Query().Get("location") == "火星" {
			fmt.Fprint(w, `{"code":"404"}`)
			return
		}
		fmt.Fprint(w, `{"code":"200","location":[{"id":"101260101","name":"贵阳"}]}`)
	})
	mux.HandleFunc("/now", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "101260101", r.URL.Query().Get("location"))
		fmt.Fprint(w, `{"code":"200","now":{"text":"多云","temp":"21","windDir":"东南风","windScale":"2","humidity":"80"}}`)
	})
	mux.HandleFunc("/3d", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"200","daily":[
			{"fxDate":"2026-10-18","textDay":"晴","textNight":"多云","tempMax":"25","tempMin":"15"},
			{"fxDate":"2026-10-19","textDay":"小雨","textNight":"阴","tempMax":"20","tempMin":"14"},
			{"fxDate":"2026-10-20","textDay":"阴","textNight":"阴","tempMax":"19","tempMin":"13"},
			{"fxDate":"2026-10-21","textDay":"晴","textNight":"晴","tempMax":"22","tempMin":"12"}]}`)
	})
	return httptest.NewServer(mux)
}

func TestWeather(t *testing.T) {
	srv := weatherServer(t)
	defer srv.Close()

	s := DefaultSettings()
	s.WeatherKey = "k"
	s.Endpoints.GeoLookup = srv.URL + "/geo"
	s.Endpoints.WeatherNow = srv.URL + "/now"
	s.Endpoints.Weather3Day = srv.URL + "/3d"
	skill := build(t, Weather(testClient(), s))

	out, err := exec(t, skill, "u1")
	require.NoError(t, err)
	want := strings.Join([]string{
		"📍位置：贵阳",
		"---------------",
		"实时天气：多云",
		"当前温度：21℃",
		"风力：东南风 2级",
		"湿度：80%",
		"\n📅未来三天天气预报：",
		"日期：2026-10-18", "白天：晴，夜间：多云", "最高温度：25℃，最低温度：15℃", "-",
		"日期：2026-10-19", "白天：小雨，夜间：阴", "最高温度：20℃，最低温度：14℃", "-",
		"日期：2026-10-20", "白天：阴，夜间：阴", "最高温度：19℃，最低温度：13℃", "-",
	}, "\n")
	assert.Equal(t, want, out)

	out, err = exec(t, skill, "u1", "火星")
	require.NoError(t, err)
	assert.Equal(t, "无法获取城市'火星'的位置信息，请检查城市名称是否正确", out)
}

func TestWeatherWithoutKey(t *testing.T) {
	out, err := exec(t, build(t, Weather(testClient(), DefaultSettings())), "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "未配置天气API密钥")
}

func TestDemoAndRequestDemo(t *testing.T) {
	demo := build(t, Demo("/srv/media/icon.png"))
	assert.True(t, demo.Info().NeedsMention)
	out, err := exec(t, demo, "u1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "本地图片示例：![本地图片](/srv/media/icon.png)\n"))
	assert.Equal(t, 2, strings.Count(out, demoImageURL))

	out, err = exec(t, demo, "u1", "a", "b")
	require.NoError(t, err)
	assert.Contains(t, out, "测试结果: a b")
	assert.Contains(t, out, "发送者ID: u1")

	rd := build(t, RequestDemo())
	assert.True(t, rd.Info().NeedsMention)
	out, err = exec(t, rd, "u7", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "发送者ID (sender_id): u7")
	assert.Contains(t, out, "收到参数: x")
}

func TestWebRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<!doctype html><html><head><title>Go 1.25 发布</title>
<meta name="description" content="新版本带来了容器感知的 GOMAXPROCS。"></head>
<body><article><h1>Go 1.25 发布</h1><p>新版本带来了容器感知的 GOMAXPROCS，以及实验性的垃圾回收器。
这一段落足够长，以便可读性算法将其识别为正文内容而不是导航或页脚。</p></article></body></html>`)
	}))
	defer srv.Close()

	out, err := exec(t, build(t, WebRead(testClient())), "u1", srv.URL+"/post")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "📰 Go 1.25 发布\n"), out)
	assert.Contains(t, out, "GOMAXPROCS")
	assert.True(t, strings.HasSuffix(out, srv.URL+"/post"))

	out, err = exec(t, build(t, WebRead(testClient())), "u1", "ftp://x")
	require.NoError(t, err)
	assert.Equal(t, "只支持 http/https 链接", out)
}
