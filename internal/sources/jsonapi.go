package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"prayertimes/internal/components/assert"
	"prayertimes/internal/components/telemetry"
	"prayertimes/internal/prayer"

	"github.com/go-resty/resty/v2"
)

const (
	report_jsonapi_fetch = "json_api.fetch"
	report_jsonapi_parse = "json_api.parse"
)

// jsonApiFields maps the api's timing keys to prayer names.
var jsonApiFields = []struct {
	key  string
	name prayer.Name
}{
	{key: "Fajr", name: prayer.Fajr},
	{key: "Sunrise", name: prayer.Sunrise},
	{key: "Dhuhr", name: prayer.Dhuhr},
	{key: "Asr", name: prayer.Asr},
	{key: "Maghrib", name: prayer.Maghrib},
	{key: "Isha", name: prayer.Isha},
}

type JsonApiQuery struct {
	City    string
	Country string
	Method  int
}

// JsonApi asks a prayer time calculation api (aladhan.com's timingsByCity)
// instead of scraping.
type JsonApi struct {
	name  string
	url   string
	query JsonApiQuery
	http  *resty.Client
	tel   telemetry.API
}

func NewJsonApi(name, url string, query JsonApiQuery, opts HttpOptions, tel telemetry.API) (JsonApi, error) {
	assert.NotEmptyStr(name)
	assert.NotEmptyStr(url)
	assert.NotEmptyStr(query.City)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("sources", tel)
	client, err := newHttpClient(opts, tel)
	if err != nil {
		return JsonApi{}, err
	}
	client.SetHeader("accept", "application/json")

	return JsonApi{
		name:  name,
		url:   url,
		query: query,
		http:  client,
		tel:   tel,
	}, nil
}

func (s JsonApi) Name() string { return s.name }
func (s JsonApi) URL() string  { return s.url }

func (s JsonApi) Fetch(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "JsonApi.Fetch")
	defer span.End()

	body, err := get(ctx, s.http, s.name, s.url, map[string]string{
		"city":    s.query.City,
		"country": s.query.Country,
		"method":  strconv.Itoa(s.query.Method),
	})
	if err != nil {
		s.tel.ReportWarning(report_jsonapi_fetch, err)
		return "", err
	}
	return body, nil
}

type timingsResponse struct {
	Data *struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

func (s JsonApi) Parse(ctx context.Context, raw string) (prayer.PartialSchedule, error) {
	_, span := tracer.Start(ctx, "JsonApi.Parse")
	defer span.End()

	var res timingsResponse
	err := json.Unmarshal([]byte(raw), &res)
	if err != nil {
		s.tel.ReportWarning(report_jsonapi_parse, err)
		return prayer.PartialSchedule{}, &ParseError{Strategy: s.name, Err: fmt.Errorf("decode response: %w", err)}
	}
	if res.Data == nil || res.Data.Timings == nil {
		err := errors.New("response has no data.timings")
		s.tel.ReportWarning(report_jsonapi_parse, err)
		return prayer.PartialSchedule{}, &ParseError{Strategy: s.name, Err: err}
	}

	partial := prayer.NewPartialSchedule()
	for _, field := range jsonApiFields {
		value, ok := res.Data.Timings[field.key]
		if !ok {
			continue
		}
		partial.Record(field.name, TruncateApiTime(value))
	}
	return partial, nil
}

// TruncateApiTime strips the annotation the api appends to times, as in
// "04:50 (IMST)".
func TruncateApiTime(value string) string {
	runes := []rune(value)
	if len(runes) > 5 {
		runes = runes[:5]
	}
	return strings.TrimSpace(string(runes))
}
