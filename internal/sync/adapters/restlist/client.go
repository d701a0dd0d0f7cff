// Package restlist talks to the external list store over its REST protocol:
//
//	GET   {base}/lists/{list}/items?$filter=...&$top=n&$skip=k  -> {"value":[...], "@odata.nextLink":"..."}
//	POST  {base}/lists/{list}/items                             -> created item
//	PATCH {base}/lists/{list}/items/{id}                        -> updated item
//
// Queries read every page: a nextLink is followed when present, otherwise
// $skip advances until a page comes back shorter than $top.
package restlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	kpidomain "facility-kpi-service/internal/kpi/core/domain"
	kpiports "facility-kpi-service/internal/kpi/core/ports"
	reportports "facility-kpi-service/internal/reports/core/ports"
	"facility-kpi-service/internal/sync/core/listschema"
	"facility-kpi-service/internal/sync/core/ports"
)

var ErrStoreStatus = errors.New("list store returned an error status")

const (
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 5000
)

type Config struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	PageSize      int
	DailyListName string

	// HTTPClient overrides the transport; nil uses a plain fasthttp.Client.
	HTTPClient *fasthttp.Client
}

type Client struct {
	http          *fasthttp.Client
	baseURL       string
	token         string
	timeout       time.Duration
	pageSize      int
	dailyListName string
}

func NewClient(cfg Config) *Client {
	c := &Client{
		http:          cfg.HTTPClient,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		token:         cfg.Token,
		timeout:       cfg.Timeout,
		pageSize:      cfg.PageSize,
		dailyListName: cfg.DailyListName,
	}
	if c.http == nil {
		c.http = &fasthttp.Client{Name: "facility-kpi-service"}
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	return c
}

var (
	_ ports.SummaryStorePort         = (*Client)(nil)
	_ reportports.SummaryQueryPort   = (*Client)(nil)
	_ kpiports.DailyRecordReaderPort = (*Client)(nil)
)

type listResponse[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

func (c *Client) FindByKey(ctx context.Context, listName, key string) (*listschema.ExternalRecord, error) {
	var res listResponse[listschema.ExternalRecord]
	if err := c.do(ctx, fasthttp.MethodGet, c.pageURL(listName, listschema.KeyFilter(key), 1, 0), nil, &res); err != nil {
		return nil, err
	}
	if len(res.Value) == 0 {
		return nil, nil
	}
	return &res.Value[0], nil
}

func (c *Client) Create(ctx context.Context, listName string, fields listschema.ExternalRecord) (listschema.ExternalRecord, error) {
	fields.ID = 0

	var out listschema.ExternalRecord
	if err := c.do(ctx, fasthttp.MethodPost, c.itemsURL(listName), fields, &out); err != nil {
		return listschema.ExternalRecord{}, err
	}
	if !out.HasID() {
		return listschema.ExternalRecord{}, fmt.Errorf("create in %s: no identifier returned", listName)
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, listName string, id int, fields listschema.ExternalRecord) (listschema.ExternalRecord, error) {
	fields.ID = 0

	var out listschema.ExternalRecord
	if err := c.do(ctx, fasthttp.MethodPatch, c.itemsURL(listName)+"/"+strconv.Itoa(id), fields, &out); err != nil {
		return listschema.ExternalRecord{}, err
	}
	if !out.HasID() {
		out.ID = id
	}
	return out, nil
}

func (c *Client) QuerySummaries(ctx context.Context, listName string, f listschema.MonthlyFilter) ([]listschema.ExternalRecord, error) {
	return listAll[listschema.ExternalRecord](ctx, c, listName, f.Build())
}

// ListDailyRecords reads the daily list restricted to one month, so the
// result can be aggregated as-is.
func (c *Client) ListDailyRecords(ctx context.Context, f kpiports.DailyRecordFilter) ([]kpidomain.DailyRecord, error) {
	filter := listschema.DailyFilter{YearMonth: f.YearMonth, UserIDs: f.UserIDs}

	rows, err := listAll[listschema.ExternalDailyRecord](ctx, c, c.dailyListName, filter.Build())
	if err != nil {
		return nil, err
	}

	records := make([]kpidomain.DailyRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.ToDailyRecord())
	}
	return records, nil
}

// listAll reads every page matching filter.
func listAll[T any](ctx context.Context, c *Client, listName, filter string) ([]T, error) {
	var out []T
	next, skip := c.pageURL(listName, filter, c.pageSize, 0), 0

	for next != "" {
		var page listResponse[T]
		if err := c.do(ctx, fasthttp.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Value...)

		switch {
		case page.NextLink != "":
			next = page.NextLink
		case len(page.Value) >= c.pageSize:
			skip += len(page.Value)
			next = c.pageURL(listName, filter, c.pageSize, skip)
		default:
			next = ""
		}
	}
	return out, nil
}

func (c *Client) pageURL(listName, filter string, top, skip int) string {
	q := url.Values{}
	if filter != "" {
		q.Set("$filter", filter)
	}
	q.Set("$top", strconv.Itoa(top))
	if skip > 0 {
		q.Set("$skip", strconv.Itoa(skip))
	}
	return c.itemsURL(listName) + "?" + q.Encode()
}

func (c *Client) itemsURL(listName string) string {
	return c.baseURL + "/lists/" + url.PathEscape(listName) + "/items"
}

func (c *Client) do(ctx context.Context, method, uri string, body, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URI().Path(), err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: %s %s: %d %s", ErrStoreStatus, method, req.URI().Path(), status, snippet(resp.Body()))
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
