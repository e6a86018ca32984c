package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/net/http2"

	"boscoin.io/dao/lib/api/resource"
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/contract"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/httputils"
)

type RetrySetting struct {
	MaxRetries  int
	Concurrency int
	Backoff     pester.BackoffStrategy
}

var DefaultRetrySetting = RetrySetting{
	MaxRetries:  3,
	Concurrency: 1,
	Backoff:     pester.ExponentialBackoff,
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the api server. Reads are retried; calls are not, since
// a submitted call must not be delivered twice.
type Client struct {
	URL string

	transport *http.Transport
	reader    httpDoer
	writer    httpDoer
}

func NewClient(url string, timeout time.Duration, retry *RetrySetting) (*Client, error) {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		IdleConnTimeout: 90 * time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, err
	}

	hc := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}

	c := &Client{
		URL:       strings.TrimRight(url, "/"),
		transport: transport,
		reader:    hc,
		writer:    hc,
	}

	if retry != nil {
		ec := pester.NewExtendedClient(hc)
		ec.MaxRetries = retry.MaxRetries
		ec.Concurrency = retry.Concurrency
		ec.Backoff = retry.Backoff
		c.reader = ec
	}

	return c, nil
}

func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

// Error is a problem returned by the server.
type Error struct {
	httputils.Problem
}

func (e Error) Error() string {
	if len(e.Detail) > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Title, e.Status, e.Detail)
	}
	if e.Data != nil {
		return fmt.Sprintf("%s (%d): %v", e.Title, e.Status, e.Data)
	}
	return fmt.Sprintf("%s (%d)", e.Title, e.Status)
}

func (c *Client) url(pattern string, replace ...string) string {
	path := strings.NewReplacer(replace...).Replace(pattern)
	return c.URL + path
}

func (c *Client) do(doer httpDoer, req *http.Request, v interface{}) error {
	resp, err := doer.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	decoder := json.NewDecoder(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var p httputils.Problem
		if err = decoder.Decode(&p); err != nil {
			return fmt.Errorf("unexpected response: %s", resp.Status)
		}
		return Error{Problem: p}
	}

	return decoder.Decode(v)
}

func (c *Client) get(url string, v interface{}) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/hal+json")

	return c.do(c.reader, req, v)
}

func (c *Client) post(url string, body interface{}, v interface{}) error {
	b, err := common.EncodeJSONValue(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(c.writer, req, v)
}

type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

type InfoResponse struct {
	Version   string   `json:"version"`
	Level     uint64   `json:"level"`
	Delivery  string   `json:"delivery"`
	Contracts []string `json:"contracts"`
}

type ReceiptResponse struct {
	OperationID string                `json:"operation_id"`
	Level       uint64                `json:"level"`
	Calls       []contract.CallResult `json:"calls"`
	Dropped     int                   `json:"dropped"`
	Hash        string                `json:"hash"`
}

type ContractResponse struct {
	Address string          `json:"address"`
	Balance common.Amount   `json:"balance"`
	Storage json.RawMessage `json:"storage"`
}

type OutcomeResponse struct {
	Links struct {
		Self     Link `json:"self"`
		Contract Link `json:"contract"`
	} `json:"_links"`
	Contract string                 `json:"contract"`
	VoteID   uint64                 `json:"vote_id"`
	Outcome  governance.PollOutcome `json:"outcome"`
	PollData json.RawMessage        `json:"poll_data"`
}

type OutcomesResponse struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []OutcomeResponse `json:"records"`
	} `json:"_embedded"`
}

func (c *Client) Info() (info InfoResponse, err error) {
	err = c.get(c.url(resource.URLInfo), &info)
	return
}

func (c *Client) Submit(sender string, code *payload.ExecCode) (receipt ReceiptResponse, err error) {
	err = c.post(c.url(resource.URLCalls), CallRequest{Sender: sender, ExecCode: *code}, &receipt)
	return
}

func (c *Client) AdvanceLevel(n uint64) (info InfoResponse, err error) {
	err = c.post(c.url(resource.URLLevel), LevelRequest{Advance: n}, &info)
	return
}

func (c *Client) SetLevel(level uint64) (info InfoResponse, err error) {
	err = c.post(c.url(resource.URLLevel), LevelRequest{Level: &level}, &info)
	return
}

func (c *Client) Contract(address string) (r ContractResponse, err error) {
	err = c.get(c.url(resource.URLContract, "{address}", address), &r)
	return
}

func (c *Client) Outcome(address string, voteID uint64) (r OutcomeResponse, err error) {
	err = c.get(c.url(resource.URLOutcome, "{address}", address, "{id}", strconv.FormatUint(voteID, 10)), &r)
	return
}

// Outcomes lists a page of outcomes; pass a nil cursor for the first page
// and a zero limit for the default one.
func (c *Client) Outcomes(address string, cursor *uint64, limit uint64, reverse bool) (r OutcomesResponse, err error) {
	url := c.url(resource.URLOutcomes, "{address}", address)
	url += fmt.Sprintf("?reverse=%t", reverse)
	if limit > 0 {
		url += fmt.Sprintf("&limit=%d", limit)
	}
	if cursor != nil {
		url += fmt.Sprintf("&cursor=%d", *cursor)
	}
	err = c.get(url, &r)
	return
}
