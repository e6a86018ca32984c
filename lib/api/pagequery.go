package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/storage"
)

const (
	DefaultLimit uint64 = 20
	MaxLimit     uint64 = 100
)

// PageQuery reads `cursor`, `limit` and `reverse` of list requests. The
// cursor is the vote id of the last record of the previous page.
type PageQuery struct {
	request *http.Request
	cursor  *uint64
	reverse bool
	limit   uint64
}

func NewPageQuery(r *http.Request) (*PageQuery, error) {
	p := &PageQuery{
		request: r,
		limit:   DefaultLimit,
	}
	err := p.parseRequest()
	return p, err
}

func (p *PageQuery) Limit() uint64 {
	return p.limit
}

func (p *PageQuery) Reverse() bool {
	return p.reverse
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

// ListOptions translates the query for keys made by keyFunc.
func (p *PageQuery) ListOptions(keyFunc func(uint64) string) storage.ListOptions {
	var cursor []byte
	if p.cursor != nil {
		cursor = []byte(keyFunc(*p.cursor))
	}
	return storage.NewDefaultListOptions(p.reverse, cursor, p.limit)
}

func (p *PageQuery) NextLink(cursor uint64) string {
	return p.link(cursor, p.reverse)
}

func (p *PageQuery) PrevLink(cursor uint64) string {
	return p.link(cursor, !p.reverse)
}

func (p *PageQuery) link(cursor uint64, reverse bool) string {
	q := url.Values{}
	q.Set("cursor", strconv.FormatUint(cursor, 10))
	q.Set("limit", strconv.FormatUint(p.limit, 10))
	q.Set("reverse", strconv.FormatBool(reverse))
	return fmt.Sprintf("%s?%s", p.request.URL.Path, q.Encode())
}

func (p *PageQuery) parseRequest() error {
	q := p.request.URL.Query()

	if r := q.Get("reverse"); len(r) > 0 {
		reverse, err := common.ParseBoolQueryString(r)
		if err != nil {
			return errors.BadRequestParameter.Clone().SetData("reverse", r)
		}
		p.reverse = reverse
	}

	if l := q.Get("limit"); len(l) > 0 {
		limit, err := strconv.ParseUint(l, 10, 64)
		if err != nil || limit < 1 {
			return errors.BadRequestParameter.Clone().SetData("limit", l)
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
		p.limit = limit
	}

	if c := q.Get("cursor"); len(c) > 0 {
		cursor, err := strconv.ParseUint(c, 10, 64)
		if err != nil {
			return errors.BadRequestParameter.Clone().SetData("cursor", c)
		}
		p.cursor = &cursor
	}

	return nil
}
