package resource

import (
	"github.com/nvellon/hal"
)

type Info struct {
	Version   string
	Level     uint64
	Delivery  string
	Contracts []string
}

func (i Info) GetMap() hal.Entry {
	return hal.Entry{
		"version":   i.Version,
		"level":     i.Level,
		"delivery":  i.Delivery,
		"contracts": i.Contracts,
	}
}

func (i Info) Resource() *hal.Resource {
	r := hal.NewResource(i, i.LinkSelf())
	r.AddLink("calls", hal.NewLink(URLCalls))
	r.AddLink("level", hal.NewLink(URLLevel))
	r.AddLink("contract", hal.NewLink(URLContract, hal.LinkAttr{"templated": true}))
	return r
}

func (i Info) LinkSelf() string {
	return URLInfo
}
