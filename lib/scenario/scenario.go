//
// Package scenario runs governance scenarios written in yaml against a
// contract host: it deploys the named contracts, then plays the steps in
// order and reports every receipt and the archived outcomes.
//
package scenario

import (
	"io"
	"io/ioutil"
	"os"

	pkgerrors "github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
)

const (
	KindMajority = "majority"
	KindOptOut   = "optout"
	KindLeader   = "leader"
)

type Scenario struct {
	Name      string         `yaml:"name"`
	Delivery  string         `yaml:"delivery"`
	Level     uint64         `yaml:"level"`
	Actors    []string       `yaml:"actors"`
	Contracts []ContractSpec `yaml:"contracts"`
	Steps     []Step         `yaml:"steps"`
}

// ContractSpec deploys a contract of Kind under Name. Address defaults to
// the address derived from Name.
type ContractSpec struct {
	Name    string                 `yaml:"name"`
	Kind    string                 `yaml:"kind"`
	Address string                 `yaml:"address"`
	Admin   string                 `yaml:"admin"`
	Quorum  uint64                 `yaml:"quorum"`
	Params  map[string]interface{} `yaml:"params"`
}

// Step is exactly one of a call, a level move or a funding.
type Step struct {
	Call    *CallStep `yaml:"call"`
	Advance uint64    `yaml:"advance"`
	SetTo   *uint64   `yaml:"level"`
	Fund    *FundStep `yaml:"fund"`

	// ExpectError is the code of the error the call must fail with.
	ExpectError uint `yaml:"expect_error"`
	// ExpectDropped is the number of internal calls expected to be dropped.
	ExpectDropped *int `yaml:"expect_dropped"`
}

type CallStep struct {
	Sender   string      `yaml:"sender"`
	Contract string      `yaml:"contract"`
	Method   string      `yaml:"method"`
	Args     interface{} `yaml:"args"`
}

type FundStep struct {
	Address string        `yaml:"address"`
	Amount  common.Amount `yaml:"amount"`
}

func (s Step) Kind() string {
	switch {
	case s.Call != nil:
		return "call"
	case s.Fund != nil:
		return "fund"
	case s.SetTo != nil:
		return "level"
	default:
		return "advance"
	}
}

func Load(r io.Reader) (*Scenario, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read scenario")
	}

	var s Scenario
	if err = yaml.UnmarshalStrict(b, &s); err != nil {
		return nil, errors.InvalidScenario.Clone().SetData("error", err.Error())
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open scenario %q", path)
	}
	defer f.Close()

	return Load(f)
}

func invalid(k string, v interface{}) error {
	return errors.InvalidScenario.Clone().SetData(k, v)
}

func (s *Scenario) Validate() error {
	names := map[string]bool{}
	for _, name := range s.Actors {
		if len(name) < 1 || names[name] {
			return invalid("actor", name)
		}
		names[name] = true
	}

	for _, c := range s.Contracts {
		if len(c.Name) < 1 || names[c.Name] {
			return invalid("contract", c.Name)
		}
		names[c.Name] = true

		switch c.Kind {
		case KindMajority, KindOptOut, KindLeader:
		default:
			return invalid("kind", c.Kind)
		}
		if len(c.Admin) < 1 {
			return invalid("admin", c.Name)
		}
	}

	for i, step := range s.Steps {
		set := 0
		if step.Call != nil {
			set++
			if len(step.Call.Sender) < 1 || len(step.Call.Contract) < 1 || len(step.Call.Method) < 1 {
				return invalid("step", i)
			}
		}
		if step.Fund != nil {
			set++
		}
		if step.SetTo != nil {
			set++
		}
		if step.Advance > 0 {
			set++
		}
		if set != 1 {
			return invalid("step", i)
		}
		if step.Call == nil && (step.ExpectError > 0 || step.ExpectDropped != nil) {
			return invalid("step", i)
		}
	}

	return nil
}
