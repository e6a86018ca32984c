package scenario

import (
	"sort"

	logging "github.com/inconshreveable/log15"
	yaml "gopkg.in/yaml.v2"

	"boscoin.io/dao/lib/common/keypair"
	"boscoin.io/dao/lib/contract"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/governance/leader"
	"boscoin.io/dao/lib/governance/majority"
	"boscoin.io/dao/lib/governance/optout"
	"boscoin.io/dao/lib/ledger"
	"boscoin.io/dao/lib/storage"
)

type Runner struct {
	host   *contract.Host
	ledger *ledger.Ledger
	log    logging.Logger
}

func NewRunner(h *contract.Host, l *ledger.Ledger) *Runner {
	return &Runner{
		host:   h,
		ledger: l,
		log:    log.New(logging.Ctx{"delivery": h.Mode()}),
	}
}

// Play runs s on a fresh host over st, delivering as s asks.
func Play(st *storage.LevelDBBackend, s *Scenario) (*Report, error) {
	mode, err := contract.ParseDeliveryMode(s.Delivery)
	if err != nil {
		return nil, invalid("delivery", s.Delivery)
	}

	h, err := contract.NewHost(st, mode)
	if err != nil {
		return nil, err
	}
	l, err := ledger.New(ledger.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	return NewRunner(h, l).Run(s)
}

func (r *Runner) Host() *contract.Host {
	return r.host
}

// Run deploys the contracts of s and plays its steps in order. It stops at
// the first step which does not end as expected; the report then covers
// the steps played so far.
func (r *Runner) Run(s *Scenario) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(s.Delivery) > 0 {
		mode, err := contract.ParseDeliveryMode(s.Delivery)
		if err != nil || mode != r.host.Mode() {
			return nil, invalid("delivery", s.Delivery)
		}
	}

	report := newReport(s, r.host)

	names := r.resolve(s)
	for _, name := range s.Actors {
		report.Actors[name] = names[name]
	}
	for _, c := range s.Contracts {
		report.Contracts[c.Name] = names[c.Name]
	}

	if s.Level > r.host.Level() {
		if err := r.host.SetLevel(s.Level); err != nil {
			return nil, err
		}
	}

	if err := r.deployAll(s, names); err != nil {
		return report, err
	}

	var stepErr error
	for i, step := range s.Steps {
		result, err := r.play(i, step, names)
		report.Steps = append(report.Steps, result)
		if err != nil {
			stepErr = err
			break
		}
	}

	if err := r.finish(report, s, names); err != nil {
		return report, err
	}

	return report, stepErr
}

// Deploy only deploys the contracts of s and returns the address of every
// name. Contracts which already have storage keep it.
func (r *Runner) Deploy(s *Scenario) (map[string]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	names := r.resolve(s)
	if err := r.deployAll(s, names); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *Runner) deployAll(s *Scenario, names map[string]string) error {
	for _, spec := range s.Contracts {
		if err := r.deploy(spec, names); err != nil {
			return err
		}
		r.log.Debug("contract deployed", "name", spec.Name, "kind", spec.Kind, "address", names[spec.Name])
	}
	return nil
}

func (r *Runner) resolve(s *Scenario) map[string]string {
	names := map[string]string{}
	for _, name := range s.Actors {
		names[name] = keypair.ActorAddress(name)
	}
	for _, c := range s.Contracts {
		if len(c.Address) > 0 {
			names[c.Name] = c.Address
		} else {
			names[c.Name] = keypair.ContractAddress(c.Name)
		}
	}
	return names
}

func substitute(names map[string]string, s string) string {
	if address, found := names[s]; found {
		return address
	}
	return s
}

func (r *Runner) deploy(spec ContractSpec, names map[string]string) error {
	admin := substitute(names, spec.Admin)

	var c contract.Contract
	switch spec.Kind {
	case KindMajority:
		params := majority.NewDefaultParams()
		if err := overlay(spec.Params, &params); err != nil {
			return err
		}
		quorum := spec.Quorum
		if quorum < 1 {
			quorum = majority.DefaultQuorum
		}
		c = majority.New(admin, params, quorum)
	case KindOptOut:
		params := optout.NewDefaultParams()
		if err := overlay(spec.Params, &params); err != nil {
			return err
		}
		c = optout.New(admin, params)
	case KindLeader:
		c = leader.New(admin, r.ledger)
	}

	if err := r.host.Deploy(names[spec.Name], c); err != nil {
		return errors.InvalidScenario.Clone().
			SetData("contract", spec.Name).
			SetData("error", err.Error())
	}
	return nil
}

// overlay writes the given parameters over the defaults already in v.
func overlay(params map[string]interface{}, v interface{}) error {
	if len(params) < 1 {
		return nil
	}

	b, err := yaml.Marshal(params)
	if err != nil {
		return invalid("params", err.Error())
	}
	if err = yaml.UnmarshalStrict(b, v); err != nil {
		return invalid("params", err.Error())
	}
	return nil
}

// normalize turns the yaml decoded args into json compatible values,
// replacing every actor or contract name by its address.
func normalize(names map[string]string, v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return substitute(names, t)
	case map[interface{}]interface{}:
		m := map[string]interface{}{}
		for k, i := range t {
			m[keyString(k)] = normalize(names, i)
		}
		return m
	case map[string]interface{}:
		m := map[string]interface{}{}
		for k, i := range t {
			m[k] = normalize(names, i)
		}
		return m
	case []interface{}:
		l := make([]interface{}, len(t))
		for i, e := range t {
			l[i] = normalize(names, e)
		}
		return l
	default:
		return v
	}
}

func keyString(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	b, _ := yaml.Marshal(k)
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	return string(b)
}

func (r *Runner) play(index int, step Step, names map[string]string) (StepResult, error) {
	result := StepResult{Index: index, Kind: step.Kind()}

	var err error
	switch {
	case step.Fund != nil:
		address := substitute(names, step.Fund.Address)
		err = r.host.Fund(address, step.Fund.Amount)
	case step.SetTo != nil:
		err = r.host.SetLevel(*step.SetTo)
	case step.Call != nil:
		return r.call(result, step, names)
	default:
		_, err = r.host.AdvanceLevel(step.Advance)
	}
	result.Level = r.host.Level()

	if err != nil {
		result.Error = errors.FromError(err)
		return result, stepFailed(index, err)
	}
	return result, nil
}

func (r *Runner) call(result StepResult, step Step, names map[string]string) (StepResult, error) {
	sender := substitute(names, step.Call.Sender)
	address := substitute(names, step.Call.Contract)

	var args interface{}
	if step.Call.Args != nil {
		args = normalize(names, step.Call.Args)
	}
	code, err := payload.NewExecCode(address, step.Call.Method, args)
	if err != nil {
		return result, stepFailed(result.Index, err)
	}

	result.Sender = sender
	result.Contract = address
	result.Method = step.Call.Method

	receipt, err := r.host.Submit(sender, code)
	result.Receipt = receipt
	result.Level = r.host.Level()
	if err != nil {
		result.Error = errors.FromError(err)
	}

	r.log.Debug("step played", "index", result.Index, "method", result.Method, "contract", address, "error", err)

	if step.ExpectError > 0 {
		if err == nil {
			return result, errors.UnexpectedStepSuccess.Clone().
				SetData("step", result.Index).
				SetData("expected", step.ExpectError)
		}
		if result.Error.Code != step.ExpectError {
			return result, stepFailed(result.Index, err).SetData("expected", step.ExpectError)
		}
	} else if err != nil {
		return result, stepFailed(result.Index, err)
	}

	if step.ExpectDropped != nil && receipt != nil {
		if dropped := len(receipt.Dropped()); dropped != *step.ExpectDropped {
			return result, errors.ScenarioStepFailed.Clone().
				SetData("step", result.Index).
				SetData("dropped", dropped).
				SetData("expected_dropped", *step.ExpectDropped)
		}
	}

	return result, nil
}

func stepFailed(index int, err error) *errors.Error {
	return errors.ScenarioStepFailed.Clone().
		SetData("step", index).
		SetData("error", err.Error())
}

func (r *Runner) finish(report *Report, s *Scenario, names map[string]string) error {
	report.Level = r.host.Level()

	return r.host.View(func(st *storage.LevelDBBackend) error {
		for _, spec := range s.Contracts {
			address := names[spec.Name]
			c, found := r.host.Contract(address)
			if !found {
				continue
			}

			outcomes, err := governance.ListOutcomes(st, address, storage.NewDefaultListOptions(false, nil, 0))
			if err != nil {
				return err
			}
			if len(outcomes) > 0 {
				report.Outcomes[spec.Name] = outcomes
			}

			if viewer, ok := c.(governance.Viewer); ok {
				view, err := viewer.View(st, address)
				if err != nil {
					return err
				}
				report.Storage[spec.Name] = view
			}
		}
		return nil
	})
}

// Names returns the names of the report's contracts in order.
func (r *Report) Names() []string {
	var names []string
	for name := range r.Contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
