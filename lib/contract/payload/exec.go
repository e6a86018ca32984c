package payload

import (
	"encoding/json"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
)

// ExecCode is one call to a contract entrypoint. Args keeps the raw json so
// every entrypoint decodes its own parameter type.
type ExecCode struct {
	ContractAddress string          `json:"contract"`
	Method          string          `json:"method"`
	Args            json.RawMessage `json:"args,omitempty"`
}

func NewExecCode(contractAddress, method string, args interface{}) (*ExecCode, error) {
	ec := &ExecCode{
		ContractAddress: contractAddress,
		Method:          method,
	}
	if args == nil {
		return ec, nil
	}

	b, err := common.EncodeJSONValue(args)
	if err != nil {
		return nil, errors.InvalidPayload.Clone().SetData("error", err.Error())
	}
	ec.Args = b

	return ec, nil
}

func MustNewExecCode(contractAddress, method string, args interface{}) *ExecCode {
	ec, err := NewExecCode(contractAddress, method, args)
	if err != nil {
		panic(err)
	}
	return ec
}

// DecodeArgs fills v from Args; missing or malformed arguments are reported
// as InvalidPayload.
func (ec *ExecCode) DecodeArgs(v interface{}) error {
	if len(ec.Args) < 1 {
		return errors.InvalidPayload
	}
	if err := common.DecodeJSONValue(ec.Args, v); err != nil {
		return errors.InvalidPayload
	}
	return nil
}

func (ec *ExecCode) Serialize() (encoded []byte, err error) {
	encoded, err = common.EncodeJSONValue(ec)
	return
}

func (ec *ExecCode) Deserialize(encoded []byte) (err error) {
	err = common.DecodeJSONValue(encoded, ec)
	return
}

func (ec ExecCode) String() string {
	return string(common.MustMarshalJSON(ec))
}
