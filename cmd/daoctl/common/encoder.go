package common

import (
	"io"

	yaml "gopkg.in/yaml.v2"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
)

type Encode func(v interface{}, w io.Writer) error

var DefaultEncodes = map[string]Encode{
	"json": func(v interface{}, w io.Writer) error {
		return jsonEncode(v, w, false)
	},
	"prettyjson": func(v interface{}, w io.Writer) error {
		return jsonEncode(v, w, true)
	},
	"yaml": func(v interface{}, w io.Writer) error {
		return yamlEncode(v, w)
	},
}

func GetEncoder(format string) (Encode, error) {
	encode, found := DefaultEncodes[format]
	if !found {
		return nil, errors.BadRequestParameter.Clone().SetData("format", format)
	}
	return encode, nil
}

func jsonEncode(v interface{}, w io.Writer, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = common.JSONMarshalIndentWithoutEscapeHTML(v, "", "  ")
	} else {
		b, err = common.JSONMarshalWithoutEscapeHTML(v)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(append(b, '\n'))
	return err
}

// yamlEncode goes through json first, so the json names and marshalers of
// the values are kept.
func yamlEncode(v interface{}, w io.Writer) error {
	b, err := common.JSONMarshalWithoutEscapeHTML(v)
	if err != nil {
		return err
	}

	var o yaml.MapSlice
	if err = yaml.Unmarshal(b, &o); err != nil {
		return err
	}

	e := yaml.NewEncoder(w)
	defer e.Close()
	return e.Encode(o)
}
