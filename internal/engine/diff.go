package engine

import (
	"github.com/juju/errors"
	"github.com/kr/pretty"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/prod2lab/internal/document"
)

// diffDocuments compares two documents by their serialized form, so the
// diff reads in document keys rather than Go field names. A nil side is an
// absent document.
func diffDocuments(before, after interface{}) ([]string, error) {
	b, err := generic(before)
	if err != nil {
		return nil, errors.Trace(err)
	}
	a, err := generic(after)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return pretty.Diff(b, a), nil
}

func generic(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := document.Marshal(v)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var out interface{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Trace(err)
	}
	return out, nil
}
