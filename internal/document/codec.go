package document

import (
	"bytes"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// ParseMaster decodes a master document.
func ParseMaster(data []byte) (*Master, error) {
	var m Master
	if err := decode(data, &m); err != nil {
		return nil, errors.Annotate(err, "parsing master document")
	}
	return &m, nil
}

// ParseBundle decodes a bundle or placement document.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := decode(data, &b); err != nil {
		return nil, errors.Annotate(err, "parsing bundle document")
	}
	return &b, nil
}

// Marshal encodes a document in block style with two-space indentation.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Trace(err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Trace(err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, out interface{}) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return errors.Trace(err)
	}
	if len(root.Content) == 0 {
		return errors.Annotate(ErrMalformedDocument, "empty document")
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return errors.Annotatef(ErrMalformedDocument, "line %d: top level is not a mapping", root.Content[0].Line)
	}
	if err := root.Content[0].Decode(out); err != nil {
		return errors.Annotatef(ErrMalformedDocument, "%v", err)
	}
	return nil
}
