package grammar

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ava12/yydrive"
)

func wrongFormatError(name string, e error) *yydrive.Error {
	return yydrive.FormatError(WrongFormatError, "cannot decode grammar %s: %s", name, e)
}

// Load decodes and validates a grammar produced by an external tool.
// Format is chosen by name extension: .yaml and .yml are decoded as YAML, anything else as JSON.
// Unknown fields are rejected.
func Load(name string, data []byte) (*Grammar, error) {
	g := &Grammar{}
	var e error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		e = dec.Decode(g)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		e = dec.Decode(g)
	}
	if e != nil {
		return nil, wrongFormatError(name, e)
	}

	if g.Name == "" {
		base := filepath.Base(name)
		g.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if e = g.Validate(); e != nil {
		return nil, e
	}
	return g, nil
}

// Dump encodes grammar in the format chosen by name extension, the result is accepted by Load.
func Dump(name string, g *Grammar) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return yaml.Marshal(g)
	default:
		res, e := json.MarshalIndent(g, "", "\t")
		if e == nil {
			res = append(res, '\n')
		}
		return res, e
	}
}
