package format

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// PrettyPrintYAML re-encodes a YAML document with two space indentation.
// Key order and comments survive since the document is decoded into a node
// tree rather than a map.
func PrettyPrintYAML(yamlStr string) (string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(yamlStr), &node); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return "", err
	}

	return buf.String(), nil
}
