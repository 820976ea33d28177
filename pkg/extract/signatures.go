package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Signature is one case-insensitive marker identifying a protective block
// page. Challenge marks the interactive anti-bot challenge specifically;
// detecting it invalidates any persisted bypass state.
type Signature struct {
	Name      string `yaml:"name"`
	Marker    string `yaml:"marker"`
	Challenge bool   `yaml:"challenge"`
}

// SignatureTable is the versioned set of block signatures. The source's
// signatures drift over time, so deployments can override the compiled-in
// defaults with a YAML file.
type SignatureTable struct {
	Version    int         `yaml:"version"`
	Signatures []Signature `yaml:"signatures"`
}

// DefaultSignatureTable returns the compiled-in block signatures.
func DefaultSignatureTable() SignatureTable {
	return SignatureTable{
		Version: 1,
		Signatures: []Signature{
			{Name: "access_denied", Marker: "access denied"},
			{Name: "captcha", Marker: "captcha"},
			{Name: "rate_limit", Marker: "rate limit"},
			{Name: "maintenance", Marker: "maintenance"},
			{Name: "challenge", Marker: "challenge-platform", Challenge: true},
		},
	}
}

// LoadSignatureTable reads a signature table from a YAML file.
func LoadSignatureTable(path string) (SignatureTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SignatureTable{}, fmt.Errorf("reading signature table: %w", err)
	}
	return ParseSignatureTable(data)
}

// ParseSignatureTable parses YAML signature table data.
func ParseSignatureTable(data []byte) (SignatureTable, error) {
	var table SignatureTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return SignatureTable{}, fmt.Errorf("parsing signature table: %w", err)
	}

	if len(table.Signatures) == 0 {
		return SignatureTable{}, fmt.Errorf("signature table has no signatures")
	}
	for i, sig := range table.Signatures {
		if sig.Marker == "" {
			return SignatureTable{}, fmt.Errorf("signature %d (%s) has an empty marker", i, sig.Name)
		}
	}

	return table, nil
}
