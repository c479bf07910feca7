package skilltree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the catalog file format this build writes. Files with
// the same major version are accepted.
const SchemaVersion = "v1.0.0"

// Format is a catalog file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from the file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// File is the on-disk catalog document.
type File struct {
	SchemaVersion string `json:"schema_version" yaml:"schema_version"`
	Nodes         []Node `json:"nodes" yaml:"nodes"`
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document and builds a catalog from it.
func Parse(data []byte, format Format) (*Catalog, error) {
	var f File
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	}

	if err := checkSchemaVersion(f.SchemaVersion); err != nil {
		return nil, err
	}
	for i := range f.Nodes {
		if f.Nodes[i].Source == "" {
			f.Nodes[i].Source = SourceFile
		}
	}
	return NewCatalog(f.Nodes)
}

// Marshal encodes c as a catalog document.
func Marshal(c *Catalog, format Format) ([]byte, error) {
	f := File{SchemaVersion: SchemaVersion, Nodes: c.Nodes()}
	if format == FormatJSON {
		return json.MarshalIndent(f, "", "  ")
	}
	return yaml.Marshal(f)
}

func checkSchemaVersion(v string) error {
	if v == "" {
		return fmt.Errorf("catalog file is missing schema_version")
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid schema_version %q", v)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return fmt.Errorf("unsupported schema_version %s (want %s.x)", v, semver.Major(SchemaVersion))
	}
	return nil
}
