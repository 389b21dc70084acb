package config

import (
	"strconv"
	"strings"

	rerrors "github.com/davidroman0O/racadm/errors"
	"github.com/invopop/jsonschema"
	"github.com/morrisxyang/xreflect"
)

// ApplyOverrides sets fields from "Path.To.Field=value" assignments. Paths use
// Go field names. The value is tried as an int, then a bool, then a string,
// so that it lands in whatever type the field has.
func (c *ConfigFile) ApplyOverrides(assignments []string) error {
	for _, assignment := range assignments {
		path, value, ok := strings.Cut(assignment, "=")
		path = strings.TrimSpace(path)
		if !ok || path == "" {
			return rerrors.WithContext(
				rerrors.New(rerrors.ErrConfiguration, "override must look like Field.Path=value"),
				map[string]interface{}{"override": assignment},
			)
		}

		if err := setField(c, path, value); err != nil {
			return rerrors.WithContext(
				rerrors.Wrap(err, rerrors.ErrConfiguration, "cannot apply override"),
				map[string]interface{}{"override": assignment},
			)
		}
	}
	return nil
}

func setField(c *ConfigFile, path, value string) error {
	// Try the narrowest type first; the field type decides which one sticks
	if n, err := strconv.Atoi(value); err == nil {
		if xreflect.SetEmbedField(c, path, n) == nil {
			return nil
		}
	}
	if b, err := strconv.ParseBool(value); err == nil {
		if xreflect.SetEmbedField(c, path, b) == nil {
			return nil
		}
	}
	return xreflect.SetEmbedField(c, path, value)
}

// Schema returns the JSON schema of the configuration file
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	return reflector.Reflect(&ConfigFile{})
}
