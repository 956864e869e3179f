package sheets

import (
	"context"
	"encoding/json"
	"os"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// FixtureReader reads a JSON document of the form {"values": [[...], ...]}.
type FixtureReader struct {
	Path string
}

type fixtureDoc struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// Read loads the fixture from disk.
func (f FixtureReader) Read(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.FileSystemError("failed to read sheet fixture").
			WithCause(err).
			WithContext("path", f.Path).
			Build()
	}
	var doc fixtureDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid sheet fixture").
			WithContext("path", f.Path).
			Build()
	}
	return toStrings(doc.Values), nil
}
