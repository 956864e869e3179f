package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/manifest"
	"git.home.luguber.info/inful/exhibitpal/internal/site"
)

// Inputs describes what a render was produced from. The config hash covers
// only settings that change page output.
func Inputs(cfg *config.Config, ds *catalog.Dataset) (manifest.Inputs, error) {
	cfgData, err := json.Marshal(struct {
		Site   config.SiteConfig   `json:"site"`
		Images config.ImagesConfig `json:"images"`
		Data   string              `json:"data_file"`
	}{cfg.Site, cfg.Images, cfg.Output.DataFile})
	if err != nil {
		return manifest.Inputs{}, errors.WrapError(err, errors.CategoryInternal, "failed to hash config").Build()
	}
	data, err := site.PublicDataJSON(ds)
	if err != nil {
		return manifest.Inputs{}, err
	}
	return manifest.Inputs{
		ExhibitionsSpreadsheet: cfg.Sheets.ExhibitionsSpreadsheetID,
		ArtworksSpreadsheet:    cfg.Sheets.ArtworksSpreadsheetID,
		ConfigHash:             digest(cfgData),
		DataHash:               digest(data),
	}, nil
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
