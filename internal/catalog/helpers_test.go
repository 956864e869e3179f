package catalog

var exhibitionHeader = []string{
	HeaderExhibitionID, HeaderTitle, HeaderStartDate, HeaderEndDate, HeaderVenue, HeaderSummary,
	HeaderBackground, HeaderHighlights, HeaderOfficialURL, HeaderInventoryURL, HeaderDetailDocURL,
	HeaderRelatedURLs, HeaderAudioURL, HeaderArticleURL, HeaderImage, HeaderArtworkSortKey,
}

// exhibitionRow builds a valid row; overrides are keyed by header.
func exhibitionRow(id string, overrides map[string]string) []string {
	values := map[string]string{
		HeaderExhibitionID: id,
		HeaderTitle:        "展示 " + id,
		HeaderStartDate:    "2024/04/01",
		HeaderEndDate:      "2024/06/30",
		HeaderVenue:        "本館 2F",
		HeaderSummary:      "概要テキスト",
		HeaderOfficialURL:  "https://museum.example.org/" + id,
		HeaderImage:        "https://images.example.org/" + id + ".jpg",
	}
	for k, v := range overrides {
		values[k] = v
	}
	row := make([]string, len(exhibitionHeader))
	for i, h := range exhibitionHeader {
		row[i] = values[h]
	}
	return row
}

func artworkRow(exhibitionID, artworkID, title string, overrides map[string]string) []string {
	values := map[string]string{
		HeaderExhibitionID: exhibitionID,
		HeaderArtworkID:    artworkID,
		HeaderArtworkTitle: title,
	}
	for k, v := range overrides {
		values[k] = v
	}
	row := make([]string, len(ExpectedArtworkHeader))
	for i, h := range ExpectedArtworkHeader {
		row[i] = values[h]
	}
	return row
}

func sheet(header []string, rows ...[]string) [][]string {
	return append([][]string{header}, rows...)
}

func warningTypes(ws []Warning) []WarningType {
	out := make([]WarningType, len(ws))
	for i, w := range ws {
		out[i] = w.Type
	}
	return out
}
