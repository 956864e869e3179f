package hero

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// DriveAPIFilesURL is the Drive v3 files endpoint used for direct downloads.
const DriveAPIFilesURL = "https://www.googleapis.com/drive/v3/files/"

var drivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://drive\.google\.com/file/d/([a-zA-Z0-9_-]{10,})`),
	regexp.MustCompile(`^https?://drive\.google\.com/(?:uc|open)\?id=([a-zA-Z0-9_-]{10,})`),
}

// ExtractDriveFileID returns the file id of a Drive share link.
func ExtractDriveFileID(url string) (string, error) {
	trimmed := strings.TrimSpace(url)
	for _, p := range drivePatterns {
		if m := p.FindStringSubmatch(trimmed); m != nil {
			return m[1], nil
		}
	}
	return "", errors.ValidationError("unable to extract Google Drive file ID from URL").
		WithContext("url", url).
		Build()
}

// IsDriveURL reports whether url points at drive.google.com.
func IsDriveURL(url string) bool {
	return strings.Contains(url, "drive.google.com")
}

// TransformDriveURL rewrites a Drive share link into a Drive API media URL.
// Non-Drive URLs, and Drive URLs without a recognizable id, are returned unchanged.
func TransformDriveURL(url string) string {
	if !IsDriveURL(url) {
		return url
	}
	id, err := ExtractDriveFileID(url)
	if err != nil {
		return url
	}
	return DriveAPIFilesURL + id + "?alt=media"
}
