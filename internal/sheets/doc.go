// Package sheets reads raw cell values from Google Sheets or from local JSON
// fixtures shaped like the Sheets values API response.
package sheets
