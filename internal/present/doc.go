// Package present derives the view models rendered on exhibition pages:
// sliders, navigation, status labels, page sections, hero media and audio embeds.
package present
