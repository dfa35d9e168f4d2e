// Package google provides a SearchProvider backed by the Google Custom
// Search JSON API.
package google
