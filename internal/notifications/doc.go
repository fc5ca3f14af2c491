// Package notifications pushes queue lifecycle alerts to an ntfy topic.
// Without a configured topic every call is a no-op, so callers never need
// to branch on whether notifications are enabled.
package notifications
