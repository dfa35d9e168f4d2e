// Package chat provides a chat-style command adapter. Messages such as
// "@gut checkinternet https://stackoverflow.com/a/123" are parsed into a
// command name and arguments, then dispatched to a registered handler
// whose replies are sent back to the room.
package chat
