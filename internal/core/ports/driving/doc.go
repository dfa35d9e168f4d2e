// Package driving declares what the outside world can ask of Guttenberg:
// run a plagiarism check, record a reviewer's verdict, read or change
// settings. The CLI, the chat dispatcher and the MCP server depend only on
// these interfaces; internal/core/services implements them.
package driving
