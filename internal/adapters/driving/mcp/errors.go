// Package mcp provides an MCP (Model Context Protocol) server adapter for Guttenberg.
// It lets AI assistants run plagiarism checks and record verdicts.
package mcp

import "errors"

// ErrMissingChecker is returned when the plagiarism checker is not provided.
var ErrMissingChecker = errors.New("mcp: plagiarism checker is required")

// ErrMissingAnswer is returned when a tool call names no answer.
var ErrMissingAnswer = errors.New("mcp: answer_id or link is required")
