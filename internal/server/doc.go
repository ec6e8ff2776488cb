// Package server implements the MCP (Model Context Protocol) server that
// exposes grid and content detection as tools over stdin/stdout.
//
// The server speaks JSON-RPC 2.0, one message per line. It handles the
// standard MCP handshake (initialize, notifications/initialized), tool
// discovery (tools/list) and invocation (tools/call). Tool results are
// serialized to JSON and wrapped in MCP's text content format.
//
// Log output goes to stderr; stdout carries protocol traffic only.
package server
