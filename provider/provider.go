// Package provider implements the remote generative translation backends
// and the decorators that wrap them.
package provider

import "github.com/ZaguanLabs/salin"

// RemoteTranslator is an alias to the main package interface for convenience.
type RemoteTranslator = salin.RemoteTranslator

// RemoteRequest is an alias to the main package type.
type RemoteRequest = salin.RemoteRequest

// cleanReply trims a model reply and rejects an empty one.
func cleanReply(op, content string) (string, error) {
	reply := trimReply(content)
	if reply == "" {
		return "", &salin.ServiceError{Op: op, Message: "empty reply"}
	}
	return reply, nil
}
