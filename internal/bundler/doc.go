// Package bundler sends control messages to a running bundler over its
// websocket message channel at ws://localhost:<packager port>/message.
package bundler
