// Package model defines the records persisted by the server.
package model
