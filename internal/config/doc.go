// Package config loads server settings and CalDAV account credentials from
// the environment.
package config
