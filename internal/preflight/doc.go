// Package preflight validates the local environment before operator work:
// directory access, disk space, studio API reachability, and upload
// storage configuration.
package preflight
