// Package infra contains technical adapters such as metrics exporters,
// the run notifier and the process logger. These packages should depend
// only on the interfaces defined in the core packages.
package infra
