// Package confloader loads collstress configuration with koanf.
//
// Layers, highest priority first:
//
//  1. Command-line flags, merged with Override
//  2. Environment variables with the COLLSTRESS_ prefix
//  3. A YAML configuration file
//  4. Defaults registered with WithDefaults
//
// The loader remembers which layer set each key (Origin). Watcher reports
// edits to the configuration file so that log.level can be changed while a
// run is in progress.
package confloader
