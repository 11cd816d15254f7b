// Package confloader provides configuration loading for outpost nodes.
//
// It uses Koanf to merge configuration from multiple sources with
// priority: Env > File > Default. A companion fsnotify watcher allows
// reloading when the configuration file changes on disk.
package confloader
