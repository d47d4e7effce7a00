// Package config provides configuration structures and utilities for doclinks.
// It defines the options for walking a documentation tree, validating links
// and recording run history, and loads the optional .doclinks YAML file.
package config
