// Package config holds sitekit's configuration: where the site lives, how
// documents are fetched, how amounts are labelled, and the settings of the
// feed and portfolio summary.
//
// Values come from three layers applied in order: the defaults of
// NewConfig, the optional YAML file (.sitekit, see FindConfigFile), and
// command line flags.
package config
