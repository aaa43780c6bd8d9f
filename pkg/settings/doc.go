// Package settings loads the tool's own configuration file.
//
// This is configuration FOR broadseactl (default paths, logging, policy
// mode), not the deployment configuration it generates. The file is
// optional YAML; anything unset falls back to a default, and
// command-line flags override whatever the file says.
package settings
