// Package config provides configuration management for the espresso CLI.
//
// Configuration is read with [github.com/spf13/viper] from config.yaml in
// the working directory or in the espresso config directory
// (see [paths.ConfigDir]). Every key can be overridden with an ESPRESSO_*
// environment variable, and command-line flags override both.
//
// # Configuration File
//
//	version: 1
//	contrib_root: contrib
//	package: espresso
//	mode: pre                 # pre (source tree) or post (installed)
//	strict: false
//	required_files: [README.md, LICENCE, metadata.yml, main.go]
//	source_command: go run .
//	bin_dir: ""               # prepended to PATH in post mode
//	call_timeout: 0s          # 0 disables the per-contribution deadline
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return errors.Wrap(err, "loading config")
//	}
//
// All loaded configurations are validated with [Validate].
package config
