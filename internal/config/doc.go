// Package config provides loading and environment overlay for pl-flow
// configuration. Files may be JSON or TOML, selected by extension; PLFLOW_*
// environment variables overlay whatever the file provided.
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/pl-flow.toml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
