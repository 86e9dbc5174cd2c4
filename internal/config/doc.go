// Package config handles loading of csrsweep configuration.
//
// Configuration is read from C:\ProgramData\csrsweep\config.toml on
// Windows and ~/.config/csrsweep/config.toml elsewhere (development).
// A missing file means defaults; CLI flags override file settings.
//
// # Key Settings
//
//   - provider_root: override of the provider root path, lab use only
//   - restart_spooler: allow --restart-spooler to act (default false)
//
// The [log] section configures the transcript:
//
//	[log]
//	file = ""            # default: <ProgramData>\csrsweep\csrsweep.log on Windows
//	level = "info"
//	max_size_mb = 5
//	max_backups = 3
//	max_age_days = 30
//	compress = false
package config
