// Package main implements the autoversion CLI tool.
//
// The autoversion tool keeps a MAJOR.MINOR.PATCH version in a text file
// (default "./__version__.py") and bumps it according to markers found in the
// latest git commit message. It is meant to run in CI after every push.
//
// Command Usage:
//
//	autoversion [flags]
//	autoversion init [--force] [--initial-version 0.0.0]
//	autoversion show
//	autoversion version
//
// Markers (case-insensitive, anywhere in the commit message):
//
//	[major]  1.2.3 → 2.0.0
//	[minor]  1.2.3 → 1.3.0
//	[patch]  1.2.3 → 1.2.4 (default when no marker is present)
//
// When several markers are present the highest one wins. Commits whose message
// contains "auto-increment version" or "chore: auto-increment" are skipped unless
// they also carry a marker, so the tool's own commits do not retrigger it.
//
// Flags:
//
//	--version-file: Path to the version file. Also settable with $VERSION_FILE
//	                or version_file in .autoversion.yaml.
//	--identifier:   Name the version is assigned to (default "__version__").
//	--message, -m:  Evaluate this message instead of reading it from git.
//	--bump:         Force major, minor or patch regardless of markers.
//	--dry:          Compute and report the new version without writing it.
//	--commit:       Commit the version file with "chore: auto-increment version to X [skip ci]".
//	--tag:          Commit and tag the commit with "vX".
//	--config, -c:   Explicit YAML config file.
//	--log-level:    debug, info, warn or error.
//
// Exit codes:
//
//	0  the version changed
//	2  nothing to do (skipped)
//	1  error
//
// Examples:
//
//	# Bump from the latest commit message
//	autoversion
//
//	# Try a message without touching anything
//	autoversion --dry --message "Drop Python 3.8 [major]"
//
//	# Bump, commit and tag
//	autoversion --commit --tag
//
//	# Keep the version somewhere else
//	VERSION_FILE=src/mypkg/__init__.py autoversion
//
// For more detailed API documentation, please see the documentation in the "pkg" package
// or visit [PkgGoDev](https://pkg.go.dev/github.com/bcomnes/autoversion).
package main
