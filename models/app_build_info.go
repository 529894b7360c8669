// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// NotAvailable stands in for build fields the linker did not set.
const NotAvailable = "N/A"

// AppBuildInfo is the version metadata linked into pastor and pastor-relay
// with -ldflags "-X main.buildVersion=...".
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

// NewAppBuildInfo returns build info from the linker-set variables. Any of
// them may be empty.
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{version: buildVersion, date: buildDate, commit: buildCommit}
}

// BuildVersion returns the release version, e.g. "v1.4.0".
func (a AppBuildInfo) BuildVersion() string { return a.version }

// BuildDate returns the build timestamp.
func (a AppBuildInfo) BuildDate() string { return a.date }

// BuildCommit returns the commit the binary was built from.
func (a AppBuildInfo) BuildCommit() string { return a.commit }

// Response returns the body of GET /api/version.
func (a AppBuildInfo) Response() VersionResponse {
	return VersionResponse{Version: a.version, Date: a.date, Commit: a.commit}
}

// Lines renders the info for terminal output, one field per line.
func (a AppBuildInfo) Lines() []string {
	return []string{
		fmt.Sprintf("Build version: %s", orNotAvailable(a.version)),
		fmt.Sprintf("Build date: %s", orNotAvailable(a.date)),
		fmt.Sprintf("Build commit: %s", orNotAvailable(a.commit)),
	}
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
