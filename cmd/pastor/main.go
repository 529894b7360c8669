// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command pastor manages a local-first encrypted vault from the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-pastor/internal/client"
	"github.com/MKhiriev/go-pastor/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	var app client.Client = client.NewApp(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "pastor:", err)
		os.Exit(1)
	}
}
