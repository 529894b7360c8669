// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoHTTPHandler = errors.New("relay server needs an HTTP handler")
	errNoHTTPAddress = errors.New("relay server needs a listen address")
)
