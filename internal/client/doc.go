// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the pastor command line.
//
// Every command opens the vault directory, asks for the password, performs
// one operation and, when it changed the vault, saves a fresh snapshot
// before exiting. Sync replicates only the write log; the snapshot is
// rebuilt locally afterwards.
package client
