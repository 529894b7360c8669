// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/MKhiriev/go-pastor/internal/crypto"
)

// Defaults applied by the role views.
const (
	DefaultVaultDirName       = ".pastor"
	DefaultSyncInterval       = 5 * time.Minute
	DefaultSyncRequestTimeout = 15 * time.Second
	DefaultRelayAddress       = "localhost:8080"
	DefaultRelayDatabase      = "pastor-relay.db"
	DefaultServerTimeout      = 15 * time.Second
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultTokenIssuer        = "pastor-relay"
	DefaultTokenDuration      = time.Hour
	DefaultLogLevel           = "info"
	DefaultLogFileName        = "pastor.log"
)

// VaultConfig is the validated configuration of the pastor CLI.
type VaultConfig struct {
	Dir          string
	DeviceID     string
	CodecVersion string
	KDF          crypto.KDFParams
	Sync         Sync
	Log          Log
}

// RelayConfig is the validated configuration of the relay.
type RelayConfig struct {
	Storage Storage
	Server  Server
	Auth    Auth
	Log     Log
}

// GetVaultConfig loads the CLI configuration from the environment, the given
// flags config and the JSON file, then applies defaults and validates it.
func GetVaultConfig(flags *StructuredConfig) (*VaultConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, err
	}
	return VaultConfigFrom(cfg)
}

// VaultConfigFrom derives the CLI view of an already merged config.
func VaultConfigFrom(cfg *StructuredConfig) (*VaultConfig, error) {
	vc := &VaultConfig{
		Dir:          cfg.Vault.Dir,
		DeviceID:     cfg.Vault.DeviceID,
		CodecVersion: cfg.Vault.CodecVersion,
		KDF: crypto.KDFParams{
			Time:    cfg.Vault.KDFTime,
			Memory:  cfg.Vault.KDFMemory,
			Threads: cfg.Vault.KDFThreads,
		},
		Sync: cfg.Sync,
		Log:  cfg.Log,
	}

	if vc.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: no vault dir and no home dir: %w", ErrInvalidVaultConfigs, err)
		}
		vc.Dir = filepath.Join(home, DefaultVaultDirName)
	}
	if vc.CodecVersion == "" {
		vc.CodecVersion = crypto.DefaultVersion
	}
	if vc.KDF.Time == 0 {
		vc.KDF.Time = crypto.DefaultKDFParams.Time
	}
	if vc.KDF.Memory == 0 {
		vc.KDF.Memory = crypto.DefaultKDFParams.Memory
	}
	if vc.KDF.Threads == 0 {
		vc.KDF.Threads = crypto.DefaultKDFParams.Threads
	}
	if vc.Sync.Interval == 0 {
		vc.Sync.Interval = DefaultSyncInterval
	}
	if vc.Sync.RequestTimeout == 0 {
		vc.Sync.RequestTimeout = DefaultSyncRequestTimeout
	}
	if vc.Log.Level == "" {
		vc.Log.Level = DefaultLogLevel
	}
	if vc.Log.File == "" {
		vc.Log.File = filepath.Join(vc.Dir, DefaultLogFileName)
	}

	if err := vc.validate(); err != nil {
		return nil, err
	}
	return vc, nil
}

func (vc *VaultConfig) validate() error {
	if !slices.Contains(crypto.Versions(), vc.CodecVersion) {
		return fmt.Errorf("%w: unknown codec version %q", ErrInvalidVaultConfigs, vc.CodecVersion)
	}

	switch vc.Sync.Backend {
	case SyncBackendNone:
	case SyncBackendRelay:
		if vc.Sync.RelayAddress == "" {
			return fmt.Errorf("%w: relay backend needs a relay address", ErrInvalidSyncConfigs)
		}
		if _, err := url.Parse(vc.Sync.RelayAddress); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSyncConfigs, err)
		}
	case SyncBackendDir:
		if vc.Sync.RemoteDir == "" {
			return fmt.Errorf("%w: dir backend needs a remote dir", ErrInvalidSyncConfigs)
		}
	case SyncBackendS3:
		if vc.Sync.S3.Bucket == "" {
			return fmt.Errorf("%w: s3 backend needs a bucket", ErrInvalidSyncConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidSyncConfigs, vc.Sync.Backend)
	}
	return nil
}

// GetRelayConfig loads the relay configuration from the environment, the
// command-line args and the JSON file, then applies defaults and validates it.
func GetRelayConfig(args []string) (*RelayConfig, error) {
	flags, err := ParseRelayFlags(args)
	if err != nil {
		return nil, err
	}
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, err
	}
	return RelayConfigFrom(cfg)
}

// RelayConfigFrom derives the relay view of an already merged config.
func RelayConfigFrom(cfg *StructuredConfig) (*RelayConfig, error) {
	rc := &RelayConfig{
		Storage: cfg.Storage,
		Server:  cfg.Server,
		Auth:    cfg.Auth,
		Log:     cfg.Log,
	}

	if rc.Storage.Backend == "" {
		rc.Storage.Backend = StorageBackendSQLite
	}
	if rc.Storage.Backend == StorageBackendSQLite && rc.Storage.DB.DSN == "" {
		rc.Storage.DB.DSN = DefaultRelayDatabase
	}
	if rc.Server.HTTPAddress == "" {
		rc.Server.HTTPAddress = DefaultRelayAddress
	}
	if rc.Server.RequestTimeout == 0 {
		rc.Server.RequestTimeout = DefaultServerTimeout
	}
	if rc.Server.ShutdownTimeout == 0 {
		rc.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if rc.Auth.TokenIssuer == "" {
		rc.Auth.TokenIssuer = DefaultTokenIssuer
	}
	if rc.Auth.TokenDuration == 0 {
		rc.Auth.TokenDuration = DefaultTokenDuration
	}
	if rc.Log.Level == "" {
		rc.Log.Level = DefaultLogLevel
	}

	if err := rc.validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

func (rc *RelayConfig) validate() error {
	switch rc.Storage.Backend {
	case StorageBackendSQLite, StorageBackendPostgres:
		if rc.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: %s backend needs a DSN", ErrInvalidStorageConfigs, rc.Storage.Backend)
		}
	case StorageBackendFS:
		if rc.Storage.Files.Dir == "" {
			return fmt.Errorf("%w: fs backend needs a directory", ErrInvalidStorageConfigs)
		}
	case StorageBackendS3:
		if rc.Storage.S3.Bucket == "" {
			return fmt.Errorf("%w: s3 backend needs a bucket", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, rc.Storage.Backend)
	}

	if _, _, err := net.SplitHostPort(rc.Server.HTTPAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidServerConfigs, err)
	}

	if rc.Auth.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAuthConfigs)
	}
	if rc.Auth.AccessKey == "" {
		return fmt.Errorf("%w: access key is required", ErrInvalidAuthConfigs)
	}
	return nil
}
