// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonS3 struct {
	Region          string `json:"region"`
	Bucket          string `json:"bucket"`
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Prefix          string `json:"prefix"`
	PathStyle       bool   `json:"path_style"`
}

func (s jsonS3) config() S3 {
	return S3(s)
}

// StructuredJSONConfig is the layout of the JSON config file.
type StructuredJSONConfig struct {
	Vault struct {
		Dir          string `json:"dir"`
		DeviceID     string `json:"device_id"`
		CodecVersion string `json:"codec_version"`
		KDF          struct {
			Time    uint32 `json:"time"`
			Memory  uint32 `json:"memory"`
			Threads uint8  `json:"threads"`
		} `json:"kdf"`
	} `json:"vault,omitempty"`

	Sync struct {
		Backend        string   `json:"backend"`
		RelayAddress   string   `json:"relay_address"`
		AccessKey      string   `json:"access_key"`
		RequestTimeout Duration `json:"request_timeout"`
		Interval       Duration `json:"interval"`
		RemoteDir      string   `json:"remote_dir"`
		S3             jsonS3   `json:"s3"`
	} `json:"sync,omitempty"`

	Storage struct {
		Backend string `json:"backend"`
		DB      struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Files struct {
			Dir string `json:"dir"`
		} `json:"files,omitempty"`
		S3 jsonS3 `json:"s3"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Auth struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		AccessKey     string   `json:"access_key"`
	} `json:"auth,omitempty"`

	Log struct {
		Level string `json:"level"`
		File  string `json:"file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Vault: Vault{
			Dir:          jsonCfg.Vault.Dir,
			DeviceID:     jsonCfg.Vault.DeviceID,
			CodecVersion: jsonCfg.Vault.CodecVersion,
			KDFTime:      jsonCfg.Vault.KDF.Time,
			KDFMemory:    jsonCfg.Vault.KDF.Memory,
			KDFThreads:   jsonCfg.Vault.KDF.Threads,
		},
		Sync: Sync{
			Backend:        jsonCfg.Sync.Backend,
			RelayAddress:   jsonCfg.Sync.RelayAddress,
			AccessKey:      jsonCfg.Sync.AccessKey,
			RequestTimeout: time.Duration(jsonCfg.Sync.RequestTimeout),
			Interval:       time.Duration(jsonCfg.Sync.Interval),
			RemoteDir:      jsonCfg.Sync.RemoteDir,
			S3:             jsonCfg.Sync.S3.config(),
		},
		Storage: Storage{
			Backend: jsonCfg.Storage.Backend,
			DB:      DB{DSN: jsonCfg.Storage.DB.DSN},
			Files:   Files{Dir: jsonCfg.Storage.Files.Dir},
			S3:      jsonCfg.Storage.S3.config(),
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Auth: Auth{
			TokenSignKey:  jsonCfg.Auth.TokenSignKey,
			TokenIssuer:   jsonCfg.Auth.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.Auth.TokenDuration),
			AccessKey:     jsonCfg.Auth.AccessKey,
		},
		Log: Log{
			Level: jsonCfg.Log.Level,
			File:  jsonCfg.Log.File,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
