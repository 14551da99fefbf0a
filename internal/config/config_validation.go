// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/MKhiriev/go-live-watch/models"
)

// validate checks the merged [StructuredConfig] for values no source can
// legitimately produce. Client-specific requirements are checked by
// [ClientConfig.validate].
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.DedupCapacity < 0 {
		return fmt.Errorf("%w: negative dedup capacity", ErrInvalidSyncConfigs)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.PollInterval <= 0 {
		return ErrInvalidSyncConfigs
	}
	for _, kind := range append(append([]string{}, cfg.Sync.Topics...), cfg.Sync.PollKinds...) {
		if !models.EntityKind(kind).Valid() {
			return fmt.Errorf("%w: unknown entity kind %q", ErrInvalidSyncConfigs, kind)
		}
	}

	if cfg.Broker.Enabled() {
		if cfg.Broker.Exchange == "" || cfg.Broker.ReconnectBase <= 0 || cfg.Broker.ReconnectCap < cfg.Broker.ReconnectBase {
			return ErrInvalidBrokerConfigs
		}
	}

	if cfg.App.UserID <= 0 && cfg.App.Token == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
