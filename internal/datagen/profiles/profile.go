//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package profiles implements shopping activity profiles that shape the
// purchase timestamps of a generated dataset.
package profiles

import (
	"fmt"
	"sort"
	"time"

	// Embedded zone database, so profiles resolve zones on hosts without
	// /usr/share/zoneinfo.
	_ "time/tzdata"
)

// DefaultTimezone is the zone of the public dataset's marketplace.
const DefaultTimezone = "America/Sao_Paulo"

// MaxActivity bounds every profile's activity level.
const MaxActivity = 1.2

// Profile defines the interface for activity profiles.
type Profile interface {
	// Name returns the profile name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// ActivityLevel returns the relative purchase rate at t, between 0
	// and MaxActivity. Weekend bonuses push some values above 1.0.
	ActivityLevel(t time.Time) float64
}

var registry = make(map[string]func(tz *time.Location) Profile)

// Register adds a profile constructor to the registry.
func Register(name string, constructor func(tz *time.Location) Profile) {
	registry[name] = constructor
}

// Get retrieves a profile by name with the specified timezone.
func Get(name, timezone string) (Profile, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", name)
	}

	loc, err := LoadZone(timezone)
	if err != nil {
		return nil, err
	}
	return constructor(loc), nil
}

// LoadZone resolves an IANA zone name. An empty name selects
// DefaultTimezone.
func LoadZone(timezone string) (*time.Location, error) {
	switch timezone {
	case "":
		timezone = DefaultTimezone
	case "Local":
		return time.Local, nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	return loc, nil
}

// List returns all registered profile names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("uniform", NewUniform)
	Register("store-regional", NewStoreRegional)
	Register("store-global", NewStoreGlobal)
}
