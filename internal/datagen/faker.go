//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates synthetic e-commerce datasets.
package datagen

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides fake data generation using gofakeit. All randomness a
// Generator consumes flows through one Faker, so a fixed seed reproduces
// the whole dataset.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// ID generates a 32 character lowercase hex identifier.
func (f *Faker) ID() string {
	return strings.ReplaceAll(f.faker.UUID(), "-", "")
}

// City generates a random lowercase city name.
func (f *Faker) City() string {
	return strings.ToLower(f.faker.City())
}

// State generates a random two letter state abbreviation.
func (f *Faker) State() string {
	return f.faker.StateAbr()
}

// Price generates a random price between min and max.
func (f *Faker) Price(min, max float64) float64 {
	return f.faker.Price(min, max)
}

// Sentence generates a random sentence.
func (f *Faker) Sentence(wordCount int) string {
	return f.faker.Sentence(wordCount)
}

// Word generates a random word.
func (f *Faker) Word() string {
	return f.faker.Word()
}

// DateRange generates a random date within a range.
func (f *Faker) DateRange(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Chance reports true with probability p.
func (f *Faker) Chance(p float64) bool {
	return f.Float64(0, 1) < p
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// ChooseWeighted returns a random element based on weights.
func ChooseWeighted[T any](f *Faker, items []T, weights []int) T {
	if len(items) == 0 || len(weights) == 0 {
		var zero T
		return zero
	}

	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}

	r := f.Int(1, totalWeight)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return items[i]
		}
	}

	return items[len(items)-1]
}

// NullableString returns the string or empty with given probability.
func (f *Faker) NullableString(s string, nullProbability float64) string {
	if f.Chance(nullProbability) {
		return ""
	}
	return s
}

// FormatCoord formats a latitude or longitude with 6 decimal places.
func FormatCoord(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

// FormatMoney formats an amount with 2 decimal places.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatTimestamp formats t in the dataset's timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.DateTime)
}
