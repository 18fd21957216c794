//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-dashboard/internal/datagen/profiles"
	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
	"github.com/pgEdge/pgedge-dashboard/internal/logging"
)

// UndeliveredRate is the approximate share of orders without a delivered
// date.
const UndeliveredRate = 0.03

// Options sizes a generated dataset.
type Options struct {
	Orders    int
	Products  int
	Customers int
	Sellers   int
	Cities    int

	// Profile shapes the hour and weekday of purchases; nil spreads
	// them uniformly.
	Profile profiles.Profile

	// Zone is the wall clock timestamps are written in; nil means UTC.
	Zone *time.Location
}

// Generator produces a referentially consistent dataset: items reference
// existing orders, products and sellers, reviews and payments reference
// orders, and every customer and seller zip prefix exists in geolocation.
type Generator struct {
	faker *Faker
	opts  Options

	// Purchases fall inside [start, end).
	start time.Time
	end   time.Time
}

// NewGenerator creates a generator drawing all randomness from f.
func NewGenerator(f *Faker, opts Options) *Generator {
	if opts.Zone == nil {
		opts.Zone = time.UTC
	}
	return &Generator{
		faker: f,
		opts:  opts,
		start: time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

type category struct {
	name    string
	english string
}

var categories = []category{
	{"beleza_saude", "health_beauty"},
	{"cama_mesa_banho", "bed_bath_table"},
	{"esporte_lazer", "sports_leisure"},
	{"informatica_acessorios", "computers_accessories"},
	{"moveis_decoracao", "furniture_decor"},
	{"utilidades_domesticas", "housewares"},
	{"relogios_presentes", "watches_gifts"},
	{"telefonia", "telephony"},
	{"automotivo", "auto"},
	{"brinquedos", "toys"},
	{"perfumaria", "perfumery"},
	{"bebes", "baby"},
	{"papelaria", "stationery"},
	{"pet_shop", "pet_shop"},
}

var (
	undeliveredStatuses = []string{"shipped", "canceled", "unavailable", "invoiced", "processing"}
	paymentTypes        = []string{"credit_card", "boleto", "voucher", "debit_card"}
	paymentWeights      = []int{74, 19, 5, 2}
	itemCounts          = []int{1, 2, 3, 4}
	itemCountWeights    = []int{85, 10, 3, 2}
	reviewScores        = []int{1, 2, 3, 4, 5}
	reviewScoreWeights  = []int{11, 3, 8, 19, 59}
)

type zipArea struct {
	prefix string
	city   string
	state  string
}

type product struct {
	id    string
	price float64
}

type party struct {
	id   string
	area zipArea
}

// Generate builds all nine tables.
func (g *Generator) Generate() (*dataset.Dataset, error) {
	areas, geoRows := g.geolocation()
	productList, productRows := g.products()
	sellers, sellerRows := g.sellers(areas)
	customers, customerRows := g.customers(areas)
	orderRows, itemRows, paymentRows, reviewRows := g.orders(customers, productList, sellers)

	categoryRows := make([][]string, 0, len(categories))
	for _, c := range categories {
		categoryRows = append(categoryRows, []string{c.name, c.english})
	}

	rows := map[string][][]string{
		dataset.Orders:      orderRows,
		dataset.Items:       itemRows,
		dataset.Products:    productRows,
		dataset.Payments:    paymentRows,
		dataset.Reviews:     reviewRows,
		dataset.Customers:   customerRows,
		dataset.Sellers:     sellerRows,
		dataset.Geolocation: geoRows,
		dataset.Category:    categoryRows,
	}

	tables := make([]*dataset.Table, 0, len(dataset.Names))
	for _, name := range dataset.Names {
		t, err := dataset.NewTable(name, dataset.Headers[name], rows[name])
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", name, err)
		}
		logging.Debug().
			Str("table", name).
			Int("rows", t.Len()).
			Msg("Generated table")
		tables = append(tables, t)
	}
	return dataset.New(tables...), nil
}

// WriteDir generates a dataset and writes it to dir.
func (g *Generator) WriteDir(dir string) (*dataset.Dataset, error) {
	d, err := g.Generate()
	if err != nil {
		return nil, err
	}
	if err := dataset.WriteDir(dir, d); err != nil {
		return nil, err
	}
	return d, nil
}

// geolocation creates 1-3 zip prefixes per city, each with 2-4 rows.
func (g *Generator) geolocation() ([]zipArea, [][]string) {
	f := g.faker

	var areas []zipArea
	var rows [][]string
	prefix := f.Int(1000, 5000)
	for i := 0; i < g.opts.Cities; i++ {
		city, state := f.City(), f.State()
		lat, lng := f.Float64(-33, -3), f.Float64(-72, -35)

		for p := f.Int(1, 3); p > 0; p-- {
			prefix += f.Int(1, 97)
			area := zipArea{prefix: strconv.Itoa(prefix), city: city, state: state}
			areas = append(areas, area)

			for r := f.Int(2, 4); r > 0; r-- {
				rows = append(rows, []string{
					area.prefix,
					FormatCoord(lat + f.Float64(-0.05, 0.05)),
					FormatCoord(lng + f.Float64(-0.05, 0.05)),
					city,
					state,
				})
			}
		}
	}
	return areas, rows
}

func (g *Generator) products() ([]product, [][]string) {
	f := g.faker

	list := make([]product, 0, g.opts.Products)
	rows := make([][]string, 0, g.opts.Products)
	for i := 0; i < g.opts.Products; i++ {
		p := product{id: f.ID(), price: f.Price(5, 900)}
		list = append(list, p)
		rows = append(rows, []string{
			p.id,
			Choose(f, categories).name,
			strconv.Itoa(f.Int(10, 70)),
			strconv.Itoa(f.Int(50, 3000)),
			strconv.Itoa(f.Int(1, 6)),
			strconv.Itoa(f.Int(100, 20000)),
			strconv.Itoa(f.Int(10, 100)),
			strconv.Itoa(f.Int(2, 80)),
			strconv.Itoa(f.Int(8, 80)),
		})
	}
	return list, rows
}

func (g *Generator) sellers(areas []zipArea) ([]party, [][]string) {
	f := g.faker

	list := make([]party, 0, g.opts.Sellers)
	rows := make([][]string, 0, g.opts.Sellers)
	for i := 0; i < g.opts.Sellers; i++ {
		s := party{id: f.ID(), area: Choose(f, areas)}
		list = append(list, s)
		rows = append(rows, []string{s.id, s.area.prefix, s.area.city, s.area.state})
	}
	return list, rows
}

func (g *Generator) customers(areas []zipArea) ([]party, [][]string) {
	f := g.faker

	list := make([]party, 0, g.opts.Customers)
	rows := make([][]string, 0, g.opts.Customers)
	for i := 0; i < g.opts.Customers; i++ {
		c := party{id: f.ID(), area: Choose(f, areas)}
		list = append(list, c)
		rows = append(rows, []string{c.id, f.ID(), c.area.prefix, c.area.city, c.area.state})
	}
	return list, rows
}

func (g *Generator) orders(customers []party, products []product, sellers []party) (orders, items, payments, reviews [][]string) {
	f := g.faker
	progress := NewProgressReporter(dataset.Orders, int64(g.opts.Orders), progressInterval(g.opts.Orders))

	for i := 0; i < g.opts.Orders; i++ {
		orderID := f.ID()
		customer := Choose(f, customers)

		purchased := g.purchaseTime()
		approved := purchased.Add(time.Duration(f.Int(10, 2880)) * time.Minute)
		carrier := approved.Add(time.Duration(f.Int(1, 5)) * 24 * time.Hour)
		delivered := carrier.Add(time.Duration(f.Int(24, 720)) * time.Hour).
			Add(time.Duration(f.Int(0, 3599)) * time.Second)
		estimated := midnight(purchased.AddDate(0, 0, f.Int(15, 45)))

		status := "delivered"
		carrierStr, deliveredStr := FormatTimestamp(carrier), FormatTimestamp(delivered)
		if f.Chance(UndeliveredRate) {
			status = Choose(f, undeliveredStatuses)
			deliveredStr = ""
			if status != "shipped" {
				carrierStr = ""
			}
		}

		orders = append(orders, []string{
			orderID,
			customer.id,
			status,
			FormatTimestamp(purchased),
			FormatTimestamp(approved),
			carrierStr,
			deliveredStr,
			FormatTimestamp(estimated),
		})

		var total float64
		itemCount := ChooseWeighted(f, itemCounts, itemCountWeights)
		for n := 1; n <= itemCount; n++ {
			p := Choose(f, products)
			freight := f.Float64(5, 60)
			total += p.price + freight
			items = append(items, []string{
				orderID,
				strconv.Itoa(n),
				p.id,
				Choose(f, sellers).id,
				FormatTimestamp(approved.AddDate(0, 0, 6)),
				FormatMoney(p.price),
				FormatMoney(freight),
			})
		}

		paymentType := ChooseWeighted(f, paymentTypes, paymentWeights)
		installments := 1
		if paymentType == "credit_card" {
			installments = f.Int(1, 10)
		}
		payments = append(payments, []string{
			orderID,
			"1",
			paymentType,
			strconv.Itoa(installments),
			FormatMoney(total),
		})

		if !f.Chance(0.01) {
			reviewed := estimated
			if deliveredStr != "" {
				reviewed = delivered
			}
			created := midnight(reviewed.AddDate(0, 0, 1))
			reviews = append(reviews, []string{
				f.ID(),
				orderID,
				strconv.Itoa(ChooseWeighted(f, reviewScores, reviewScoreWeights)),
				f.NullableString(f.Word(), 0.88),
				f.NullableString(f.Sentence(8), 0.58),
				FormatTimestamp(created),
				FormatTimestamp(created.Add(time.Duration(f.Int(1, 72)) * time.Hour)),
			})
		}

		progress.Update(1)
	}
	progress.Done()
	return orders, items, payments, reviews
}

// maxPurchaseDraws bounds the rejection sampling in purchaseTime.
const maxPurchaseDraws = 64

// purchaseTime draws a purchase instant in [start, end), accepting each
// candidate with probability proportional to the profile's activity.
func (g *Generator) purchaseTime() time.Time {
	f := g.faker
	var t time.Time
	for i := 0; i < maxPurchaseDraws; i++ {
		t = f.DateRange(g.start, g.end)
		if g.opts.Profile == nil ||
			f.Float64(0, profiles.MaxActivity) < g.opts.Profile.ActivityLevel(t) {
			break
		}
	}
	return t.Truncate(time.Second).In(g.opts.Zone)
}

// midnight returns the start of t's calendar day in t's zone.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func progressInterval(total int) int64 {
	if total < 10 {
		return 1
	}
	return int64(total / 10)
}

// ProgressReporter tracks and reports data generation progress.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update updates the progress and logs if necessary.
func (p *ProgressReporter) Update(rowsGenerated int64) {
	oldRow := p.currentRow
	p.currentRow += rowsGenerated

	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := float64(p.currentRow) / float64(p.totalRows) * 100
		logging.Debug().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Generating data")
	}
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table complete")
}
