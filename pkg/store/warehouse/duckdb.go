package warehouse

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

// Local development backend. The boot schema mirrors the retail tables the
// report definitions query, so every report runs unchanged against a local
// file (or :memory:) database.

const transactionsSchema = `
	CREATE SCHEMA IF NOT EXISTS blue_sage;
	CREATE TABLE IF NOT EXISTS blue_sage.dutchie_transactions (
		transactionid VARCHAR NOT NULL,
		transactiondate TIMESTAMP NOT NULL,
		completedbyuser VARCHAR,
		total DOUBLE,
		isvoid BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (transactionid)
	);
`

const inventorySchema = `
	CREATE TABLE IF NOT EXISTS blue_sage.dutchie_inventory (
		productid VARCHAR NOT NULL,
		productname VARCHAR NOT NULL,
		location VARCHAR,
		PRIMARY KEY (productid)
	);
`

const itemsSchema = `
	CREATE TABLE IF NOT EXISTS blue_sage.flattened_items (
		transactionid VARCHAR NOT NULL,
		productid VARCHAR NOT NULL,
		totalprice DOUBLE
	);
`

const customersSchema = `
	CREATE TABLE IF NOT EXISTS blue_sage.matched_customers_zipcodes (
		customerid VARCHAR,
		zipcode VARCHAR,
		latitude DOUBLE,
		longitude DOUBLE
	);
`

const inventoryAgingSchema = `
	CREATE TABLE IF NOT EXISTS blue_sage.report_inventory_aging (
		location VARCHAR,
		product VARCHAR,
		category VARCHAR,
		mastercategory VARCHAR,
		cannabisinventory VARCHAR,
		"0-30" DOUBLE,
		"31-60" DOUBLE,
		"61-90" DOUBLE,
		"91-120" DOUBLE,
		"121+" DOUBLE
	);
`

var bootQueries = []string{
	transactionsSchema,
	inventorySchema,
	itemsSchema,
	customersSchema,
	inventoryAgingSchema,
}

type Settings struct {
	DbPath string
}

func NewLocalDB(settings Settings) (*sql.DB, error) {
	path := settings.DbPath
	if path == "" {
		path = ":memory:"
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", path), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
