package marketdb

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/log"
)

var logger = log.ModuleLogger("migrations")

const CreateMigrationsQuery = `
CREATE TABLE IF NOT EXISTS migrations (
	id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	name VARCHAR NOT NULL,
	applied_at INTEGER NOT NULL
);
`

type Migration struct {
	Query string
	Name  string
}

var Migrations = []*Migration{
	{
		Query: `
CREATE TABLE marketplaces (
	address VARCHAR(64) NOT NULL PRIMARY KEY,
	admin VARCHAR(64) NOT NULL,
	credit_mint VARCHAR(64) NOT NULL,
	credit_vault VARCHAR(64) NOT NULL,
	fee INTEGER NOT NULL,
	name VARCHAR(32) NOT NULL,
	bump INTEGER NOT NULL,
	rewards_bump INTEGER NOT NULL,
	treasury_bump INTEGER NOT NULL
);

CREATE UNIQUE INDEX idx_uniq_marketplaces_triple ON marketplaces(admin, credit_mint, name);
`,
		Name: "create_marketplaces",
	},
	{
		Query: `
CREATE TABLE mint_tiers (
	marketplace_address VARCHAR(64) NOT NULL,
	tier INTEGER NOT NULL,
	amount INTEGER NOT NULL,
	cost INTEGER NOT NULL,
	bonus INTEGER NOT NULL,
	PRIMARY KEY (marketplace_address, tier),
	FOREIGN KEY (marketplace_address) REFERENCES marketplaces(address)
);
`,
		Name: "create_mint_tiers",
	},
	{
		Query: `
CREATE TABLE listings (
	address VARCHAR(64) NOT NULL PRIMARY KEY,
	marketplace_address VARCHAR(64) NOT NULL,
	asset VARCHAR(64) NOT NULL,
	seller VARCHAR(64) NOT NULL,
	bid_cost INTEGER NOT NULL,
	bid_increment INTEGER NOT NULL,
	current_bid INTEGER NOT NULL,
	highest_bidder VARCHAR(64),
	timer_extension INTEGER NOT NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER NOT NULL,
	is_active BOOLEAN NOT NULL,
	buyout_price INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	bump INTEGER NOT NULL,
	FOREIGN KEY (marketplace_address) REFERENCES marketplaces(address)
);

CREATE INDEX idx_listings_marketplace ON listings(marketplace_address);
CREATE UNIQUE INDEX idx_uniq_listings_asset_seed ON listings(marketplace_address, asset, seed);
`,
		Name: "create_listings",
	},
	{
		Query: `
CREATE TABLE users (
	address VARCHAR(64) NOT NULL PRIMARY KEY,
	marketplace_address VARCHAR(64) NOT NULL,
	owner VARCHAR(64) NOT NULL,
	total_bids_placed INTEGER NOT NULL DEFAULT 0,
	total_auctions_participated INTEGER NOT NULL DEFAULT 0,
	total_auctions_won INTEGER NOT NULL DEFAULT 0,
	total_auctions_created INTEGER NOT NULL DEFAULT 0,
	points INTEGER NOT NULL DEFAULT 0,
	bump INTEGER NOT NULL,
	FOREIGN KEY (marketplace_address) REFERENCES marketplaces(address)
);

CREATE UNIQUE INDEX idx_uniq_users_marketplace_owner ON users(marketplace_address, owner);
`,
		Name: "create_users",
	},
	{
		Query: `
CREATE TABLE bids (
	id INTEGER NOT NULL PRIMARY KEY,
	listing_address VARCHAR(64) NOT NULL,
	bidder VARCHAR(64) NOT NULL,
	bid_after INTEGER NOT NULL,
	end_time_after INTEGER NOT NULL,
	slot INTEGER NOT NULL,
	FOREIGN KEY (listing_address) REFERENCES listings(address)
);

CREATE INDEX idx_bids_listing ON bids(listing_address);
CREATE INDEX idx_bids_listing_bidder ON bids(listing_address, bidder);
`,
		Name: "create_bids",
	},
	{
		Query: `
CREATE TABLE events (
	id INTEGER NOT NULL PRIMARY KEY,
	label VARCHAR NOT NULL,
	payload BLOB NOT NULL,
	slot INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX idx_events_label ON events(label);
`,
		Name: "create_events",
	},
}

func MigrateDB(engine *Engine) error {
	return engine.Transaction(func(tx Transactor) error {
		if _, err := tx.Exec(CreateMigrationsQuery); err != nil {
			return errors.Wrap(err, "error creating migrations table")
		}

		var lastName string
		row := tx.QueryRow("SELECT name FROM migrations ORDER BY id DESC LIMIT 1")
		if err := row.Scan(&lastName); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return errors.Wrap(err, "error reading migrations")
			}
		}

		start := 0
		for i, mig := range Migrations {
			if mig.Name == lastName {
				start = i + 1
				break
			}
		}

		for _, mig := range Migrations[start:] {
			logger.Info("applying migration", "name", mig.Name)
			if _, err := tx.Exec(mig.Query); err != nil {
				return errors.Wrapf(err, "error applying migration %s", mig.Name)
			}
			if _, err := tx.Exec(
				"INSERT INTO migrations(name, applied_at) VALUES(?, ?)",
				mig.Name,
				time.Now().Unix(),
			); err != nil {
				return errors.Wrap(err, "error recording migration")
			}
		}
		return nil
	})
}
