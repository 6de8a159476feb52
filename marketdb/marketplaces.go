package marketdb

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

func CreateMarketplace(tx Transactor, m *market.Marketplace) error {
	addr := m.Address()
	_, err := tx.Exec(`
INSERT INTO marketplaces(
	address,
	admin,
	credit_mint,
	credit_vault,
	fee,
	name,
	bump,
	rewards_bump,
	treasury_bump
) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		addr,
		m.Admin,
		m.CreditMint,
		m.CreditVault,
		m.Fee,
		m.Name,
		m.Bump,
		m.RewardsBump,
		m.TreasuryBump,
	)
	if err != nil {
		return errors.WithStack(err)
	}
	return replaceTiers(tx, addr, m.Tiers)
}

func UpdateMarketplaceTiers(tx Transactor, addr ledger.Identity, tiers market.TierSchedule) error {
	return replaceTiers(tx, addr, tiers)
}

func replaceTiers(tx Transactor, addr ledger.Identity, tiers market.TierSchedule) error {
	if _, err := tx.Exec("DELETE FROM mint_tiers WHERE marketplace_address = ?", addr); err != nil {
		return errors.WithStack(err)
	}
	for _, tier := range tiers {
		_, err := tx.Exec(`
INSERT INTO mint_tiers(marketplace_address, tier, amount, cost, bonus)
VALUES(?, ?, ?, ?, ?)
`,
			addr,
			tier.Tier,
			tier.Amount,
			tier.Cost,
			tier.Bonus,
		)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func GetMarketplace(tx Transactor, addr ledger.Identity) (*market.Marketplace, error) {
	row := tx.QueryRow(`
SELECT admin, credit_mint, credit_vault, fee, name, bump, rewards_bump, treasury_bump
FROM marketplaces WHERE address = ?
`, addr)

	m := new(market.Marketplace)
	err := row.Scan(
		&m.Admin,
		&m.CreditMint,
		&m.CreditVault,
		&m.Fee,
		&m.Name,
		&m.Bump,
		&m.RewardsBump,
		&m.TreasuryBump,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	rows, err := tx.Query(`
SELECT tier, amount, cost, bonus FROM mint_tiers
WHERE marketplace_address = ? ORDER BY tier ASC
`, addr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= market.NumMintTiers {
			return nil, errors.New("too many mint tiers")
		}
		tier := &m.Tiers[i]
		if err := rows.Scan(&tier.Tier, &tier.Amount, &tier.Cost, &tier.Bonus); err != nil {
			return nil, errors.WithStack(err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return m, nil
}
