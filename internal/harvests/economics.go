package harvests

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// StrainHarvest is one strain's harvested weights split into size grades, with
// the per-grade sale prices used for the revenue figure.
type StrainHarvest struct {
	StrainID    uuid.UUID       `json:"strain_id"`
	BigsLbs     decimal.Decimal `json:"bigs_lbs"`
	SmallsLbs   decimal.Decimal `json:"smalls_lbs"`
	MicrosLbs   decimal.Decimal `json:"micros_lbs"`
	BigsPrice   decimal.Decimal `json:"bigs_price"`
	SmallsPrice decimal.Decimal `json:"smalls_price"`
	MicrosPrice decimal.Decimal `json:"micros_price"`
}

// Weight sums the strain's three grade buckets.
func (s StrainHarvest) Weight() decimal.Decimal {
	return s.BigsLbs.Add(s.SmallsLbs).Add(s.MicrosLbs)
}

// Revenue prices each grade bucket independently.
func (s StrainHarvest) Revenue() decimal.Decimal {
	return s.BigsLbs.Mul(s.BigsPrice).
		Add(s.SmallsLbs.Mul(s.SmallsPrice)).
		Add(s.MicrosLbs.Mul(s.MicrosPrice))
}

// Economics is the derived financial picture of one harvest.
type Economics struct {
	TotalWeightLbs    decimal.Decimal
	TotalRevenue      decimal.Decimal
	TotalLights       int
	YieldPerLight     decimal.Decimal
	RevenuePerLight   decimal.Decimal
	CostToGrow        decimal.Decimal
	ProfitLoss        decimal.Decimal
	CostPerLb         decimal.Decimal
	NetIncomePerLb    decimal.Decimal
	NetIncomeSalesPct decimal.Decimal
}

// ComputeEconomics reduces per-strain weights and prices into the harvest
// summary figures. A lights count of zero or less is treated as one light so
// the per-light rates stay defined; per-weight and per-revenue ratios are zero
// when their denominators are zero.
func ComputeEconomics(strains []StrainHarvest, totalLights int, costToGrow decimal.Decimal) Economics {
	weight := decimal.Zero
	revenue := decimal.Zero
	for _, s := range strains {
		weight = weight.Add(s.Weight())
		revenue = revenue.Add(s.Revenue())
	}

	lights := decimal.NewFromInt(1)
	if totalLights > 0 {
		lights = decimal.NewFromInt(int64(totalLights))
	}

	profit := revenue.Sub(costToGrow)

	costPerLb := decimal.Zero
	netPerLb := decimal.Zero
	if weight.IsPositive() {
		costPerLb = costToGrow.Div(weight).Round(4)
		netPerLb = profit.Div(weight).Round(4)
	}

	netPct := decimal.Zero
	if revenue.IsPositive() {
		netPct = profit.Div(revenue).Mul(hundred).Round(2)
	}

	return Economics{
		TotalWeightLbs:    weight,
		TotalRevenue:      revenue,
		TotalLights:       totalLights,
		YieldPerLight:     weight.Div(lights).Round(4),
		RevenuePerLight:   revenue.Div(lights).Round(4),
		CostToGrow:        costToGrow,
		ProfitLoss:        profit,
		CostPerLb:         costPerLb,
		NetIncomePerLb:    netPerLb,
		NetIncomeSalesPct: netPct,
	}
}
