package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HarvestSummary holds the aggregate outcome of harvesting a batch. Exactly one
// summary exists per harvested batch; re-saving replaces the row and its details.
type HarvestSummary struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BatchID           uuid.UUID       `gorm:"column:batch_id;type:uuid;not null;uniqueIndex"`
	HarvestDate       time.Time       `gorm:"column:harvest_date;type:date;not null"`
	TotalWeightLbs    decimal.Decimal `gorm:"column:total_weight_lbs;type:numeric(12,2);not null"`
	TotalLights       int             `gorm:"column:total_lights;not null"`
	YieldPerLight     decimal.Decimal `gorm:"column:yield_per_light;type:numeric(12,4);not null"`
	TotalRevenue      decimal.Decimal `gorm:"column:total_revenue;type:numeric(14,2);not null"`
	RevenuePerLight   decimal.Decimal `gorm:"column:revenue_per_light;type:numeric(14,4);not null"`
	CostToGrow        decimal.Decimal `gorm:"column:cost_to_grow;type:numeric(14,2);not null"`
	ProfitLoss        decimal.Decimal `gorm:"column:profit_loss;type:numeric(14,2);not null"`
	CostPerLb         decimal.Decimal `gorm:"column:cost_per_lb;type:numeric(14,4);not null"`
	NetIncomePerLb    decimal.Decimal `gorm:"column:net_income_per_lb;type:numeric(14,4);not null"`
	NetIncomeSalesPct decimal.Decimal `gorm:"column:net_income_sales_pct;type:numeric(8,2);not null"`
	Details           []HarvestDetail `gorm:"foreignKey:SummaryID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
