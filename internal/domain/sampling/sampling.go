package sampling

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanCode        string    `gorm:"uniqueIndex;not null;column:plan_code" json:"plan_code"`
	PlanName        string    `gorm:"not null;column:plan_name" json:"plan_name"`
	PlanType        string    `gorm:"column:plan_type;default:aql_based" json:"plan_type"`
	AQLLevel        string    `gorm:"column:aql_level" json:"aql_level,omitempty"`
	InspectionLevel string    `gorm:"column:inspection_level" json:"inspection_level,omitempty"`
	IsActive        bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Bands []LotSizeBand `gorm:"foreignKey:PlanID" json:"bands,omitempty"`
}

func (Plan) TableName() string { return "qc_sampling_plans" }

// LotSizeBand maps an inclusive lot-size range to a sampling decision. Bands of
// one plan never overlap; the write path guarantees it.
type LotSizeBand struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID       uuid.UUID `gorm:"type:uuid;not null;index;column:sampling_plan_id" json:"sampling_plan_id"`
	LotSizeMin   int       `gorm:"not null;column:lot_size_min" json:"lot_size_min"`
	LotSizeMax   int       `gorm:"not null;column:lot_size_max" json:"lot_size_max"`
	SampleSize   int       `gorm:"not null;column:sample_size" json:"sample_size"`
	AcceptNumber int       `gorm:"not null;column:accept_number" json:"accept_number"`
	RejectNumber int       `gorm:"not null;column:reject_number" json:"reject_number"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (LotSizeBand) TableName() string { return "qc_sampling_plan_bands" }
