package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles UUID primary keys and audit trails for account-side
// entities (users, roles). Ledger entities use SequencedModel instead.
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	CreatedBy string `json:"created_by"`
	UpdatedBy string `json:"updated_by"`
}

func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	base.ID = uuid.New()
	return
}

// SequencedModel is the base for entities keyed by allocator identifiers
// (PR001, SA001, ST001...). The ID is assigned explicitly inside the
// creating transaction, never by a hook, so the allocation participates in
// the caller's atomic unit.
type SequencedModel struct {
	ID        string    `gorm:"type:varchar(16);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreatedBy string `gorm:"type:varchar(64)" json:"created_by"`
	UpdatedBy string `gorm:"type:varchar(64)" json:"updated_by"`
}

// Identifier prefixes per entity collection.
const (
	PrefixProduct          = "PR"
	PrefixCategory         = "CT"
	PrefixSale             = "SA"
	PrefixSaleItem         = "SI"
	PrefixStockTransaction = "ST"
)
