package postgres

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/transaction"
	"github.com/xraph/ezcoin/types"
)

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:ezcoin_accounts"`

	Address      string          `grove:"address,pk"`
	Balance      int64           `grove:"balance"`
	Version      int64           `grove:"version"`
	Transactions json.RawMessage `grove:"transactions,type:jsonb"`
	CreatedAt    time.Time       `grove:"created_at"`
	UpdatedAt    time.Time       `grove:"updated_at"`
}

func toAccountModel(a *account.Account) (*accountModel, error) {
	txns, err := json.Marshal(a.Transactions)
	if err != nil {
		return nil, err
	}
	return &accountModel{
		Address:      a.Address,
		Balance:      a.Balance,
		Version:      a.Version,
		Transactions: txns,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}, nil
}

func fromAccountModel(m *accountModel) (*account.Account, error) {
	txns := []*transaction.Transaction{}
	if len(m.Transactions) > 0 && string(m.Transactions) != "null" {
		if err := json.Unmarshal(m.Transactions, &txns); err != nil {
			return nil, err
		}
	}
	return &account.Account{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Address:      m.Address,
		Balance:      m.Balance,
		Version:      m.Version,
		Transactions: txns,
	}, nil
}

// ==================== Planner models ====================

type eventModel struct {
	grove.BaseModel `grove:"table:ezcoin_planner_events"`

	Owner           string    `grove:"owner,pk"`
	ID              string    `grove:"id,pk"`
	Title           string    `grove:"title"`
	Description     string    `grove:"description"`
	Date            time.Time `grove:"date"`
	IsPermanent     bool      `grove:"is_permanent"`
	IPFSHash        string    `grove:"ipfs_hash"`
	NFTTokenID      string    `grove:"nft_token_id"`
	IsRecurring     bool      `grove:"is_recurring"`
	RecurrenceType  string    `grove:"recurrence_type"`
	RecurrenceCount int       `grove:"recurrence_count"`
	VideoURL        string    `grove:"video_url"`
	AudioURL        string    `grove:"audio_url"`
	Reminders       []int     `grove:"reminders,type:jsonb"`
	OriginalEventID string    `grove:"original_event_id"`
}

func toEventModel(owner string, e planner.Event) eventModel {
	reminders := e.Reminders
	if reminders == nil {
		reminders = []int{}
	}
	return eventModel{
		Owner:           owner,
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.Date.UTC(),
		IsPermanent:     e.IsPermanent,
		IPFSHash:        e.IPFSHash,
		NFTTokenID:      e.NFTTokenID,
		IsRecurring:     e.IsRecurring,
		RecurrenceType:  string(e.RecurrenceType),
		RecurrenceCount: e.RecurrenceCount,
		VideoURL:        e.VideoURL,
		AudioURL:        e.AudioURL,
		Reminders:       reminders,
		OriginalEventID: e.OriginalEventID,
	}
}

func fromEventModel(m *eventModel) planner.Event {
	var reminders []int
	if len(m.Reminders) > 0 {
		reminders = m.Reminders
	}
	return planner.Event{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Date:            m.Date.UTC(),
		IsPermanent:     m.IsPermanent,
		IPFSHash:        m.IPFSHash,
		NFTTokenID:      m.NFTTokenID,
		IsRecurring:     m.IsRecurring,
		RecurrenceType:  planner.RecurrenceType(m.RecurrenceType),
		RecurrenceCount: m.RecurrenceCount,
		VideoURL:        m.VideoURL,
		AudioURL:        m.AudioURL,
		Reminders:       reminders,
		OriginalEventID: m.OriginalEventID,
	}
}
