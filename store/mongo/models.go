package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/id"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/transaction"
	"github.com/xraph/ezcoin/types"
)

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:ezcoin_accounts"`

	Address      string             `grove:"address,pk"    bson:"_id"`
	Balance      int64              `grove:"balance"       bson:"balance"`
	Version      int64              `grove:"version"       bson:"version"`
	Transactions []transactionModel `grove:"transactions"  bson:"transactions"`
	CreatedAt    time.Time          `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time          `grove:"updated_at"    bson:"updated_at"`
}

type transactionModel struct {
	ID        string    `bson:"id"`
	Type      string    `bson:"type"`
	Amount    int64     `bson:"amount"`
	Purpose   string    `bson:"purpose"`
	Timestamp time.Time `bson:"timestamp"`
}

func toAccountModel(a *account.Account) *accountModel {
	txns := make([]transactionModel, len(a.Transactions))
	for i, t := range a.Transactions {
		txns[i] = transactionModel{
			ID:        t.ID.String(),
			Type:      string(t.Type),
			Amount:    t.Amount,
			Purpose:   t.Purpose,
			Timestamp: t.Timestamp,
		}
	}
	return &accountModel{
		Address:      a.Address,
		Balance:      a.Balance,
		Version:      a.Version,
		Transactions: txns,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func fromAccountModel(m *accountModel) (*account.Account, error) {
	txns := make([]*transaction.Transaction, len(m.Transactions))
	for i, t := range m.Transactions {
		txnID, err := id.ParseTransactionID(t.ID)
		if err != nil {
			return nil, err
		}
		txns[i] = &transaction.Transaction{
			ID:        txnID,
			Type:      transaction.Type(t.Type),
			Amount:    t.Amount,
			Purpose:   t.Purpose,
			Timestamp: t.Timestamp.UTC(),
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

// plannerModel holds all of one owner's events so a batch lands in a single
// document update.
type plannerModel struct {
	grove.BaseModel `grove:"table:ezcoin_planner_events"`

	Owner  string       `grove:"owner,pk" bson:"_id"`
	Events []eventModel `grove:"events"   bson:"events"`
}

type eventModel struct {
	ID              string    `bson:"id"`
	Title           string    `bson:"title"`
	Description     string    `bson:"description,omitempty"`
	Date            time.Time `bson:"date"`
	IsPermanent     bool      `bson:"is_permanent"`
	IPFSHash        string    `bson:"ipfs_hash,omitempty"`
	NFTTokenID      string    `bson:"nft_token_id,omitempty"`
	IsRecurring     bool      `bson:"is_recurring"`
	RecurrenceType  string    `bson:"recurrence_type,omitempty"`
	RecurrenceCount int       `bson:"recurrence_count,omitempty"`
	VideoURL        string    `bson:"video_url,omitempty"`
	AudioURL        string    `bson:"audio_url,omitempty"`
	Reminders       []int     `bson:"reminders,omitempty"`
	OriginalEventID string    `bson:"original_event_id,omitempty"`
}

func toEventModel(e planner.Event) eventModel {
	return eventModel{
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
		Reminders:       e.Reminders,
		OriginalEventID: e.OriginalEventID,
	}
}

func fromEventModel(m eventModel) planner.Event {
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
		Reminders:       m.Reminders,
		OriginalEventID: m.OriginalEventID,
	}
}
