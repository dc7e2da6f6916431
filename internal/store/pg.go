package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/store/schema"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

var ticketKeyColumns = []clause.Column{
	{Name: "chain_id"},
	{Name: "event_contract_address"},
	{Name: "token_id"},
}

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// UseReadReplica routes plain reads to a replica. Transactions and locking reads stay on the primary.
func UseReadReplica(db *gorm.DB, readDSN string) error {
	return db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{postgres.Open(readDSN)},
		Policy:   dbresolver.RandomPolicy{},
	}))
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// translateError maps constraint violations to domain errors
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrInvariantViolation, pgErr.Message)
		}
	}
	return err
}

func whereKey(db *gorm.DB, key domain.TicketKey) *gorm.DB {
	return db.Where("chain_id = ? AND event_contract_address = ? AND token_id = ?",
		uint64(key.ChainID), key.ContractAddress, key.TokenID)
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// GetTicket returns the cached ticket, or nil on a miss
func (s *pgStore) GetTicket(ctx context.Context, key domain.TicketKey) (*domain.Ticket, error) {
	var row schema.Ticket

	query := func(db *gorm.DB) error {
		return whereKey(db.WithContext(ctx), key).Take(&row).Error
	}

	err := query(s.db)
	if err == nil {
		return toDomainTicket(&row), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if !hasDBResolver(s.db) {
		return nil, nil
	}

	// Replica can lag behind primary; retry on primary before returning a miss.
	err = query(s.db.Clauses(dbresolver.Write))
	if err == nil {
		return toDomainTicket(&row), nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, fmt.Errorf("failed to get ticket: %w", err)
}

func applyTicketFilter(q *gorm.DB, filter TicketFilter) *gorm.DB {
	if len(filter.ChainIDs) > 0 {
		q = q.Where("chain_id IN ?", chainIDs(filter.ChainIDs))
	}
	if filter.ContractAddress != "" {
		q = q.Where("event_contract_address = ?", domain.NormalizeAddress(filter.ContractAddress))
	}
	if filter.IsListed != nil {
		q = q.Where("is_listed = ?", *filter.IsListed)
	}
	if filter.IsUsed != nil {
		q = q.Where("is_used = ?", *filter.IsUsed)
	}
	return q
}

func (s *pgStore) listTickets(ctx context.Context, base *gorm.DB, filter TicketFilter) (*Page[domain.Ticket], error) {
	q := applyTicketFilter(base, filter)

	var total int64
	if err := q.Session(&gorm.Session{}).Model(&schema.Ticket{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	limit := normalizeLimit(filter.Limit)
	var rows []schema.Ticket
	if err := q.Session(&gorm.Session{}).
		Order("id ASC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(rows))
	for i := range rows {
		tickets = append(tickets, *toDomainTicket(&rows[i]))
	}
	return newPage(tickets, total, filter.Offset), nil
}

// ListTicketsByOwner returns tickets held by an address
func (s *pgStore) ListTicketsByOwner(ctx context.Context, ownerAddress string, filter TicketFilter) (*Page[domain.Ticket], error) {
	base := s.db.WithContext(ctx).Model(&schema.Ticket{}).
		Where("owner_address = ?", domain.NormalizeAddress(ownerAddress))
	return s.listTickets(ctx, base, filter)
}

// ListTicketsByEvent returns tickets of an event contract
func (s *pgStore) ListTicketsByEvent(ctx context.Context, contractAddress string, filter TicketFilter) (*Page[domain.Ticket], error) {
	filter.ContractAddress = contractAddress
	base := s.db.WithContext(ctx).Model(&schema.Ticket{})
	return s.listTickets(ctx, base, filter)
}

// upsertTicket inserts or overwrites a ticket row. is_used can only move from false to true.
func upsertTicket(tx *gorm.DB, t *domain.Ticket) error {
	row := toSchemaTicket(t)

	set := clause.AssignmentColumns([]string{
		"owner_address",
		"is_listed",
		"listing_id",
		"purchase_price",
		"last_block_number",
		"last_tx_index",
		"needs_reconcile",
		"synced_at",
		"updated_at",
	})
	set = append(set, clause.Assignment{
		Column: clause.Column{Name: "is_used"},
		Value:  gorm.Expr("tickets.is_used OR EXCLUDED.is_used"),
	})

	if err := tx.Clauses(clause.OnConflict{
		Columns:   ticketKeyColumns,
		DoUpdates: set,
	}).Create(row).Error; err != nil {
		return fmt.Errorf("failed to upsert ticket: %w", translateError(err))
	}
	return nil
}

func lockTicket(tx *gorm.DB, key domain.TicketKey) (*schema.Ticket, error) {
	var row schema.Ticket
	err := whereKey(tx.Clauses(clause.Locking{Strength: "UPDATE"}), key).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock ticket: %w", err)
	}
	return &row, nil
}

func activeListing(tx *gorm.DB, key domain.TicketKey) (*schema.MarketplaceListing, error) {
	var row schema.MarketplaceListing
	err := whereKey(tx, key).Where("status = ?", domain.ListingStatusActive).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active listing: %w", err)
	}
	return &row, nil
}

func closeListing(tx *gorm.DB, key domain.TicketKey, change ListingChange) error {
	if !change.Status.Terminal() {
		return fmt.Errorf("%w: listing %s cannot move to %s", domain.ErrInvariantViolation, change.ListingID, change.Status)
	}
	// Only active rows move; terminal statuses are final
	err := tx.Model(&schema.MarketplaceListing{}).
		Where("chain_id = ? AND event_contract_address = ? AND listing_id = ? AND status = ?",
			uint64(key.ChainID), key.ContractAddress, change.ListingID, domain.ListingStatusActive).
		Updates(map[string]interface{}{
			"status":     change.Status,
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to close listing: %w", err)
	}
	return nil
}

func openListing(tx *gorm.DB, listing *domain.Listing) error {
	row := schema.MarketplaceListing{
		ListingID:            listing.ListingID,
		ChainID:              uint64(listing.Key.ChainID),
		EventContractAddress: listing.Key.ContractAddress,
		TokenID:              listing.Key.TokenID,
		SellerAddress:        listing.SellerAddress,
		Price:                listing.Price,
		Status:               domain.ListingStatusActive,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chain_id"}, {Name: "event_contract_address"}, {Name: "listing_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to open listing: %w", translateError(err))
	}
	return nil
}

// SaveSnapshot overwrites the ticket row and its listings with a chain-confirmed snapshot
func (s *pgStore) SaveSnapshot(ctx context.Context, state *domain.ChainTicketState, syncedAt time.Time) (*domain.Ticket, error) {
	if !state.Exists {
		if err := s.DeleteTicket(ctx, state.Key); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var saved *domain.Ticket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the current row so a concurrent projection waits for the snapshot
		current, err := lockTicket(tx, state.Key)
		if err != nil {
			return err
		}

		// A mutation confirmed after the snapshot's block was projected while the chain was read.
		// The row is newer than the snapshot, so only a check-in is carried over.
		if current != nil && current.LastBlockNumber != nil && state.BlockNumber > 0 && *current.LastBlockNumber > state.BlockNumber {
			if state.IsUsed && !current.IsUsed {
				err := tx.Model(&schema.Ticket{}).Where("id = ?", current.ID).
					Updates(map[string]interface{}{
						"is_used":    true,
						"updated_at": gorm.Expr("now()"),
					}).Error
				if err != nil {
					return fmt.Errorf("failed to mark ticket used: %w", err)
				}
				current.IsUsed = true
			}
			saved = toDomainTicket(current)
			return nil
		}

		// 2. Close a cached active listing the chain no longer reports
		active, err := activeListing(tx, state.Key)
		if err != nil {
			return err
		}
		if active != nil && (!state.IsListed || state.ListingID == nil || active.ListingID != *state.ListingID) {
			status := domain.ListingStatusCancelled
			if !domain.SameAddress(active.SellerAddress, state.Holder) {
				status = domain.ListingStatusSold
			}
			if err := closeListing(tx, state.Key, ListingChange{ListingID: active.ListingID, Status: status}); err != nil {
				return err
			}
		}

		// 3. Mirror the chain's active listing
		if state.IsListed && state.ListingID != nil && (active == nil || active.ListingID != *state.ListingID) {
			listing := &domain.Listing{
				ListingID:     *state.ListingID,
				Key:           state.Key,
				SellerAddress: state.Holder,
				Price:         "0",
			}
			if state.ListingSeller != nil {
				listing.SellerAddress = domain.NormalizeAddress(*state.ListingSeller)
			}
			if state.ListingPrice != nil {
				listing.Price = *state.ListingPrice
			}
			if err := openListing(tx, listing); err != nil {
				return err
			}
		}

		// 4. Overwrite the ticket row
		ticket := &domain.Ticket{
			Key:           state.Key,
			OwnerAddress:  domain.NormalizeAddress(state.Holder),
			IsUsed:        state.IsUsed,
			IsListed:      state.IsListed && state.ListingID != nil,
			PurchasePrice: state.PurchasePrice,
			SyncedAt:      syncedAt,
		}
		if ticket.IsListed {
			ticket.ListingID = state.ListingID
		}
		// The snapshot reflects every mutation confirmed up to its block
		if current != nil {
			ticket.LastBlock = current.LastBlockNumber
			ticket.LastTxIndex = current.LastTxIndex
		}
		if state.BlockNumber > 0 && (ticket.LastBlock == nil || *ticket.LastBlock < state.BlockNumber) {
			block := state.BlockNumber
			ticket.LastBlock = &block
			ticket.LastTxIndex = nil
		}
		if err := upsertTicket(tx, ticket); err != nil {
			return err
		}

		row, err := lockTicket(tx, state.Key)
		if err != nil {
			return err
		}
		saved = toDomainTicket(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// DeleteTicket drops the cached ticket row and its active listing
func (s *pgStore) DeleteTicket(ctx context.Context, key domain.TicketKey) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := whereKey(tx, key).
			Where("status = ?", domain.ListingStatusActive).
			Delete(&schema.MarketplaceListing{}).Error; err != nil {
			return fmt.Errorf("failed to delete active listing: %w", err)
		}
		if err := whereKey(tx, key).Delete(&schema.Ticket{}).Error; err != nil {
			return fmt.Errorf("failed to delete ticket: %w", err)
		}
		return nil
	})
}

// SetNeedsReconcile flags or clears a ticket for reconciliation
func (s *pgStore) SetNeedsReconcile(ctx context.Context, key domain.TicketKey, needsReconcile bool) error {
	err := whereKey(s.db.WithContext(ctx).Model(&schema.Ticket{}), key).
		Updates(map[string]interface{}{
			"needs_reconcile": needsReconcile,
			"updated_at":      gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set needs_reconcile: %w", err)
	}
	return nil
}

// ListTicketsNeedingReconcile returns keys of flagged tickets, oldest sync first
func (s *pgStore) ListTicketsNeedingReconcile(ctx context.Context, limit int) ([]domain.TicketKey, error) {
	var rows []schema.Ticket
	err := s.db.WithContext(ctx).
		Select("chain_id", "event_contract_address", "token_id").
		Where("needs_reconcile = ?", true).
		Order("synced_at ASC, id ASC").
		Limit(normalizeLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets needing reconcile: %w", err)
	}

	keys := make([]domain.TicketKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, ticketKey(row.ChainID, row.EventContractAddress, row.TokenID))
	}
	return keys, nil
}

// GetActiveListing returns the active listing of a ticket, or nil
func (s *pgStore) GetActiveListing(ctx context.Context, key domain.TicketKey) (*domain.Listing, error) {
	row, err := activeListing(s.db.WithContext(ctx), key)
	if err != nil {
		return nil, err
	}
	return toDomainListing(row), nil
}

// ListListings returns listings matching the filter, oldest first
func (s *pgStore) ListListings(ctx context.Context, filter ListingFilter) (*Page[domain.Listing], error) {
	q := s.db.WithContext(ctx).Model(&schema.MarketplaceListing{})
	if len(filter.ChainIDs) > 0 {
		q = q.Where("chain_id IN ?", chainIDs(filter.ChainIDs))
	}
	if filter.ContractAddress != "" {
		q = q.Where("event_contract_address = ?", domain.NormalizeAddress(filter.ContractAddress))
	}
	if filter.TokenID != "" {
		q = q.Where("token_id = ?", filter.TokenID)
	}
	if filter.SellerAddress != "" {
		q = q.Where("seller_address = ?", domain.NormalizeAddress(filter.SellerAddress))
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	var rows []schema.MarketplaceListing
	if err := q.Session(&gorm.Session{}).
		Order("id ASC").
		Limit(normalizeLimit(filter.Limit)).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	listings := make([]domain.Listing, 0, len(rows))
	for i := range rows {
		listings = append(listings, *toDomainListing(&rows[i]))
	}
	return newPage(listings, total, filter.Offset), nil
}

// ListTransactions returns history entries matching the filter, newest first
func (s *pgStore) ListTransactions(ctx context.Context, filter TransactionFilter) (*Page[domain.Transaction], error) {
	q := s.db.WithContext(ctx).Model(&schema.Transaction{})
	if len(filter.ChainIDs) > 0 {
		q = q.Where("chain_id IN ?", chainIDs(filter.ChainIDs))
	}
	if filter.ContractAddress != "" {
		q = q.Where("event_contract_address = ?", domain.NormalizeAddress(filter.ContractAddress))
	}
	if filter.TokenID != "" {
		q = q.Where("token_id = ?", filter.TokenID)
	}
	if filter.Address != "" {
		address := domain.NormalizeAddress(filter.Address)
		q = q.Where("(user_address = ? OR from_address = ? OR to_address = ?)", address, address, address)
	}
	if len(filter.TxTypes) > 0 {
		q = q.Where("tx_type IN ?", filter.TxTypes)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	var rows []schema.Transaction
	if err := q.Session(&gorm.Session{}).
		Order("tx_timestamp DESC, id DESC").
		Limit(normalizeLimit(filter.Limit)).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, toDomainTransaction(&rows[i]))
	}
	return newPage(txs, total, filter.Offset), nil
}

// ProjectMutation records a mutation in history and applies its projection atomically
func (s *pgStore) ProjectMutation(ctx context.Context, mutation *domain.Mutation, project ProjectFunc) (*ProjectResult, error) {
	raw, err := json.Marshal(mutation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mutation: %w", err)
	}

	result := &ProjectResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		key := mutation.Key

		// 1. Lock the ticket row (SELECT ... FOR UPDATE) so projections of one ticket never interleave
		current, err := lockTicket(tx, key)
		if err != nil {
			return err
		}

		// 2. Record history; ON CONFLICT DO NOTHING turns a replay into a no-op
		history := schema.Transaction{
			TxHash:               mutation.TxHash,
			TxType:               mutation.TxType,
			ChainID:              uint64(key.ChainID),
			EventContractAddress: key.ContractAddress,
			TokenID:              key.TokenID,
			UserAddress:          mutation.UserAddress,
			FromAddress:          mutation.FromAddress,
			ToAddress:            mutation.ToAddress,
			Amount:               mutation.Amount,
			BlockNumber:          mutation.BlockNumber,
			TxIndex:              mutation.TxIndex,
			TxTimestamp:          mutation.Timestamp,
			Raw:                  raw,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "chain_id"},
				{Name: "event_contract_address"},
				{Name: "token_id"},
				{Name: "tx_type"},
				{Name: "tx_hash"},
			},
			DoNothing: true,
		}).Create(&history)
		if insert.Error != nil {
			return fmt.Errorf("failed to record transaction: %w", insert.Error)
		}
		if insert.RowsAffected == 0 {
			logger.DebugCtx(ctx, "Mutation already recorded", logger.Mutation(mutation)...)
			result.Duplicate = true
			result.Ticket = toDomainTicket(current)
			return nil
		}

		// 3. Decide the projection against the locked state
		active, err := activeListing(tx, key)
		if err != nil {
			return err
		}
		projection, err := project(toDomainTicket(current), toDomainListing(active))
		if err != nil {
			return err
		}
		if projection == nil {
			result.Ticket = toDomainTicket(current)
			return nil
		}

		// 4. Apply: close before open so the one-active-listing index holds at every step
		if projection.CloseListing != nil {
			if err := closeListing(tx, key, *projection.CloseListing); err != nil {
				return err
			}
		}
		if projection.OpenListing != nil {
			if err := openListing(tx, projection.OpenListing); err != nil {
				return err
			}
		}
		if projection.Ticket != nil {
			if err := upsertTicket(tx, projection.Ticket); err != nil {
				return err
			}
		}

		row, err := lockTicket(tx, key)
		if err != nil {
			return err
		}
		result.Ticket = toDomainTicket(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Duplicate {
		logger.InfoCtx(ctx, "Skipped duplicate mutation", zap.String("tx_hash", mutation.TxHash))
	}
	return result, nil
}
