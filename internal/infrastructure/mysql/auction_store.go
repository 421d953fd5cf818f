package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auctionhouse/internal/domain"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the server error code for a primary key collision.
const mysqlDuplicateEntry = 1062

type MySQLAuctionStore struct {
	db *sql.DB
}

func NewMySQLAuctionStore(db *sql.DB) *MySQLAuctionStore {
	return &MySQLAuctionStore{db: db}
}

// InitSchema creates the auctions and bids tables if they do not exist.
// The bids table carries an auto-increment sequence so that the top-bid
// query can break amount ties in favour of the earliest insert.
func (s *MySQLAuctionStore) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS auctions (
            id VARCHAR(191) PRIMARY KEY,
            item_name VARCHAR(255) NOT NULL,
            starting_price DOUBLE NOT NULL,
            status INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS bids (
            seq BIGINT AUTO_INCREMENT PRIMARY KEY,
            id CHAR(36) NOT NULL,
            auction_id VARCHAR(191) NOT NULL,
            bidder_id VARCHAR(191) NOT NULL,
            amount DOUBLE NOT NULL,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            INDEX idx_bids_auction (auction_id, amount)
        )`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *MySQLAuctionStore) CreateAuction(ctx context.Context, auction *domain.Auction) error {
	query := `
        INSERT INTO auctions (id, item_name, starting_price, status, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, query,
		auction.ID, auction.ItemName, auction.StartingPrice,
		int(auction.Status), auction.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return fmt.Errorf("create auction %s: %w", auction.ID, domain.ErrDuplicateAuction)
		}
		return fmt.Errorf("create auction %s: %w", auction.ID, err)
	}
	return nil
}

func (s *MySQLAuctionStore) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	query := `
        SELECT id, item_name, starting_price, status, created_at
        FROM auctions WHERE id = ?
    `

	var auction domain.Auction
	var status int

	err := s.db.QueryRowContext(ctx, query, auctionID).Scan(
		&auction.ID, &auction.ItemName, &auction.StartingPrice,
		&status, &auction.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get auction %s: %w", auctionID, domain.ErrAuctionNotFound)
		}
		return nil, fmt.Errorf("get auction %s: %w", auctionID, err)
	}

	auction.Status = domain.AuctionStatus(status)
	return &auction, nil
}

func (s *MySQLAuctionStore) InsertBid(ctx context.Context, bid *domain.Bid) error {
	// The existence check and the insert are separate statements on
	// purpose: acceptance only depends on the auction row, never on other
	// bids, so no cross-statement transaction is needed.
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM auctions WHERE id = ?`, bid.AuctionID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("insert bid for auction %s: %w", bid.AuctionID, domain.ErrAuctionNotFound)
		}
		return fmt.Errorf("insert bid for auction %s: %w", bid.AuctionID, err)
	}

	query := `
        INSERT INTO bids (id, auction_id, bidder_id, amount, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err = s.db.ExecContext(ctx, query,
		bid.ID, bid.AuctionID, bid.BidderID, bid.Amount, bid.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bid for auction %s: %w", bid.AuctionID, err)
	}
	return nil
}

func (s *MySQLAuctionStore) TopBid(ctx context.Context, auctionID string) (*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder_id, amount, created_at
        FROM bids
        WHERE auction_id = ?
        ORDER BY amount DESC, seq ASC
        LIMIT 1
    `

	var bid domain.Bid
	err := s.db.QueryRowContext(ctx, query, auctionID).Scan(
		&bid.ID, &bid.AuctionID, &bid.BidderID, &bid.Amount, &bid.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("top bid for auction %s: %w", auctionID, domain.ErrNoBids)
		}
		return nil, fmt.Errorf("top bid for auction %s: %w", auctionID, err)
	}

	return &bid, nil
}

func (s *MySQLAuctionStore) MarkConcluded(ctx context.Context, auctionID string) error {
	query := `UPDATE auctions SET status = ? WHERE id = ?`
	// Zero affected rows means an unknown or already-concluded auction;
	// re-concluding is a no-op either way.
	_, err := s.db.ExecContext(ctx, query, int(domain.AuctionConcluded), auctionID)
	if err != nil {
		return fmt.Errorf("mark concluded %s: %w", auctionID, err)
	}
	return nil
}
