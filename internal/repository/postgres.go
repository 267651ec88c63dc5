package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/latinum-ai/mercator/internal/models"
	"github.com/latinum-ai/mercator/pkg/logger"
)

// MaxDeliveryAttempts is how many times an outbox email is retried before it
// is abandoned.
const MaxDeliveryAttempts = 5

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use standard logger
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond, // Log queries slower than this
			LogLevel:                  gormLogger.Warn,        // Only log warnings or errors
			IgnoreRecordNotFoundError: true,                   // Suppress "record not found" errors
			Colorful:                  true,                   // Enable colorful logs
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %s", err)
	}

	if err := db.AutoMigrate(&models.Wallet{}, &models.Product{}, &models.Order{}, &models.OutboxEmail{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

func (db *PostgresDB) GetWallet(uuid string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := db.Conn.Where("uuid = ?", uuid).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %s", err)
	}

	return &wallet, nil
}

func (db *PostgresDB) GetProductsByIDs(ids []int64) ([]*models.Product, error) {
	var products []*models.Product
	if err := db.Conn.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %s", err)
	}

	return products, nil
}

func (db *PostgresDB) SearchProducts(query string, limit int) ([]*models.Product, error) {
	var products []*models.Product
	tx := db.Conn.Order("id")
	if query != "" {
		tx = tx.Where("name ILIKE ?", "%"+query+"%")
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %s", err)
	}

	return products, nil
}

// SettlePurchase records the orders, debits the wallet and enqueues the
// notification emails in one transaction. The debit is a single conditional
// UPDATE so concurrent settlements on the same wallet cannot lose updates.
func (db *PostgresDB) SettlePurchase(walletUUID string, orders []*models.Order, totalWei int64, emails []*models.OutboxEmail) error {
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		if len(orders) > 0 {
			if err := tx.Create(&orders).Error; err != nil {
				return fmt.Errorf("failed to record orders: %s", err)
			}
		}

		res := tx.Model(&models.Wallet{}).
			Where("uuid = ? AND credit >= ?", walletUUID, totalWei).
			UpdateColumn("credit", gorm.Expr("credit - ?", totalWei))
		if res.Error != nil {
			return fmt.Errorf("failed to debit wallet: %s", res.Error)
		}
		if res.RowsAffected == 0 {
			// Either the wallet is gone or a concurrent settlement drained it.
			var count int64
			if err := tx.Model(&models.Wallet{}).Where("uuid = ?", walletUUID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check wallet: %s", err)
			}
			if count == 0 {
				return models.ErrWalletNotFound
			}
			return models.ErrInsufficientCredit
		}

		if len(emails) > 0 {
			if err := tx.Create(&emails).Error; err != nil {
				return fmt.Errorf("failed to enqueue outbox emails: %s", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	db.logger.Debug("Purchase settled ", "wallet ", walletUUID, " orders ", len(orders), " total_wei ", totalWei)
	return nil
}

func (db *PostgresDB) PendingOutboxEmails(limit int) ([]*models.OutboxEmail, error) {
	var emails []*models.OutboxEmail
	tx := db.Conn.Where("sent_at = 0 AND attempts < ?", MaxDeliveryAttempts).Order("created_at")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&emails).Error; err != nil {
		return nil, fmt.Errorf("failed to get pending outbox emails: %s", err)
	}

	return emails, nil
}

func (db *PostgresDB) MarkOutboxEmailSent(id string, sentAt int64) error {
	if err := db.Conn.Model(&models.OutboxEmail{}).Where("id = ?", id).
		Updates(map[string]interface{}{"sent_at": sentAt, "attempts": gorm.Expr("attempts + 1")}).Error; err != nil {
		return fmt.Errorf("failed to mark outbox email sent: %s", err)
	}
	return nil
}

func (db *PostgresDB) MarkOutboxEmailFailed(id string) error {
	if err := db.Conn.Model(&models.OutboxEmail{}).Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
		return fmt.Errorf("failed to mark outbox email failed: %s", err)
	}
	return nil
}
