package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
	Down        func(*mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up() error {
	// Create migrations collection if it doesn't exist
	err := m.createMigrationsCollection()
	if err != nil {
		return err
	}

	// Get current version
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	// Run migrations
	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			log.Printf("Running migration %d: %s", migration.Version, migration.Description)

			err := migration.Up(m.db)
			if err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			err = m.updateVersion(migration.Version)
			if err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}

			log.Printf("Migration %d completed successfully", migration.Version)
		}
	}

	return nil
}

func (m *Migrator) Down(targetVersion int) error {
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version <= currentVersion && migration.Version > targetVersion {
			log.Printf("Reverting migration %d: %s", migration.Version, migration.Description)

			err := migration.Down(m.db)
			if err != nil {
				return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
			}

			previousVersion := targetVersion
			if i > 0 {
				previousVersion = m.migrations[i-1].Version
			}

			err = m.updateVersion(previousVersion)
			if err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}

			log.Printf("Migration %d reverted successfully", migration.Version)
		}
	}

	return nil
}

func (m *Migrator) createMigrationsCollection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collections, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return err
	}

	for _, name := range collections {
		if name == "migrations" {
			return nil
		}
	}

	return m.db.CreateCollection(ctx, "migrations")
}

func (m *Migrator) getCurrentVersion() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection("migrations").FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(version int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.db.Collection("migrations").ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)

	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users collection with indexes",
			Up: func(db *mongo.Database) error {
				return createUsersIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("users").Drop(context.Background())
			},
		},
		{
			Version:     2,
			Description: "Create catalog collections with indexes",
			Up: func(db *mongo.Database) error {
				if err := createProductsIndexes(db); err != nil {
					return err
				}
				return createCategoriesIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				if err := db.Collection("products").Drop(context.Background()); err != nil {
					return err
				}
				return db.Collection("categories").Drop(context.Background())
			},
		},
		{
			Version:     3,
			Description: "Create promotions collection with indexes",
			Up: func(db *mongo.Database) error {
				return createPromotionsIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("promotions").Drop(context.Background())
			},
		},
		{
			Version:     4,
			Description: "Create promo_codes collection with unique code index",
			Up: func(db *mongo.Database) error {
				return createPromoCodesIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("promo_codes").Drop(context.Background())
			},
		},
		{
			Version:     5,
			Description: "Create user_promotions collection with indexes",
			Up: func(db *mongo.Database) error {
				return createUserPromotionsIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("user_promotions").Drop(context.Background())
			},
		},
		{
			Version:     6,
			Description: "Create orders collection with indexes",
			Up: func(db *mongo.Database) error {
				return createOrdersIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("orders").Drop(context.Background())
			},
		},
		{
			Version:     7,
			Description: "Create reviews collection with indexes",
			Up: func(db *mongo.Database) error {
				return createReviewsIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("reviews").Drop(context.Background())
			},
		},
		{
			Version:     8,
			Description: "Create notifications and chat collections with indexes",
			Up: func(db *mongo.Database) error {
				if err := createNotificationsIndexes(db); err != nil {
					return err
				}
				return createChatIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				for _, name := range []string{"notifications", "conversations", "messages"} {
					if err := db.Collection(name).Drop(context.Background()); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func createIndexes(db *mongo.Database, collection string, indexes []mongo.IndexModel) error {
	_, err := db.Collection(collection).Indexes().CreateMany(context.Background(), indexes)
	return err
}

func usersIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
}

func createUsersIndexes(db *mongo.Database) error {
	return createIndexes(db, "users", usersIndexes())
}

func productsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "category_ids", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "on_sale", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
}

func createProductsIndexes(db *mongo.Database) error {
	return createIndexes(db, "products", productsIndexes())
}

func categoriesIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "parent_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "position", Value: 1}},
		},
	}
}

func createCategoriesIndexes(db *mongo.Database) error {
	return createIndexes(db, "categories", categoriesIndexes())
}

func promotionsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "end_date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "start_date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
}

func createPromotionsIndexes(db *mongo.Database) error {
	return createIndexes(db, "promotions", promotionsIndexes())
}

// promoCodesIndexes declares the unique code index backing both the
// duplicate-code conflict on creation and the collision retry during bulk
// generation.
func promoCodesIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "promotion_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "is_active", Value: 1}},
		},
	}
}

func createPromoCodesIndexes(db *mongo.Database) error {
	return createIndexes(db, "promo_codes", promoCodesIndexes())
}

func userPromotionsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "promotion_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "promo_code_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "order_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
}

func createUserPromotionsIndexes(db *mongo.Database) error {
	return createIndexes(db, "user_promotions", userPromotionsIndexes())
}

func ordersIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "payment_status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
}

func createOrdersIndexes(db *mongo.Database) error {
	return createIndexes(db, "orders", ordersIndexes())
}

// reviewsIndexes enforces one review per user per product at the storage
// layer.
func reviewsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "product_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	}
}

func createReviewsIndexes(db *mongo.Database) error {
	return createIndexes(db, "reviews", reviewsIndexes())
}

func notificationsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
}

func createNotificationsIndexes(db *mongo.Database) error {
	return createIndexes(db, "notifications", notificationsIndexes())
}

func conversationsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "customer_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "assignee_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: -1}},
		},
	}
}

func messagesIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}},
		},
	}
}

func createChatIndexes(db *mongo.Database) error {
	if err := createIndexes(db, "conversations", conversationsIndexes()); err != nil {
		return err
	}
	return createIndexes(db, "messages", messagesIndexes())
}
