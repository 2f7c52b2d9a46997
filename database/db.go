package database

import (
	"context"
	"log"
	"time"

	"sailsmart/config"
	"sailsmart/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// PG is the global Postgres handle for the relational side of the service.
var PG *gorm.DB

// InitDB initializes the MongoDB connection.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	MongoClient = client
	log.Println("Connected to MongoDB successfully!")
}

// MongoDatabase returns the application database on the global client.
func MongoDatabase() *mongo.Database {
	return MongoClient.Database(config.AppConfig.MongoDBName)
}

// InitPostgres opens the Postgres connection and migrates the relational schema.
func InitPostgres() {
	db, err := gorm.Open(postgres.Open(config.AppConfig.PostgresDSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to Postgres: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate Postgres schema: %v", err)
	}
	PG = db
	log.Println("Connected to Postgres successfully!")
}

// AutoMigrate creates or updates every relational table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Journey{},
		&models.Leg{},
		&models.JourneyRequirement{},
		&models.Registration{},
		&models.RegistrationAnswer{},
		&models.IdentityDocument{},
		&models.DocumentGrant{},
	)
}
