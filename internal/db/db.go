package db

import (
	"context"
	"log"

	"crax/internal/env"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Ctx = context.Background()
var RDB *redis.Client
var Client *mongo.Client

var Profiles *mongo.Collection
var Commits *mongo.Collection
var Posts *mongo.Collection
var Projects *mongo.Collection
var Events *mongo.Collection

func InitDB(deployment string) error {
	var err error

	Client, err = mongo.Connect(
		Ctx,
		options.Client().ApplyURI(env.MONGO_URI),
	)
	if err != nil {
		return err
	}

	err = Client.Ping(Ctx, nil)
	if err != nil {
		log.Fatal("COULD NOT CONNECT TO MONGODB")
		return err
	}

	database := "crax"
	if deployment == "test" {
		database = "crax_test"
	}

	// loading collections
	Profiles = GetCollection(database, "profiles", Client)
	Commits = GetCollection(database, "commits", Client)
	Posts = GetCollection(database, "posts", Client)
	Projects = GetCollection(database, "projects", Client)
	Events = GetCollection(database, "events", Client)

	return nil
}

func GetCollection(database string, collectionName string, client *mongo.Client) *mongo.Collection {
	return client.Database(database).Collection(collectionName)
}

func InitCache() error {
	var err error

	RDB = redis.NewClient(&redis.Options{
		Addr:     env.REDIS_ADDR,
		Password: "",
		DB:       15,
	})

	err = RDB.Ping(Ctx).Err()
	if err != nil {
		RDB = nil
		return err
	}

	return nil
}
